package writers

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitap/internal/fastq"
)

func TestCreateCompressedRoundTrip(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"out.fq", "out.fq.gz", "out.fq.zst"} {
		t.Run(name, func(t *testing.T) {
			fn := filepath.Join(dir, name)
			w, err := Create(fn, nil)
			require.NoError(t, err)
			require.NoError(t, fastq.Write(w, fastq.Record{ID: "r", Seq: []byte("ACGT"), Qual: []byte("IIII")}))
			require.NoError(t, w.Close())

			var ids []string
			err = fastq.StreamPath(context.Background(), fn, func(r fastq.Record) error {
				ids = append(ids, r.ID)
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, []string{"r"}, ids)
		})
	}
}

func TestCreateStdout(t *testing.T) {
	var b bytes.Buffer
	w, err := Create("-", &b)
	require.NoError(t, err)
	_, err = w.Write([]byte("x"))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	assert.Equal(t, "x", b.String())
}

func TestCreateBadPath(t *testing.T) {
	_, err := Create(filepath.Join(t.TempDir(), "missing", "out.tsv"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestIsBrokenPipe(t *testing.T) {
	assert.True(t, IsBrokenPipe(syscall.EPIPE))
	assert.True(t, IsBrokenPipe(&os.PathError{Op: "write", Path: "/dev/stdout", Err: syscall.EPIPE}))
	assert.False(t, IsBrokenPipe(nil))
	assert.False(t, IsBrokenPipe(assert.AnError))
}
