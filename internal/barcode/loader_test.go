package barcode

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadTSV(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "bc.tsv")
	data := "# name\tseq\n" +
		"bc1\tacgtac\n" +
		"\n" +
		"bc2\tTTGCA\textra\r\n"
	require.NoError(t, os.WriteFile(fn, []byte(data), 0o644))

	list, err := LoadTSV(fn)
	require.NoError(t, err)
	assert.Equal(t, []Barcode{{Name: "bc1", Seq: "ACGTAC"}, {Name: "bc2", Seq: "TTGCA"}}, list)
	assert.Equal(t, []string{"bc1", "bc2"}, Names(list))
	assert.Equal(t, 6, MaxLen(list))
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name, data, want string
	}{
		{"missing sequence field", "bc1 ACGT\n", "t.tsv:1: want name<TAB>sequence"},
		{"empty sequence", "bc1\t \n", `t.tsv:1: barcode "bc1" has no sequence`},
		{"empty name", "\tACGT\n", "t.tsv:1: empty barcode name"},
		{"duplicate", "bc1\tACGT\nbc1\tTTTT\n", `t.tsv:2: duplicate barcode "bc1" (first on line 1)`},
		{"empty table", "# nothing\n", "t.tsv: no barcodes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.data), "t.tsv")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadTSVMissingFile(t *testing.T) {
	_, err := LoadTSV(filepath.Join(t.TempDir(), "nope.tsv"))
	assert.Error(t, err)
}
