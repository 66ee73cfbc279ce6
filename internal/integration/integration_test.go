// internal/integration/integration_test.go
package integration

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitap/internal/app"
	"bitap/pkg/api"
)

const barcodes = "# name\tsequence\nbc1\tGATTACA\nbc2\tCCGG\n"

func fastqOf(seqs ...string) string {
	var b strings.Builder
	for i, s := range seqs {
		fmt.Fprintf(&b, "@r%d\n%s\n+\n%s\n", i+1, s, strings.Repeat("I", len(s)))
	}
	return b.String()
}

func write(t *testing.T, dir, name, data string) string {
	t.Helper()
	fn := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(fn, []byte(data), 0o644))
	return fn
}

type fixture struct {
	dir, barcodes, reads, nomatch string
}

func newFixture(t *testing.T, seqs ...string) fixture {
	t.Helper()
	dir := t.TempDir()
	return fixture{
		dir:      dir,
		barcodes: write(t, dir, "bc.tsv", barcodes),
		reads:    write(t, dir, "reads.fq", fastqOf(seqs...)),
		nomatch:  filepath.Join(dir, "nomatch.fq"),
	}
}

func (f fixture) run(t *testing.T, extra ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errBuf bytes.Buffer
	argv := append([]string{"--barcodes", f.barcodes, "--nomatches", f.nomatch, "--quiet"}, extra...)
	argv = append(argv, f.reads)
	code = app.Run(argv, &out, &errBuf)
	return code, out.String(), errBuf.String()
}

func TestEndToEndTSV(t *testing.T) {
	f := newFixture(t, "AAGATTACAAA", "ttttttt", "CCGGTTGATTACA")
	code, out, errOut := f.run(t)
	require.Equal(t, 0, code, errOut)

	assert.Equal(t,
		"AAGATTACAAA\tbc1\tGATTACA\t[2]\n"+
			"CCGGTTGATTACA\tbc1\tGATTACA\t[6]\n"+
			"CCGGTTGATTACA\tbc2\tCCGG\t[0]\n", out)

	nm, err := os.ReadFile(f.nomatch)
	require.NoError(t, err)
	assert.Equal(t, "@r2\nTTTTTTT\n+\nIIIIIII\n", string(nm))
}

func TestEndToEndDistance(t *testing.T) {
	f := newFixture(t, "AAGATACAAA", "CCGGTTGATTACA")
	code, out, errOut := f.run(t, "--distance", "1", "--header")
	require.Equal(t, 0, code, errOut)
	assert.Equal(t,
		"read\tbarcode\tbarcode_seq\tpositions\n"+
			"AAGATACAAA\tbc1\tGATTACA\t[2]\n"+
			"CCGGTTGATTACA\tbc1\tGATTACA\t[5, 6, 7]\n"+
			"CCGGTTGATTACA\tbc2\tCCGG\t[0, 1]\n", out)
}

func TestEndToEndJSONL(t *testing.T) {
	f := newFixture(t, "AAGATTACAAA", "CCGGTTGATTACA")
	code, out, errOut := f.run(t, "--format", "jsonl")
	require.Equal(t, 0, code, errOut)

	var hits []api.HitV1
	sc := bufio.NewScanner(strings.NewReader(out))
	for sc.Scan() {
		var h api.HitV1
		require.NoError(t, json.Unmarshal(sc.Bytes(), &h))
		hits = append(hits, h)
	}
	require.Len(t, hits, 3)
	assert.Equal(t, api.HitV1{
		ReadID: "r1", Read: "AAGATTACAAA", Barcode: "bc1", BarcodeSeq: "GATTACA",
		Positions: []int{2}, SourceFile: f.reads, ReadOrdinal: 0,
	}, hits[0])
	assert.Equal(t, "bc2", hits[2].Barcode)
	assert.Equal(t, 1, hits[2].ReadOrdinal)
}

func TestEndToEndIUPAC(t *testing.T) {
	dir := t.TempDir()
	bc := write(t, dir, "bc.tsv", "deg\tGATNACA\n")
	reads := write(t, dir, "r.fq", fastqOf("AAGATTACAAA", "AAGATNACAAA"))
	var out, errBuf bytes.Buffer
	code := app.Run([]string{"--barcodes", bc, "--no-nomatches", "--iupac", "--quiet", reads}, &out, &errBuf)
	require.Equal(t, 0, code, errBuf.String())
	// A read 'N' only matches a barcode 'N'.
	assert.Equal(t,
		"AAGATTACAAA\tdeg\tGATNACA\t[2]\n"+
			"AAGATNACAAA\tdeg\tGATNACA\t[2]\n", out.String())
}

func TestParallelMatchesEqualSerial(t *testing.T) {
	seqs := make([]string, 500)
	for i := range seqs {
		switch i % 3 {
		case 0:
			seqs[i] = strings.Repeat("A", i%7) + "GATTACA" + strings.Repeat("T", i%5)
		case 1:
			seqs[i] = "CCGG" + strings.Repeat("TA", i%11) + "GATACA"
		default:
			seqs[i] = strings.Repeat("T", 10+i%13)
		}
	}
	f := newFixture(t, seqs...)

	run := func(threads int) (string, string) {
		code, out, errOut := f.run(t, "--distance", "1", "--format", "jsonl", "--threads", fmt.Sprint(threads))
		require.Equal(t, 0, code, errOut)
		nm, err := os.ReadFile(f.nomatch)
		require.NoError(t, err)
		return out, string(nm)
	}

	serialOut, serialNM := run(1)
	parallelOut, parallelNM := run(8)
	assert.Equal(t, serialOut, parallelOut)
	assert.Equal(t, serialNM, parallelNM)
	assert.NotEmpty(t, serialOut)
	assert.NotEmpty(t, serialNM)
}

func TestUndefinedSymbolFails(t *testing.T) {
	f := newFixture(t, "AAGATTACAAA", "ACGTXACGT")
	code, _, errOut := f.run(t)
	assert.Equal(t, 2, code)
	assert.Contains(t, errOut, "record 2 (r2)")
	assert.Contains(t, errOut, "'X'")
}

func TestUndefinedSymbolSkip(t *testing.T) {
	f := newFixture(t, "AAGATTACAAA", "ACGTXACGT", "TTTT")
	sum := filepath.Join(f.dir, "summary.tsv")
	code, out, errOut := f.run(t, "--on-undefined", "skip", "--summary", sum)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "AAGATTACAAA\tbc1\tGATTACA\t[2]\n", out)

	nm, err := os.ReadFile(f.nomatch)
	require.NoError(t, err)
	assert.Equal(t, "@r2\nACGTXACGT\n+\nIIIIIIIII\n@r3\nTTTT\n+\nIIII\n", string(nm))

	got, err := os.ReadFile(sum)
	require.NoError(t, err)
	assert.Equal(t,
		"reads\t3\nmatched\t1\nunmatched\t1\nambiguous\t0\nskipped\t1\n"+
			"barcode:bc1\t1\nbarcode:bc2\t0\n", string(got))
}

func TestSummaryCounts(t *testing.T) {
	f := newFixture(t, "AAGATTACAAA", "TTTTTTT", "CCGGTTGATTACA")
	sum := filepath.Join(f.dir, "summary.tsv")
	code, _, errOut := f.run(t, "--summary", sum)
	require.Equal(t, 0, code, errOut)

	got, err := os.ReadFile(sum)
	require.NoError(t, err)
	assert.Equal(t,
		"reads\t3\nmatched\t2\nunmatched\t1\nambiguous\t1\nskipped\t0\n"+
			"barcode:bc1\t2\nbarcode:bc2\t1\n", string(got))
}

func TestCompressedOutput(t *testing.T) {
	f := newFixture(t, "AAGATTACAAA", "TTTTTTT")
	f.nomatch = filepath.Join(f.dir, "nomatch.fq.gz")
	hits := filepath.Join(f.dir, "hits.tsv.gz")
	code, out, errOut := f.run(t, "--out", hits)
	require.Equal(t, 0, code, errOut)
	assert.Empty(t, out)

	read := func(fn string) string {
		fh, err := os.Open(fn)
		require.NoError(t, err)
		defer fh.Close()
		zr, err := gzip.NewReader(fh)
		require.NoError(t, err)
		var b bytes.Buffer
		_, err = b.ReadFrom(zr)
		require.NoError(t, err)
		return b.String()
	}
	assert.Equal(t, "AAGATTACAAA\tbc1\tGATTACA\t[2]\n", read(hits))
	assert.Equal(t, "@r2\nTTTTTTT\n+\nIIIIIII\n", read(f.nomatch))
}

func TestUsageErrors(t *testing.T) {
	f := newFixture(t, "ACGT")
	var out, errBuf bytes.Buffer

	code := app.Run([]string{"--nomatches", f.nomatch, f.reads}, &out, &errBuf)
	assert.Equal(t, 2, code)
	assert.Contains(t, errBuf.String(), "--barcodes")

	errBuf.Reset()
	code = app.Run([]string{"--barcodes", filepath.Join(f.dir, "missing.tsv"), "--no-nomatches", f.reads}, &out, &errBuf)
	assert.Equal(t, 2, code)

	errBuf.Reset()
	code = app.Run([]string{"--barcodes", f.barcodes, "--no-nomatches", filepath.Join(f.dir, "missing.fq")}, &out, &errBuf)
	assert.Equal(t, 2, code)

	long := write(t, f.dir, "long.tsv", "x\t"+strings.Repeat("A", 64)+"\n")
	errBuf.Reset()
	code = app.Run([]string{"--barcodes", long, "--no-nomatches", f.reads}, &out, &errBuf)
	assert.Equal(t, 2, code)
	assert.Contains(t, errBuf.String(), "barcode \"x\"")
}

func TestHelpAndVersion(t *testing.T) {
	var out, errBuf bytes.Buffer
	assert.Equal(t, 0, app.Run(nil, &out, &errBuf))
	assert.Contains(t, out.String(), "Usage of bitap-demux")

	out.Reset()
	assert.Equal(t, 0, app.Run([]string{"--version"}, &out, &errBuf))
	assert.True(t, strings.HasPrefix(out.String(), "bitap-demux version "))
}

func TestDistanceWarningFollowsLogFormat(t *testing.T) {
	f := newFixture(t, "AAGATTACAAA")
	var out, errBuf bytes.Buffer
	code := app.Run([]string{
		"--barcodes", f.barcodes, "--no-nomatches", "--distance", "7",
		"--log-format", "json", "--progress-interval", "0", f.reads,
	}, &out, &errBuf)
	require.Equal(t, 0, code, errBuf.String())

	var warned bool
	sc := bufio.NewScanner(&errBuf)
	for sc.Scan() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &rec), sc.Text())
		if rec["level"] == "WARN" {
			warned = true
			assert.EqualValues(t, 7, rec["distance"])
			assert.EqualValues(t, 7, rec["longest_barcode"])
		}
	}
	assert.True(t, warned, "no JSON warning in %q", errBuf.String())
}
