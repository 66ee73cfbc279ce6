// internal/barcode/loader.go
package barcode

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Barcode is one named needle from the barcode table.
type Barcode struct {
	Name string
	Seq  string
}

// LoadTSV reads a tab-separated barcode table:
//
//	name<TAB>sequence
//
// Blank lines and lines starting with '#' are ignored. Sequences are
// upper-cased. Names must be unique; file order is kept.
func LoadTSV(path string) ([]Barcode, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()
	return Parse(fh, path)
}

// Parse reads a barcode table from r; name is used in error messages.
func Parse(r io.Reader, name string) ([]Barcode, error) {
	var (
		list []Barcode
		seen = map[string]int{}
	)
	sc := bufio.NewScanner(r)
	ln := 0
	for sc.Scan() {
		ln++
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || line[0] == '#' {
			continue
		}
		f := strings.Split(line, "\t")
		if len(f) < 2 {
			return nil, fmt.Errorf("%s:%d: want name<TAB>sequence, got %d field(s)", name, ln, len(f))
		}
		b := Barcode{
			Name: strings.TrimSpace(f[0]),
			Seq:  strings.ToUpper(strings.TrimSpace(f[1])),
		}
		if b.Name == "" {
			return nil, fmt.Errorf("%s:%d: empty barcode name", name, ln)
		}
		if b.Seq == "" {
			return nil, fmt.Errorf("%s:%d: barcode %q has no sequence", name, ln, b.Name)
		}
		if prev, dup := seen[b.Name]; dup {
			return nil, fmt.Errorf("%s:%d: duplicate barcode %q (first on line %d)", name, ln, b.Name, prev)
		}
		seen[b.Name] = ln
		list = append(list, b)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, fmt.Errorf("%s: no barcodes", name)
	}
	return list, nil
}

// Names returns barcode names in table order.
func Names(list []Barcode) []string {
	out := make([]string, len(list))
	for i, b := range list {
		out[i] = b.Name
	}
	return out
}

// MaxLen returns the length of the longest sequence.
func MaxLen(list []Barcode) int {
	n := 0
	for _, b := range list {
		n = max(n, len(b.Seq))
	}
	return n
}
