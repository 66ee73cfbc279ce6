// internal/cli/options.go
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"bitap/internal/bitap"
	"bitap/internal/version"
)

// Undefined-symbol policies.
const (
	OnUndefinedFail = "fail"
	OnUndefinedSkip = "skip"
)

// Options holds all CLI flags and arguments.
type Options struct {
	// Input
	BarcodeFile string
	ReadFiles   []string

	// Matching
	Distance    int
	Alphabet    string
	IUPAC       bool
	OnUndefined string

	// Performance
	Threads int

	// Output
	Out           string
	NoMatches     string
	NoNoMatches   bool
	Format        string
	Header        bool
	SummaryFile   string
	LogFormat     string
	ProgressEvery time.Duration

	Quiet   bool
	Version bool
}

// NewFlagSet returns a FlagSet with ContinueOnError and the tool's usage text.
func NewFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(),
			`%s: find barcodes in sequencing reads within an edit distance

Version: %s

Usage of %s:
  %s --barcodes BARCODES.tsv --nomatches NOMATCH.fq [flags] READS.fq [READS.fq ...]

`, name, version.Version, name, name)
		fs.PrintDefaults()
	}
	return fs
}

// ParseArgs registers and parses all flags, returns an Options struct.
func ParseArgs(fs *flag.FlagSet, argv []string) (Options, error) {
	var opt Options
	var help bool

	// Input
	fs.StringVar(&opt.BarcodeFile, "barcodes", "", "barcode table: name<TAB>sequence per line [*]")
	var reads stringSlice
	fs.Var(&reads, "reads", "FASTQ file(s), plain/gzip/zstd/lz4 (repeatable or '-'); positionals also accepted [*]")

	// Matching
	fs.IntVar(&opt.Distance, "distance", 0, "maximum edit (Levenshtein) distance [0]")
	fs.StringVar(&opt.Alphabet, "alphabet", "ACGTN", "symbols allowed in reads [ACGTN]")
	fs.BoolVar(&opt.IUPAC, "iupac", false, "allow IUPAC degenerate codes in barcodes [false]")
	fs.StringVar(&opt.OnUndefined, "on-undefined", OnUndefinedFail, "read with a symbol outside --alphabet: fail | skip [fail]")

	// Performance
	fs.IntVar(&opt.Threads, "threads", 0, "number of worker threads (0 = all CPUs) [0]")

	// Output
	fs.StringVar(&opt.Out, "out", "-", "match output ('-' = stdout; .gz/.zst compress) [-]")
	fs.StringVar(&opt.NoMatches, "nomatches", "", "FASTQ output for reads without any barcode [*]")
	fs.BoolVar(&opt.NoNoMatches, "no-nomatches", false, "do not write reads without a barcode [false]")
	fs.StringVar(&opt.Format, "format", "tsv", "match output format: tsv | jsonl [tsv]")
	fs.BoolVar(&opt.Header, "header", false, "write a header line in TSV output [false]")
	fs.StringVar(&opt.SummaryFile, "summary", "", "write per-barcode read counts (TSV) to this file")
	fs.StringVar(&opt.LogFormat, "log-format", "text", "log format on stderr: text | json [text]")
	fs.DurationVar(&opt.ProgressEvery, "progress-interval", 10*time.Second, "log progress at most this often (0 = never) [10s]")

	fs.BoolVar(&opt.Quiet, "quiet", false, "only log warnings and errors [false]")
	fs.BoolVar(&opt.Version, "v", false, "print version and exit (shorthand) [false]")
	fs.BoolVar(&opt.Version, "version", false, "print version and exit [false]")
	fs.BoolVar(&help, "h", false, "show this help message (shorthand) [false]")

	flagArgs, posArgs := splitFlagsAndPositionals(fs, argv)
	if err := fs.Parse(flagArgs); err != nil {
		return opt, err
	}
	if help {
		return opt, flag.ErrHelp
	}
	if opt.Version {
		return opt, nil
	}
	posArgs = append(posArgs, fs.Args()...)
	expanded, err := expandPositionals(posArgs)
	if err != nil {
		return opt, err
	}
	opt.ReadFiles = append([]string(reads), expanded...)

	return opt, opt.validate()
}

func (opt Options) validate() error {
	switch {
	case opt.BarcodeFile == "":
		return errors.New("--barcodes is required")
	case len(opt.ReadFiles) == 0:
		return errors.New("at least one read file is required (--reads or positional)")
	case opt.NoMatches == "" && !opt.NoNoMatches:
		return errors.New("--nomatches is required (or pass --no-nomatches)")
	case opt.NoMatches != "" && opt.NoNoMatches:
		return errors.New("--nomatches conflicts with --no-nomatches")
	case opt.NoMatches == "-" && opt.Out == "-":
		return errors.New("--out and --nomatches cannot both be stdout")
	}
	if err := bitap.CheckDistance(opt.Distance); err != nil {
		return fmt.Errorf("--distance must be between 0 and %d", bitap.MaxDistance)
	}
	if opt.Alphabet == "" {
		return errors.New("--alphabet must not be empty")
	}
	if opt.OnUndefined != OnUndefinedFail && opt.OnUndefined != OnUndefinedSkip {
		return fmt.Errorf("invalid --on-undefined %q", opt.OnUndefined)
	}
	if opt.Threads < 0 {
		return errors.New("--threads must be ≥ 0")
	}
	if opt.Format != "tsv" && opt.Format != "jsonl" {
		return fmt.Errorf("invalid --format %q", opt.Format)
	}
	if opt.LogFormat != "text" && opt.LogFormat != "json" {
		return fmt.Errorf("invalid --log-format %q", opt.LogFormat)
	}
	if opt.ProgressEvery < 0 {
		return errors.New("--progress-interval must be ≥ 0")
	}
	if n := countStdin(opt.ReadFiles); n > 1 {
		return errors.New("stdin ('-') can be read only once")
	}
	return nil
}

// PrintUsage writes the FlagSet's usage text to w.
func PrintUsage(fs *flag.FlagSet, w io.Writer) {
	fs.SetOutput(w)
	fs.Usage()
}

// stringSlice allows repeatable string flags.
type stringSlice []string

func (s *stringSlice) String() string     { return strings.Join(*s, ",") }
func (s *stringSlice) Set(v string) error { *s = append(*s, v); return nil }
