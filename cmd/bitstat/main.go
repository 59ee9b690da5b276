// Command bitstat reports the space used by every bit vector
// representation for a bit sequence read from standard input.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/ugorji/go/codec"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	succinct "github.com/AlexWan0/go-succinct"
)

type report struct {
	Kind     string  `codec:"kind"`
	Size     uint64  `codec:"size"`
	Ones     uint64  `codec:"ones"`
	BitSize  uint64  `codec:"bit_size"`
	Overhead float64 `codec:"bits_per_bit"`
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bitstat", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, `Usage of bitstat:
	bitstat [-format text|msgpack] [-kind name] [-json] [-v] < input

Options:
`)
		fs.PrintDefaults()
	}

	var (
		format     string
		kindName   string
		jsonOutput bool
		verbose    bool
		blockWidth uint
	)
	fs.StringVar(&format, "format", "text", "input format: text (0/1 characters) or msgpack (array of booleans)")
	fs.StringVar(&kindName, "kind", "", "report only this representation (dense, sparse, rrr)")
	fs.BoolVar(&jsonOutput, "json", false, "write the report as JSON")
	fs.BoolVar(&verbose, "v", false, "log construction to stderr")
	fs.UintVar(&blockWidth, "b", succinct.DefaultBlockWidth, "RRR block width")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	kinds := succinct.Kinds
	if kindName != "" {
		kind, err := succinct.ParseKind(kindName)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 2
		}
		kinds = []succinct.Kind{kind}
	}

	var (
		bits succinct.Bits
		err  error
	)
	switch format {
	case "text":
		bits, err = readText(stdin)
	case "msgpack":
		bits, err = readMsgpack(stdin)
	default:
		err = fmt.Errorf("unknown input format %q", format)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	logger := succinct.NoopLogger()
	if verbose {
		logger = succinct.NewLogger(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}

	reports := make([]report, 0, len(kinds))
	for _, kind := range kinds {
		bv, err := succinct.New(kind, bits,
			succinct.WithLogger(logger),
			succinct.WithBlockWidth(blockWidth),
			succinct.WithParallelism(0),
		)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %s\n", kind, err)
			return 1
		}
		reports = append(reports, newReport(kind, bv))
	}

	if jsonOutput {
		err = writeJSON(stdout, reports)
	} else {
		err = writeTable(stdout, reports)
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func newReport(kind succinct.Kind, bv succinct.BitVector) report {
	r := report{
		Kind:    kind.String(),
		Size:    bv.Size(),
		Ones:    bv.Count(true),
		BitSize: bv.BitSize(),
	}
	if r.Size > 0 {
		r.Overhead = float64(r.BitSize) / float64(r.Size)
	}
	return r
}

// readText reads '0' and '1' characters, skipping whitespace.
func readText(r io.Reader) (succinct.Bits, error) {
	b := succinct.NewBuilder()
	br := bufio.NewReader(r)
	for {
		c, err := br.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return succinct.Bits{}, err
		}
		switch c {
		case '0':
			b.PushBack(false)
		case '1':
			b.PushBack(true)
		case ' ', '\t', '\n', '\r':
		default:
			return succinct.Bits{}, fmt.Errorf("unexpected character %q at bit %d", c, b.Len())
		}
	}
	return b.Bits(), nil
}

func readMsgpack(r io.Reader) (succinct.Bits, error) {
	var mh codec.MsgpackHandle
	var v []bool
	if err := codec.NewDecoder(bufio.NewReader(r), &mh).Decode(&v); err != nil {
		return succinct.Bits{}, fmt.Errorf("decode msgpack: %w", err)
	}
	return succinct.FromBools(v), nil
}

func writeJSON(w io.Writer, reports []report) error {
	jh := codec.JsonHandle{Indent: 2}
	if err := codec.NewEncoder(w, &jh).Encode(reports); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func writeTable(w io.Writer, reports []report) error {
	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "kind\tsize\tones\tbit size\tbits/bit\t")
	for _, r := range reports {
		p.Fprintf(tw, "%s\t%d\t%d\t%d\t%.3f\t\n", r.Kind, r.Size, r.Ones, r.BitSize, r.Overhead)
	}
	return tw.Flush()
}
