// Command translit transliterates text using an easy-reading YAML rule file
// or a previously compiled transliterator.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/translitkit/go-translit/settings"
	"github.com/translitkit/go-translit/translit"
)

const usage = `translit - graph-based transliteration

Usage:
  translit -rules rules.yaml [options] [input-file]

Options:
  -rules <file>     Easy-reading YAML rule file
  -compiled <file>  Load a compiled transliterator (from -dump) instead
  -dump <file>      Compile the rule file and write the serialized form
  -output <file>    Output file (defaults to stdout)
  -ignore-errors    Skip unrecognizable input and unmatched tokens
  -version          Show version information
  -h, -help         Show this help message

Reads from the input file, or stdin when none is given, and writes the
transliteration of each line.
`

func main() {
	var rulesFile, compiledFile, dumpFile, outputFile string
	var ignoreErrors, showVersion bool

	flag.StringVar(&rulesFile, "rules", "", "easy-reading YAML rule file")
	flag.StringVar(&compiledFile, "compiled", "", "compiled transliterator file")
	flag.StringVar(&dumpFile, "dump", "", "write the compiled transliterator to a file")
	flag.StringVar(&outputFile, "output", "", "output file (defaults to stdout)")
	flag.BoolVar(&ignoreErrors, "ignore-errors", false, "skip recoverable transliteration errors")
	flag.BoolVar(&showVersion, "version", false, "show version information")
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if showVersion {
		fmt.Printf("translit version %s\n", translit.Version)
		return
	}

	t, err := buildTransliterator(rulesFile, compiledFile, ignoreErrors)
	if err != nil {
		fmt.Fprintf(os.Stderr, "translit: %v\n", err)
		os.Exit(1)
	}

	if dumpFile != "" {
		data, err := t.Dump()
		if err == nil {
			err = os.WriteFile(dumpFile, data, 0o644)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "translit: %v\n", err)
			os.Exit(1)
		}
		return
	}

	in := os.Stdin
	if flag.NArg() > 0 {
		in, err = os.Open(flag.Arg(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "translit: %v\n", err)
			os.Exit(1)
		}
		defer in.Close()
	}
	out := io.Writer(os.Stdout)
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "translit: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if err := run(t, in, out); err != nil {
		fmt.Fprintf(os.Stderr, "translit: %v\n", err)
		os.Exit(1)
	}
}

func buildTransliterator(rulesFile, compiledFile string, ignoreErrors bool) (*translit.Transliterator, error) {
	switch {
	case compiledFile != "":
		data, err := os.ReadFile(compiledFile)
		if err != nil {
			return nil, err
		}
		t, err := translit.Load(data)
		if err != nil {
			return nil, err
		}
		t.SetIgnoreErrors(ignoreErrors)
		return t, nil
	case rulesFile != "":
		var opts []settings.Option
		if ignoreErrors {
			opts = append(opts, settings.WithIgnoreErrors())
		}
		return settings.FromYAMLFile(rulesFile, opts...)
	default:
		flag.Usage()
		os.Exit(2)
		return nil, nil
	}
}

func run(t *translit.Transliterator, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	w := bufio.NewWriter(out)
	defer w.Flush()
	for scanner.Scan() {
		output, err := t.Transliterate(scanner.Text())
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, output); err != nil {
			return err
		}
	}
	return scanner.Err()
}
