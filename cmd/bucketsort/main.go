// bucketsort sorts text records stably by an integer key field, in linear time
// over a bounded key range.
//
// Each input (a file argument, or stdin when none is given) is sorted on its
// own. Inputs are sorted concurrently and written to stdout one after the
// other, in argument order.
//
// The key range is declared either explicitly with --min and --max, or
// implicitly as the whole domain of a narrow integer type with --key-type. A
// key outside the range fails the run with the offending line; it is never
// silently misplaced.
package main

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"

	"github.com/notorious-go/sorting/internal/sequence"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var (
		configPath string
		flags      flagValues
	)
	flagSet := pflag.NewFlagSet("bucketsort", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.StringVar(&configPath, "config", "", "YAML file with default settings")
	flags.register(flagSet)
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet, stderr)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet, stderr)
		return nil
	}

	cfg := DefaultConfig()
	if configPath != "" {
		var err error
		if cfg, err = LoadConfig(configPath); err != nil {
			return err
		}
	}
	flags.apply(&cfg, flagSet)
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := cfg.level()
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	inputs := flagSet.Args()
	if len(inputs) == 0 {
		inputs = []string{"-"}
	}
	if slices.Index(inputs, "-") != slices.LastIndex(inputs, "-") {
		return errors.New("stdin can only be read once")
	}

	out := bufio.NewWriter(stdout)
	var group sequence.Group
	group.SetLimit(cfg.Jobs)
	for _, name := range inputs {
		group.Go(func() (func() error, error) {
			sorted, err := sortInput(name, stdin, cfg, logger)
			if err != nil {
				return nil, errors.Wrapf(err, "%s", displayName(name))
			}
			// Commits run one at a time, so the shared writer needs no lock.
			return func() error { return writeRecords(out, sorted) }, nil
		})
	}
	if err := group.Wait(); err != nil {
		// Whatever was committed before the failure is still written.
		out.Flush()
		return err
	}
	return errors.WithStack(out.Flush())
}

func sortInput(name string, stdin io.Reader, cfg Config, logger *slog.Logger) ([]record, error) {
	logger = logger.With("input", displayName(name))
	start := time.Now()

	r := stdin
	if name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		defer f.Close()
		r = f
	}

	records, err := readRecords(r, cfg.KeyField, cfg.Delimiter)
	if err != nil {
		return nil, err
	}
	sorted, err := sortRecords(records, cfg, logger)
	if err != nil {
		return nil, err
	}
	logger.Debug("sorted input", "records", len(sorted), "elapsed", time.Since(start))
	return sorted, nil
}

func writeRecords(w io.Writer, records []record) error {
	for _, r := range records {
		if _, err := io.WriteString(w, r.text+"\n"); err != nil {
			return errors.WithStack(err)
		}
	}
	return nil
}

func displayName(name string) string {
	if name == "-" {
		return "stdin"
	}
	return name
}

func printHelp(flagSet *pflag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `bucketsort sorts text records stably by an integer key field.

Records are lines split into fields by --delimiter (runs of whitespace by
default); the key is field --key-field, counted from 1. Records with equal
keys keep their input order.

The key range must be declared, either with --min and --max or with
--key-type to use the whole domain of a narrow integer type. Settings may
also be read from a YAML file given with --config; flags take precedence.

Usage: bucketsort [flags] [file ...]

Flags:
`)
	flagSet.SetOutput(w)
	flagSet.PrintDefaults()
}
