// Command labelsheetctl lays out label sheets and analyses sheet photos
// from the command line.
//
// Usage:
//
//	labelsheetctl layout   [options] -o out.pdf|out.svg|out.html
//	labelsheetctl grid     [options]
//	labelsheetctl template [options] -o out.dxf | -in template.dxf
//	labelsheetctl analyze  [options] <glob>...
//	labelsheetctl presets  [options]
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/piwi3910/labelsheet/internal/project"
)

// command is a subcommand entry point. Output meant for the user goes to out;
// diagnostics go through the default logger.
type command func(ctx context.Context, args []string, out io.Writer) error

var commands = map[string]command{
	"layout":   runLayout,
	"grid":     runGrid,
	"template": runTemplate,
	"analyze":  runAnalyze,
	"presets":  runPresets,
}

var (
	flagLogLevel  = flag.String("log-level", "warn", "Log level: debug, info, warn, error")
	flagLogFormat = flag.String("log-format", "text", "Log format: text or json")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	slog.SetDefault(project.NewLogger(os.Stderr, *flagLogLevel, *flagLogFormat))

	if flag.NArg() < 1 {
		usage()
		os.Exit(2)
	}
	run, ok := commands[flag.Arg(0)]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command %q\n", flag.Arg(0))
		usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, flag.Args()[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [-log-level L] [-log-format F] <command> [options]\n\n", os.Args[0])
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  layout    lay items onto sheets and write PDF, SVG or HTML")
	fmt.Fprintln(os.Stderr, "  grid      print the position grid of a layout")
	fmt.Fprintln(os.Stderr, "  template  write a DXF cutter template or read a layout from one")
	fmt.Fprintln(os.Stderr, "  analyze   infer layouts from sheet photos")
	fmt.Fprintln(os.Stderr, "  presets   list built-in and saved presets")
	fmt.Fprintln(os.Stderr)
	flag.PrintDefaults()
}
