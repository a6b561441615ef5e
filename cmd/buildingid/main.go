package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"

	"github.com/p4sbu/buildingid/internal/app"
	"github.com/p4sbu/buildingid/internal/config"
	"github.com/p4sbu/buildingid/internal/termcolor"
)

type GlobalOptions struct {
	Config   string `long:"config" description:"Path to a TOML config file"`
	LogLevel string `long:"log-level" default:"info" description:"Log level (trace, debug, info, warn, error)"`
	NoColor  bool   `long:"no-color" description:"Disable colored output"`
}

type AssignCommand struct {
	Output string `short:"o" long:"output" description:"Write the enriched document here instead of overwriting the input"`
	Report string `long:"report" description:"Write a YAML report of every assignment"`
	DryRun bool   `long:"dry-run" description:"Show assignments without writing anything"`
	Args   struct {
		Document string `positional-arg-name:"DOCUMENT" required:"yes"`
	} `positional-args:"yes"`

	cli *cli
}

func (c *AssignCommand) Execute(args []string) error {
	a, err := c.cli.app()
	if err != nil {
		return err
	}
	return a.Assign(c.cli.ctx, app.AssignOptions{
		Output: c.Output,
		Report: c.Report,
		DryRun: c.DryRun,
	}, c.Args.Document)
}

type ExportCommand struct {
	Output string `short:"o" long:"output" description:"Write building records here instead of stdout"`
	Format string `short:"f" long:"format" default:"yaml" choice:"yaml" choice:"json" description:"Output format"`
	Args   struct {
		Document string `positional-arg-name:"DOCUMENT" required:"yes"`
	} `positional-args:"yes"`

	cli *cli
}

func (c *ExportCommand) Execute(args []string) error {
	a, err := c.cli.app()
	if err != nil {
		return err
	}
	return a.Export(c.cli.ctx, app.ExportOptions{
		Output: c.Output,
		Format: c.Format,
	}, c.Args.Document)
}

type cli struct {
	ctx    context.Context
	opts   GlobalOptions
	stdout io.Writer
	stderr io.Writer
}

func (c *cli) app() (*app.App, error) {
	cfg := config.Default()
	if c.opts.Config != "" {
		loaded, err := config.Load(c.opts.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	a := app.New(cfg, newLogger(c.stderr, c.opts.LogLevel), c.stdout, c.stderr)
	if c.opts.NoColor {
		a.Theme = termcolor.NewTheme(termcolor.ColorModeNone)
	}
	return a, nil
}

func newLogger(out io.Writer, levelName string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	level, err := logrus.ParseLevel(strings.ToLower(levelName))
	if err != nil {
		log.Warnf("Invalid log level %q, defaulting to info", levelName)
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	c := &cli{ctx: ctx, stdout: stdout, stderr: stderr}
	parser := flags.NewParser(&c.opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "buildingid"

	if _, err := parser.AddCommand("assign",
		"Assign building identifiers",
		"Derive a unique 4-character buildingId from every feature name and write the document back.",
		&AssignCommand{cli: c}); err != nil {
		return err
	}
	if _, err := parser.AddCommand("export",
		"Export building records",
		"Emit name, buildingId, id, building type and centroid for every identified feature.",
		&ExportCommand{cli: c}); err != nil {
		return err
	}

	_, err := parser.ParseArgs(args)
	return err
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrHelp {
			fmt.Fprintln(os.Stdout, flagsErr.Message)
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
