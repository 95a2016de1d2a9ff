// Command enhance renders audio enhancement presets over WAV files.
//
// Usage:
//
//	enhance render [flags] <input> <output>
//	enhance analyze [flags] <input>
//	enhance presets [name]
//	enhance play [flags] <input>
//
// Examples:
//
//	enhance render -p podcast-voice in.wav out.wav
//	enhance render --bass 6 --compression 0.4 --normalize in.wav out.wav
//	enhance render --preset-file mine.json --bit-depth 24 in.wav out.wav
//	enhance analyze --tones 100,1000 out.wav
//	enhance presets studio-sound
//	enhance play -p radio-voice in.wav
//
// Flags may also be read from ~/.config/algo-enhance/config.json or from
// the file named by --config.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"
)

var version = "0.1.0"

// defaultConfigPath is consulted on every run; a missing file is ignored.
const defaultConfigPath = "~/.config/algo-enhance/config.json"

// CLI is the command-line grammar.
type CLI struct {
	Config    kong.ConfigFlag  `short:"c" help:"Load flag defaults from a JSON file."`
	Version   kong.VersionFlag `short:"v" help:"Show version information."`
	LogLevel  string           `default:"warn" enum:"debug,info,warn,error" help:"Log level (${enum})."`
	LogFormat string           `default:"text" enum:"text,json" help:"Log format (${enum})."`

	Render  RenderCmd  `cmd:"" help:"Render a preset or manual settings over a WAV file."`
	Analyze AnalyzeCmd `cmd:"" help:"Print loudness and spectrum of a WAV file."`
	Presets PresetsCmd `cmd:"" help:"List built-in presets or print one as JSON."`
	Play    PlayCmd    `cmd:"" help:"Audition a WAV file, optionally processed."`
}

// Globals is passed to every command's Run method.
type Globals struct {
	Ctx context.Context
	Log *logrus.Entry
	Out io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "enhance: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newParser(cli *CLI, stdout, stderr io.Writer) (*kong.Kong, error) {
	return kong.New(cli,
		kong.Name("enhance"),
		kong.Description("Audio enhancement presets and playback"),
		kong.UsageOnError(),
		kong.Writers(stdout, stderr),
		kong.Configuration(kong.JSON, defaultConfigPath),
		kong.Vars{"version": version},
	)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var cli CLI

	parser, err := newParser(&cli, stdout, stderr)
	if err != nil {
		return err
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	log, err := newLogger(cli.LogLevel, cli.LogFormat, stderr)
	if err != nil {
		return err
	}

	return kctx.Run(&Globals{Ctx: ctx, Log: log, Out: stdout})
}

func newLogger(level, format string, w io.Writer) (*logrus.Entry, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(lvl)

	if format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	return logrus.NewEntry(logger), nil
}
