package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"

	"github.com/yap-protocol/yap/pkg/config"
)

type CLI struct {
	Verbose int      `short:"v" type:"counter" help:"Log verbosity (-v info, -vv debug)"`
	Config  []string `help:"Config files or glob patterns, merged in order" default:"~/.config/yap/config.yaml" placeholder:"PATH"`

	Read    ReadCLI    `cmd:"" help:"Read data points from a responder"`
	Points  PointsCLI  `cmd:"" help:"List the known data points"`
	Serve   ServeCLI   `cmd:"" help:"Run the reference responder"`
	Gateway GatewayCLI `cmd:"" help:"Serve data point reads over HTTP"`

	loaded *config.Config
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("yap"),
		kong.Description("YAP reader, reference responder and HTTP gateway"),
		kong.UsageOnError(),
	)

	logger := newLogger(cli.Verbose, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := cli.loaded
	if cfg == nil {
		cfg = &config.Config{}
	}
	kctx.BindTo(ctx, (*context.Context)(nil))
	kctx.BindTo(os.Stdout, (*io.Writer)(nil))

	if err := kctx.Run(logger, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// BeforeResolve loads the configuration files so their values can fill in
// flags that were not given on the command line.
func (c *CLI) BeforeResolve(ctx *kong.Context) error {
	var paths []string
	for _, f := range ctx.Flags() {
		if f.Name == "config" {
			paths, _ = ctx.FlagValue(f).([]string)
		}
	}

	val, err := config.LoadAndUnifyPaths(paths)
	if err != nil {
		return fmt.Errorf("unable to load config: %w", err)
	}
	cfg, err := config.Decode(val)
	if err != nil {
		return err
	}

	c.loaded = cfg
	ctx.AddResolver(configResolver(val))
	return nil
}

func newLogger(verbosity int, w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	switch verbosity {
	case 0:
	case 1:
		level = slog.LevelInfo
	default: // 2+
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}
