package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/yap-protocol/yap/pkg/config"
	"github.com/yap-protocol/yap/pkg/datapoint"
	"github.com/yap-protocol/yap/pkg/reader"
	"github.com/yap-protocol/yap/pkg/responder"
	"github.com/yap-protocol/yap/pkg/transport"
)

type ReadCLI struct {
	Names    []string      `arg:"" optional:"" help:"Data points to read, by name (default: all)"`
	Address  string        `help:"Responder address" short:"a" default:"localhost:12345"`
	Serial   string        `help:"Serial device to use instead of TCP" short:"s"`
	Baud     int           `help:"Serial baud rate" default:"19200"`
	Timeout  time.Duration `help:"Response timeout" short:"t" default:"5s"`
	Simulate bool          `help:"Answer from the built-in reference values instead of a responder"`
	JSON     bool          `help:"Print one JSON object per result"`
}

func (c *ReadCLI) Run(ctx context.Context, logger *slog.Logger, cfg *config.Config, out io.Writer) error {
	points, err := datapoint.Default.Select(c.Names...)
	if err != nil {
		return err
	}

	t, err := c.transport(logger, cfg)
	if err != nil {
		return err
	}
	rd := reader.New(t, reader.WithLogger(logger))

	if !c.JSON {
		return rd.Print(ctx, out, points)
	}

	enc := json.NewEncoder(out)
	return rd.ReadAll(ctx, points, func(res datapoint.Result, err error) error {
		if errors.Is(err, transport.ErrConnect) {
			fmt.Fprintln(out, reader.NoConnectionMessage)
			return err
		}
		if err != nil {
			return enc.Encode(map[string]string{"name": res.Point().Name, "error": err.Error()})
		}
		return enc.Encode(res)
	})
}

func (c *ReadCLI) transport(logger *slog.Logger, cfg *config.Config) (transport.Transport, error) {
	switch {
	case c.Simulate:
		logger.Info("simulating responder")
		return simulated(), nil
	case c.Serial != "":
		opts := transport.PortOptions{}
		if cfg.Serial != nil {
			opts = cfg.Serial.PortOptions()
		}
		opts.BaudRate = c.Baud
		logger.Info("reading from serial line", "path", c.Serial, "baud", c.Baud)
		return transport.NewSerial(c.Serial, opts,
			transport.WithLogger(logger),
			transport.WithTimeout(c.Timeout))
	default:
		logger.Info("reading from responder", "address", c.Address)
		return transport.NewTCP(c.Address,
			transport.WithLogger(logger),
			transport.WithTimeout(c.Timeout)), nil
	}
}

// simulated answers with the reference responder's values.
func simulated() *transport.Static {
	src := responder.ReferenceSource()
	payloads := make(map[datapoint.ID][]byte)
	for _, dp := range datapoint.Default.All() {
		if v, ok := src.Value(dp); ok {
			payloads[dp.ID] = v
		}
	}
	return transport.NewStatic(payloads)
}
