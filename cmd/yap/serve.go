package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/yap-protocol/yap/pkg/config"
	"github.com/yap-protocol/yap/pkg/datapoint"
	"github.com/yap-protocol/yap/pkg/responder"
)

type ServeCLI struct {
	Listen      string        `help:"Address to listen on" short:"l" default:":12345"`
	ReadTimeout time.Duration `help:"How long a client may take to send its request" default:"5s"`
}

func (c *ServeCLI) Run(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	logger.Debug("serve command called", "serve", c)

	values := responder.ReferenceValues()
	if len(cfg.Responder.Values) > 0 {
		values = cfg.Responder.Values
		logger.Info("serving configured values", "count", len(values))
	}
	src, err := responder.NewStaticSource(datapoint.Default, values)
	if err != nil {
		return err
	}

	srv := responder.New(c.Listen, src,
		responder.WithLogger(logger),
		responder.WithReadTimeout(c.ReadTimeout))
	return srv.Serve(ctx)
}
