package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yap-protocol/yap/pkg/httpapi"
	"github.com/yap-protocol/yap/pkg/reader"
	"github.com/yap-protocol/yap/pkg/transport"
)

type GatewayCLI struct {
	Listen  string        `help:"Address to listen on" short:"l" default:":8080"`
	Address string        `help:"Responder address" short:"a" default:"localhost:12345"`
	Timeout time.Duration `help:"Response timeout" short:"t" default:"5s"`
}

func (c *GatewayCLI) Run(ctx context.Context, logger *slog.Logger) error {
	logger.Debug("gateway command called", "gateway", c)

	t := transport.NewTCP(c.Address,
		transport.WithLogger(logger),
		transport.WithTimeout(c.Timeout))
	handler := httpapi.New(httpapi.Config{
		Reader: reader.New(t, reader.WithLogger(logger)),
		Logger: logger,
	})

	srv := &http.Server{
		Addr:              c.Listen,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("listening", "address", c.Listen, "responder", c.Address)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
