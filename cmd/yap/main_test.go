package main

import (
	"bytes"
	"context"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/lmittmann/tint"
	"github.com/stretchr/testify/require"

	"github.com/yap-protocol/yap/pkg/config"
	"github.com/yap-protocol/yap/pkg/reader"
	"github.com/yap-protocol/yap/pkg/responder"
	"github.com/yap-protocol/yap/pkg/transport"
)

func testLogger(t *testing.T) *slog.Logger {
	return slog.New(tint.NewHandler(t.Output(), &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: "15:04:05",
	}))
}

func parse(t *testing.T, args ...string) *CLI {
	t.Helper()
	var cli CLI
	parser, err := kong.New(&cli, kong.Name("yap"), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	_, err = parser.Parse(args)
	require.NoError(t, err)
	return &cli
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "yap.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestConfigFillsFlags(t *testing.T) {
	path := writeConfig(t, `
address: "meter.local:4000"
timeout: 2s
responder:
  listen: ":4001"
  values:
    WORKING_HOURS: 7
gateway:
  listen: ":4002"
serial:
  path: /dev/ttyUSB3
  baud_rate: 9600
`)

	cli := parse(t, "--config", path, "serve")
	require.Equal(t, ":4001", cli.Serve.Listen)
	require.NotNil(t, cli.loaded)
	require.Contains(t, cli.loaded.Responder.Values, "WORKING_HOURS")

	cli = parse(t, "--config", path, "gateway")
	require.Equal(t, ":4002", cli.Gateway.Listen)
	require.Equal(t, "meter.local:4000", cli.Gateway.Address)

	cli = parse(t, "--config", path, "read")
	require.Equal(t, "meter.local:4000", cli.Read.Address)
	require.Equal(t, 2*time.Second, cli.Read.Timeout)
	require.Equal(t, "/dev/ttyUSB3", cli.Read.Serial)
	require.Equal(t, 9600, cli.Read.Baud)
}

func TestFlagsOverrideConfig(t *testing.T) {
	path := writeConfig(t, `
address: "meter.local:4000"
timeout: 2s
`)

	cli := parse(t, "--config", path, "read", "--address", "127.0.0.1:9", "-t", "1s", "SERIAL_NUMBER")
	require.Equal(t, "127.0.0.1:9", cli.Read.Address)
	require.Equal(t, time.Second, cli.Read.Timeout)
	require.Equal(t, []string{"SERIAL_NUMBER"}, cli.Read.Names)
}

func TestDefaultsWithoutConfig(t *testing.T) {
	cli := parse(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "-vv", "serve")
	require.Equal(t, ":12345", cli.Serve.Listen)
	require.Equal(t, 2, cli.Verbose)
	require.Empty(t, cli.loaded.Responder.Values)
}

func TestConflictingConfigFails(t *testing.T) {
	a := writeConfig(t, "address: \"a:1\"\n")
	b := writeConfig(t, "address: \"b:1\"\n")

	var cli CLI
	parser, err := kong.New(&cli, kong.Name("yap"), kong.Exit(func(int) {}))
	require.NoError(t, err)
	_, err = parser.Parse([]string{"--config", a + "," + b, "points"})
	require.ErrorContains(t, err, "unable to load config")
}

func TestReadSimulate(t *testing.T) {
	c := &ReadCLI{Simulate: true, Timeout: time.Second}

	var out bytes.Buffer
	require.NoError(t, c.Run(t.Context(), testLogger(t), &config.Config{}, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 7)
	require.Equal(t, `DataPoint: SERIAL_NUMBER => Result<String>: "AFG4387X01"`, lines[0])
	require.Equal(t, `DataPoint: WORKING_HOURS => Result<UInt32>: 4294967295`, lines[6])
}

func TestReadSimulate_JSON(t *testing.T) {
	c := &ReadCLI{Simulate: true, JSON: true, Names: []string{"work_output_kilowatthours"}}

	var out bytes.Buffer
	require.NoError(t, c.Run(t.Context(), testLogger(t), &config.Config{}, &out))
	require.JSONEq(t,
		`{"name":"WORK_OUTPUT_KILOWATTHOURS","id":"00000202","type":"UInt32","value":42,"raw":"0000002a"}`,
		out.String())
}

func TestReadUnknownName(t *testing.T) {
	c := &ReadCLI{Simulate: true, Names: []string{"VOLTAGE"}}
	err := c.Run(t.Context(), testLogger(t), &config.Config{}, &bytes.Buffer{})
	require.ErrorContains(t, err, "VOLTAGE")
}

func TestReadFromResponder(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	srv := responder.New("127.0.0.1:0", responder.ReferenceSource(), responder.WithLogger(testLogger(t)))
	go srv.Serve(ctx)
	<-srv.Ready()

	c := &ReadCLI{
		Address: srv.Addr().String(),
		Timeout: 2 * time.Second,
		Names:   []string{"POWER_OUTPUT_WATT", "WORK_INPUT_KILOWATTHOURS"},
	}
	var out bytes.Buffer
	require.NoError(t, c.Run(ctx, testLogger(t), &config.Config{}, &out))
	require.Equal(t,
		"DataPoint: POWER_OUTPUT_WATT => Result<Float>: 23456.543\n"+
			"DataPoint: WORK_INPUT_KILOWATTHOURS => Result<UInt32>: 23\n",
		out.String())
}

func TestReadNoConnection(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	c := &ReadCLI{Address: addr, Timeout: time.Second}
	var out bytes.Buffer
	err = c.Run(t.Context(), testLogger(t), &config.Config{}, &out)
	require.ErrorIs(t, err, transport.ErrConnect)
	require.Equal(t, reader.NoConnectionMessage+"\n", out.String())
}

func TestPoints(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, (&PointsCLI{}).Run(&out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 8)
	require.Equal(t, []string{"NAME", "ID", "TYPE", "ORDER", "LENGTH"}, strings.Fields(lines[0]))
	require.Equal(t, []string{"SERIAL_NUMBER", "00000001", "String", "-", "10"}, strings.Fields(lines[1]))
	require.Equal(t, []string{"WORKING_HOURS", "00000401", "UInt32", "little-endian", "4"}, strings.Fields(lines[7]))
}

func TestServeWithConfiguredValues(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	cfg := &config.Config{Responder: config.ResponderConfig{Values: map[string]any{"WORKING_HOURS": 7}}}
	c := &ServeCLI{Listen: addr, ReadTimeout: time.Second}

	errc := make(chan error, 1)
	go func() { errc <- c.Run(ctx, testLogger(t), cfg) }()

	rc := &ReadCLI{Address: addr, Timeout: time.Second, Names: []string{"WORKING_HOURS", "SERIAL_NUMBER"}}
	var out bytes.Buffer
	require.Eventually(t, func() bool {
		out.Reset()
		return rc.Run(ctx, testLogger(t), &config.Config{}, &out) == nil
	}, 5*time.Second, 50*time.Millisecond)

	require.Equal(t,
		"DataPoint: WORKING_HOURS => Result<UInt32>: 7\n"+
			"DataPoint: SERIAL_NUMBER => Result<Unknown>\n",
		out.String())

	cancel()
	require.NoError(t, <-errc)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	newLogger(0, &buf).Info("hidden")
	require.Empty(t, buf.String())

	newLogger(1, &buf).Info("shown")
	require.Contains(t, buf.String(), "shown")

	buf.Reset()
	newLogger(2, &buf).Debug("debug")
	require.Contains(t, buf.String(), "debug")
}
