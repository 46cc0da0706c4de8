package responder

import (
	"context"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/lmittmann/tint"
	"github.com/stretchr/testify/require"

	"github.com/yap-protocol/yap/pkg/cobs"
	"github.com/yap-protocol/yap/pkg/datapoint"
)

func testLogger(t *testing.T) *slog.Logger {
	return slog.New(tint.NewHandler(t.Output(), &tint.Options{
		Level:      slog.LevelDebug,
		TimeFormat: "15:04:05",
	}))
}

func startServer(t *testing.T, src Source, opts ...Option) *Server {
	t.Helper()
	ctx, cancel := context.WithCancel(t.Context())

	opts = append([]Option{WithLogger(testLogger(t))}, opts...)
	s := New("127.0.0.1:0", src, opts...)
	errc := make(chan error, 1)
	go func() { errc <- s.Serve(ctx) }()

	select {
	case <-s.Ready():
	case err := <-errc:
		t.Fatalf("serve failed: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-errc)
	})
	return s
}

// exchange sends raw request bytes and returns everything the server writes
// before closing.
func exchange(t *testing.T, addr net.Addr, request []byte) []byte {
	t.Helper()
	conn, err := net.Dial("tcp", addr.String())
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.SetDeadline(time.Now().Add(5*time.Second)))
	_, err = conn.Write(request)
	require.NoError(t, err)

	resp, err := io.ReadAll(conn)
	require.NoError(t, err)
	return resp
}

func TestServer_SerialNumber(t *testing.T) {
	s := startServer(t, ReferenceSource())

	resp := exchange(t, s.Addr(), cobs.Encode(datapoint.SerialNumber.ID.Bytes()))
	require.Equal(t,
		[]byte{0x0B, 0x41, 0x46, 0x47, 0x34, 0x33, 0x38, 0x37, 0x58, 0x30, 0x31, 0x00},
		resp)
}

func TestServer_AllReferencePoints(t *testing.T) {
	s := startServer(t, ReferenceSource())

	want := map[string]string{
		"SERIAL_NUMBER":             `"AFG4387X01"`,
		"PRODUCT_TYPE":              `"YAP-Reader"`,
		"POWER_INPUT_WATT":          "1234.5",
		"POWER_OUTPUT_WATT":         "23456.543",
		"WORK_INPUT_KILOWATTHOURS":  "23",
		"WORK_OUTPUT_KILOWATTHOURS": "42",
		"WORKING_HOURS":             "4294967295",
	}

	for _, dp := range datapoint.Default.All() {
		resp := exchange(t, s.Addr(), cobs.Encode(dp.ID.Bytes()))
		r, err := datapoint.NewResult(dp, cobs.Decode(resp))
		require.NoError(t, err, dp.Name)
		require.Equal(t, want[dp.Name], r.FormatValue(), dp.Name)
	}
}

func TestServer_UnknownIdentifier(t *testing.T) {
	s := startServer(t, ReferenceSource())

	resp := exchange(t, s.Addr(), cobs.Encode([]byte{0x00, 0x00, 0x09, 0x09}))
	require.Equal(t, []byte{0x01, 0x01, 0x00}, resp)
	require.Equal(t, datapoint.UnknownPayload, cobs.Decode(resp))

	// Identifiers of the wrong length are unknown too.
	resp = exchange(t, s.Addr(), cobs.Encode([]byte{0x00, 0x00, 0x01}))
	require.Equal(t, []byte{0x01, 0x01, 0x00}, resp)
}

func TestServer_MissingValueIsUnknown(t *testing.T) {
	src, err := NewStaticSource(datapoint.Default, map[string]any{"SERIAL_NUMBER": "X"})
	require.NoError(t, err)
	s := startServer(t, src)

	resp := exchange(t, s.Addr(), cobs.Encode(datapoint.WorkingHours.ID.Bytes()))
	require.Equal(t, datapoint.UnknownPayload, cobs.Decode(resp))
}

func TestServer_SurvivesBadClients(t *testing.T) {
	s := startServer(t, ReferenceSource(), WithReadTimeout(200*time.Millisecond))

	// A client that disconnects mid-frame.
	conn, err := net.Dial("tcp", s.Addr().String())
	require.NoError(t, err)
	_, err = conn.Write([]byte{0x05, 0x41})
	require.NoError(t, err)
	require.NoError(t, conn.Close())

	// A client that never sends anything and times out.
	idle, err := net.Dial("tcp", s.Addr().String())
	require.NoError(t, err)
	defer idle.Close()

	resp := exchange(t, s.Addr(), cobs.Encode(datapoint.WorkInputKilowattHours.ID.Bytes()))
	require.Equal(t, []byte{0x00, 0x00, 0x00, 0x17}, cobs.Decode(resp))
}

func TestServer_Shutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	s := New("127.0.0.1:0", ReferenceSource(), WithLogger(testLogger(t)))

	errc := make(chan error, 1)
	go func() { errc <- s.Serve(ctx) }()
	<-s.Ready()
	addr := s.Addr().String()

	cancel()
	require.NoError(t, <-errc)

	select {
	case <-s.Done():
	default:
		t.Fatal("server not done after shutdown")
	}

	_, err := net.DialTimeout("tcp", addr, time.Second)
	require.Error(t, err)

	// Close after shutdown is harmless.
	s.Close()
}

func TestServer_CloseStopsServe(t *testing.T) {
	s := New("127.0.0.1:0", ReferenceSource(), WithLogger(testLogger(t)))

	errc := make(chan error, 1)
	go func() { errc <- s.Serve(t.Context()) }()
	<-s.Ready()

	s.Close()
	require.NoError(t, <-errc)
}

func TestServer_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	s := New(ln.Addr().String(), ReferenceSource())
	err = s.Serve(t.Context())
	require.ErrorContains(t, err, "unable to listen")
	require.Nil(t, s.Addr())
}
