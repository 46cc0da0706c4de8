package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/yap-protocol/yap/pkg/transport"
)

func isConnect(err error) bool {
	return errors.Is(err, transport.ErrConnect)
}

// statusFor maps a read error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, transport.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
