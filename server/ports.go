package server

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// ErrNoUsablePort means host/port negotiation exhausted its attempts. The
// caller is expected to treat this as fatal and exit rather than continue
// with no listener.
var ErrNoUsablePort = errors.New("no usable port")

const defaultAttempts = 10

// Options configures host/port negotiation.
type Options struct {
	// Host is the bind address. Defaults to 127.0.0.1.
	Host string
	// Port is the first port to try.
	Port int
	// Strict fails immediately when Port is taken instead of probing
	// upward.
	Strict bool
	// Attempts bounds the upward probe. Zero means 10.
	Attempts int
}

// ResolveHostPort binds a TCP listener on the first usable port at or above
// the requested one. Returning the listener, rather than a host/port pair,
// closes the window where another process could grab the port.
func ResolveHostPort(opts Options) (net.Listener, error) {
	host := opts.Host
	if host == "" {
		host = "127.0.0.1"
	}
	attempts := opts.Attempts
	if attempts <= 0 {
		attempts = defaultAttempts
	}
	if opts.Strict {
		attempts = 1
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		l, err := net.Listen("tcp", net.JoinHostPort(host, strconv.Itoa(opts.Port+i)))
		if err == nil {
			return l, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("%w: tried ports %d-%d on %s: %v",
		ErrNoUsablePort, opts.Port, opts.Port+attempts-1, host, lastErr)
}
