package server

import (
	"net"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listenerPort(t *testing.T, l net.Listener) int {
	t.Helper()
	_, portStr, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return port
}

func TestResolveHostPort(t *testing.T) {
	l, err := ResolveHostPort(Options{Host: "127.0.0.1", Port: 0})
	require.NoError(t, err)
	defer l.Close()

	assert.Greater(t, listenerPort(t, l), 0)
}

func TestResolveHostPortProbesUpward(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()
	port := listenerPort(t, taken)

	l, err := ResolveHostPort(Options{Host: "127.0.0.1", Port: port})
	require.NoError(t, err)
	defer l.Close()

	assert.Greater(t, listenerPort(t, l), port)
}

func TestResolveHostPortStrict(t *testing.T) {
	taken, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer taken.Close()
	port := listenerPort(t, taken)

	_, err = ResolveHostPort(Options{Host: "127.0.0.1", Port: port, Strict: true})
	require.ErrorIs(t, err, ErrNoUsablePort)
}

func TestResolveHostPortDefaultHost(t *testing.T) {
	l, err := ResolveHostPort(Options{Port: 0})
	require.NoError(t, err)
	defer l.Close()

	host, _, err := net.SplitHostPort(l.Addr().String())
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1", host)
}
