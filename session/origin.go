package session

import (
	"net"
	"strconv"
	"strings"

	"github.com/sonnes/darpan/site"
)

// Protocols accepted by the origin resolver. Fixed for the process lifetime.
const (
	ProtocolHTTP  = "http"
	ProtocolHTTPS = "https"
)

// Origin computes the browser-facing origin for a bind address. Binding to
// all interfaces ("0.0.0.0" or "::") is displayed as localhost, since the
// unspecified address is not navigable in a browser; every other host is
// used verbatim. The port is elided when it is the protocol default.
func Origin(protocol, bindHost string, bindPort int) string {
	host := bindHost
	if host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}

	var hostport string
	if bindPort == defaultPort(protocol) {
		hostport = host
		if strings.Contains(host, ":") {
			// Raw IPv6 literal needs brackets in a URL.
			hostport = "[" + host + "]"
		}
	} else {
		hostport = net.JoinHostPort(host, strconv.Itoa(bindPort))
	}

	return protocol + "://" + hostport + "/"
}

func defaultPort(protocol string) int {
	if protocol == ProtocolHTTPS {
		return 443
	}
	return 80
}

// OpenURL computes the full browser URL for the current artifact. The bind
// parameters are captured once at startup, after host/port negotiation.
type OpenURL struct {
	Protocol string
	Host     string
	Port     int
}

// URL joins origin, the hash-router segment when applicable, and the site
// base path. With hash routing the base lives behind "/#/" so client-side
// navigation resolves against the fragment.
func (o OpenURL) URL(base string, mode site.RouterMode) string {
	u := strings.TrimSuffix(Origin(o.Protocol, o.Host, o.Port), "/")
	if mode == site.RouterHash {
		u += "/#"
	}
	return u + site.NormalizeBase(base)
}

// For computes the URL for a compiled artifact.
func (o OpenURL) For(s *site.Site) string {
	return o.URL(s.BaseURL(), s.Router())
}
