// Package qotd implements the Quote of the Day protocol (RFC 865) over
// TCP and UDP. Each TCP connection receives a single quote and is closed;
// each UDP datagram is answered with a single quote datagram.
package qotd

import (
	"net"
	"net/netip"

	"github.com/Noratrieb/qotdd/internal/domain"
)

// clientAddr extracts the client IP from a net.Addr, normalized to its
// canonical form so IPv4-mapped IPv6 addresses share a rate limit bucket
// with their IPv4 equivalents.
func clientAddr(addr net.Addr) netip.Addr {
	switch a := addr.(type) {
	case *net.TCPAddr:
		return a.AddrPort().Addr().Unmap()
	case *net.UDPAddr:
		return a.AddrPort().Addr().Unmap()
	}

	if ap, err := netip.ParseAddrPort(addr.String()); err == nil {
		return ap.Addr().Unmap()
	}

	return netip.Addr{}
}

// payload renders the wire form of a quote: the rendered text followed by
// a trailing newline, truncated so the whole payload fits in maxLen bytes.
func payload(quote domain.Quote, maxLen int) []byte {
	text := quote.String()
	if maxLen > 0 && len(text) > maxLen-1 {
		text = domain.Truncate(text, maxLen-1)
	}

	return append([]byte(text), '\n')
}
