// Package connectivity implements the network reachability probe
// used as the precheck before dispatching an analysis request.
package connectivity

import (
	"context"
	"net"
	"net/url"
	"time"

	"github.com/apunto-labs/apunto-cli/internal/core/ports/driven"
	"github.com/apunto-labs/apunto-cli/internal/logger"
)

// probeTimeout bounds the dial portion of the probe. The probe gates
// every analysis call, so it must stay cheap.
const probeTimeout = 2 * time.Second

// Ensure Probe implements the interface.
var _ driven.Connectivity = (*Probe)(nil)

// Probe answers "is the network definitely down?" in two steps: a
// local interface scan that can prove the device is offline, and an
// optional dial of the backend host that can prove it is online.
// Anything in between reports NetUnknown so callers proceed
// optimistically.
type Probe struct {
	host       string
	interfaces func() ([]net.Interface, error)
	dial       func(ctx context.Context, network, addr string) (net.Conn, error)
}

// NewProbe creates a probe for the backend at baseURL. The host
// portion is dialed on probe; an unparsable URL yields a probe that
// only does the interface scan.
func NewProbe(baseURL string) *Probe {
	dialer := &net.Dialer{Timeout: probeTimeout}
	p := &Probe{
		interfaces: net.Interfaces,
		dial:       dialer.DialContext,
	}

	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return p
	}
	host := u.Host
	if u.Port() == "" {
		switch u.Scheme {
		case "https":
			host = net.JoinHostPort(u.Hostname(), "443")
		default:
			host = net.JoinHostPort(u.Hostname(), "80")
		}
	}
	p.host = host
	return p
}

// State reports current reachability. NetOffline is returned only on
// definitive evidence (no usable interface is up); a failed dial is
// ambiguous because the backend may simply be down.
func (p *Probe) State(ctx context.Context) driven.NetState {
	if !p.hasUsableInterface() {
		logger.Debug("connectivity: no usable network interface")
		return driven.NetOffline
	}

	if p.host == "" {
		return driven.NetUnknown
	}

	dialCtx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	conn, err := p.dial(dialCtx, "tcp", p.host)
	if err != nil {
		logger.Debug("connectivity: dial %s failed: %v", p.host, err)
		return driven.NetUnknown
	}
	conn.Close()
	return driven.NetOnline
}

// hasUsableInterface reports whether any non-loopback interface is
// up. When the scan itself fails the answer is true: the precheck
// must only block a call on definitive evidence.
func (p *Probe) hasUsableInterface() bool {
	ifaces, err := p.interfaces()
	if err != nil {
		return true
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp != 0 && iface.Flags&net.FlagLoopback == 0 {
			return true
		}
	}
	return false
}
