// Package connectivity reports whether the TrainTrack API host is reachable.
//
// The Checker dials the API host and caches the answer for a configurable period so repeated failures do not
// each pay for a probe.
package connectivity

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// DefaultDialTimeout bounds a single reachability probe
const DefaultDialTimeout = 2 * time.Second

// Dialer opens network connections. *net.Dialer satisfies it.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// Checker reports whether the API host accepts TCP connections
type Checker struct {
	address string
	ttl     time.Duration
	dialer  Dialer
	clock   clockwork.Clock

	mu        sync.Mutex
	online    bool
	checkedAt time.Time
	checked   bool
}

// NewChecker creates a checker for the host of apiBaseURL. Results are cached for ttl.
func NewChecker(apiBaseURL string, ttl time.Duration, dialer Dialer, clock clockwork.Clock) (*Checker, error) {
	address, err := hostAddress(apiBaseURL)
	if err != nil {
		return nil, err
	}

	if dialer == nil {
		dialer = &net.Dialer{Timeout: DefaultDialTimeout}
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}

	return &Checker{
		address: address,
		ttl:     ttl,
		dialer:  dialer,
		clock:   clock,
	}, nil
}

// Address returns the host:port that is probed
func (c *Checker) Address() string {
	return c.address
}

// Online reports whether the last probe, made within the cache period, succeeded
func (c *Checker) Online() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.clock.Now()
	if c.checked && now.Sub(c.checkedAt) < c.ttl {
		return c.online
	}

	c.online = c.probe()
	c.checkedAt = now
	c.checked = true
	return c.online
}

func (c *Checker) probe() bool {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultDialTimeout)
	defer cancel()

	conn, err := c.dialer.DialContext(ctx, "tcp", c.address)
	if err != nil {
		return false
	}
	conn.Close()
	return true
}

// Static is a checker with a fixed answer
type Static bool

func (s Static) Online() bool { return bool(s) }

// hostAddress returns host:port for the url, using the scheme's default port when none is given
func hostAddress(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid API base URL %q: %w", rawURL, err)
	}
	if u.Hostname() == "" {
		return "", fmt.Errorf("API base URL %q does not include a host", rawURL)
	}

	port := u.Port()
	if port == "" {
		switch u.Scheme {
		case "https":
			port = "443"
		case "http":
			port = "80"
		default:
			return "", fmt.Errorf("API base URL %q has no port and an unsupported scheme", rawURL)
		}
	}
	return net.JoinHostPort(u.Hostname(), port), nil
}
