package connectivity

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

// fakeDialer counts dials and fails while down is set
type fakeDialer struct {
	mu    sync.Mutex
	down  bool
	dials int
	addrs []string
}

func (d *fakeDialer) DialContext(ctx context.Context, network, address string) (net.Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dials++
	d.addrs = append(d.addrs, address)
	if d.down {
		return nil, errors.New("network is unreachable")
	}
	client, server := net.Pipe()
	server.Close()
	return client, nil
}

func (d *fakeDialer) setDown(down bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.down = down
}

func TestHostAddress(t *testing.T) {
	tests := []struct {
		url     string
		want    string
		wantErr bool
	}{
		{"https://traintracksc.vercel.app/api", "traintracksc.vercel.app:443", false},
		{"http://localhost:3001/api", "localhost:3001", false},
		{"http://x.test/api/", "x.test:80", false},
		{"http://[::1]:8080/api", "[::1]:8080", false},
		{"ftp://x.test/api", "", true},
		{"/api", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			got, err := hostAddress(tt.url)
			if (err != nil) != tt.wantErr {
				t.Fatalf("hostAddress() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("hostAddress() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCheckerCachesResult(t *testing.T) {
	dialer := &fakeDialer{}
	clock := clockwork.NewFakeClock()

	checker, err := NewChecker("https://x.test/api", 30*time.Second, dialer, clock)
	if err != nil {
		t.Fatalf("NewChecker() error = %v", err)
	}

	if !checker.Online() {
		t.Fatal("Online() = false, want true")
	}

	dialer.setDown(true)
	if !checker.Online() {
		t.Error("Online() = false within the cache period, want cached true")
	}
	if dialer.dials != 1 {
		t.Errorf("dials = %d, want 1", dialer.dials)
	}

	clock.Advance(30 * time.Second)
	if checker.Online() {
		t.Error("Online() = true after the cache period with the network down")
	}
	if dialer.dials != 2 {
		t.Errorf("dials = %d, want 2", dialer.dials)
	}

	dialer.setDown(false)
	clock.Advance(10 * time.Second)
	if checker.Online() {
		t.Error("Online() = true within the cache period, want cached false")
	}

	clock.Advance(20 * time.Second)
	if !checker.Online() {
		t.Error("Online() = false after the network came back")
	}

	if dialer.addrs[0] != "x.test:443" {
		t.Errorf("dialed %q, want x.test:443", dialer.addrs[0])
	}
}

func TestCheckerRealDial(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())

	checker, err := NewChecker(srv.URL+"/api", time.Nanosecond, nil, nil)
	if err != nil {
		t.Fatalf("NewChecker() error = %v", err)
	}
	if !checker.Online() {
		t.Error("Online() = false for a listening server")
	}

	srv.Close()
	time.Sleep(time.Millisecond)
	if checker.Online() {
		t.Error("Online() = true for a closed server")
	}
}

func TestNewCheckerInvalidURL(t *testing.T) {
	if _, err := NewChecker("not a url", time.Second, nil, nil); err == nil {
		t.Error("NewChecker() expected an error for a url without a host")
	}
}

func TestStatic(t *testing.T) {
	if !Static(true).Online() || Static(false).Online() {
		t.Error("Static checker returned the wrong value")
	}
}
