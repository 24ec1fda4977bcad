package httpclient

import (
	"net/http"
	"net/http/httptest"
	"net/netip"
	"testing"

	"homeforge/config"

	"github.com/stretchr/testify/require"
)

func TestPublic(t *testing.T) {
	for addr, want := range map[string]bool{
		"93.184.216.34":   true,
		"2606:4700::1111": true,
		"127.0.0.1":       false,
		"::1":             false,
		"10.0.0.8":        false,
		"172.16.4.1":      false,
		"192.168.1.1":     false,
		"169.254.169.254": false,
		"fe80::1":         false,
		"fd00::1":         false,
		"0.0.0.0":         false,
		"::ffff:10.1.2.3": false,
		"224.0.0.251":     false,
	} {
		require.Equal(t, want, Public(netip.MustParseAddr(addr)), addr)
	}
}

func TestNewRefusesLoopback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	cfg := config.Default()
	config.Set(cfg)
	t.Cleanup(func() { config.Set(config.Default()) })

	_, err := New().R().Get(srv.URL)
	require.ErrorIs(t, err, ErrBlockedAddress)

	cfg.Preview.AllowPrivate = true
	resp, err := New().R().Get(srv.URL)
	require.NoError(t, err)
	require.Equal(t, "ok", resp.String())
}

func TestNewRefusesIPv6Loopback(t *testing.T) {
	cfg := config.Default()
	config.Set(cfg)
	t.Cleanup(func() { config.Set(config.Default()) })

	c := New()
	_, err := c.R().Get("http://[::1]:1/")
	require.ErrorIs(t, err, ErrBlockedAddress)
}
