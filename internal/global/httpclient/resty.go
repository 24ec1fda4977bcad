package httpclient

import (
	"net"
	"net/http"
	"net/netip"
	"syscall"
	"time"

	"homeforge/config"
	"homeforge/internal/global/sentry/tracing"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// Client fetches pages for design board link previews.
var Client *resty.Client

const userAgent = "HomeForge/1.0 (+link-preview)"

// ErrBlockedAddress is returned when a preview would connect to a non-public address.
var ErrBlockedAddress = errors.New("preview target is not a public address")

func Init() {
	Client = New()
}

// New builds a client with the configured preview timeout. Unless preview.allow_private
// is set, every connection, redirects included, must reach a public address.
func New() *resty.Client {
	cfg := config.Get().Preview
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if !cfg.AllowPrivate {
		dialer := &net.Dialer{Timeout: timeout, Control: publicOnly}
		transport.DialContext = dialer.DialContext
		// a proxy would be dialed instead of the target
		transport.Proxy = nil
	}

	c := resty.New().
		SetTransport(transport).
		SetTimeout(timeout).
		SetRedirectPolicy(resty.FlexibleRedirectPolicy(5)).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml")

	if tracing.IsEnabled() {
		tracing.SetupRestyTracing(c)
	}
	return c
}

// publicOnly runs after DNS resolution, so address is always a literal IP.
func publicOnly(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return errors.WithStack(err)
	}
	ip, err := netip.ParseAddr(host)
	if err != nil {
		return errors.WithStack(err)
	}
	if !Public(ip) {
		return errors.Wrap(ErrBlockedAddress, address)
	}
	return nil
}

// Public reports whether ip is routable on the internet.
func Public(ip netip.Addr) bool {
	ip = ip.Unmap()
	return ip.IsValid() &&
		!ip.IsLoopback() &&
		!ip.IsPrivate() &&
		!ip.IsLinkLocalUnicast() &&
		!ip.IsLinkLocalMulticast() &&
		!ip.IsInterfaceLocalMulticast() &&
		!ip.IsMulticast() &&
		!ip.IsUnspecified()
}

// Get returns Client, creating it on first use.
func Get() *resty.Client {
	if Client == nil {
		Init()
	}
	return Client
}
