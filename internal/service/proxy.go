package service

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"

	"github.com/xiaoyibao/medassist/internal/config"
	xproxy "golang.org/x/net/proxy"
)

// proxyHTTPClient builds the outbound HTTP client for the gateway. With the
// proxy disabled it returns nil so the genai client uses its default
// transport. HTTP(S) proxy URLs go through the standard transport proxy;
// socks5 URLs are dialed via x/net.
func proxyHTTPClient(p config.ProxyConfig) (*http.Client, error) {
	if !p.Enabled || p.URL == "" {
		return nil, nil
	}
	u, err := url.Parse(p.URL)
	if err != nil {
		return nil, fmt.Errorf("parse proxy url: %w", err)
	}

	var transport *http.Transport
	switch u.Scheme {
	case "socks5", "socks5h":
		var auth *xproxy.Auth
		if u.User != nil {
			password, _ := u.User.Password()
			auth = &xproxy.Auth{User: u.User.Username(), Password: password}
		}
		dialer, err := xproxy.SOCKS5("tcp", u.Host, auth, xproxy.Direct)
		if err != nil {
			return nil, fmt.Errorf("socks5 dialer: %w", err)
		}
		transport = &http.Transport{
			DialContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
				if cd, ok := dialer.(xproxy.ContextDialer); ok {
					return cd.DialContext(ctx, network, addr)
				}
				return dialer.Dial(network, addr)
			},
		}
	case "http", "https":
		transport = &http.Transport{Proxy: http.ProxyURL(u)}
	default:
		return nil, fmt.Errorf("unsupported proxy scheme %q", u.Scheme)
	}

	return &http.Client{Transport: transport, Timeout: config.RequestTimeout}, nil
}
