package fgcomponents

import (
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/featuregate/go-client-sdk/internal"
	"github.com/featuregate/go-client-sdk/subsystems"
)

// DefaultConnectTimeout is the HTTPConfigurationBuilder's default value for
// ConnectTimeout.
const DefaultConnectTimeout = 3 * time.Second

// DefaultRequestTimeout is the HTTPConfigurationBuilder's default value for
// RequestTimeout. It bounds how long a fetch that lost the initialization race can
// keep running before its deferred result is abandoned.
const DefaultRequestTimeout = 30 * time.Second

// HTTPConfigurationBuilder contains methods for configuring the SDK's networking
// behavior.
//
// If you want to set non-default values for any of these properties, create a
// builder with fgcomponents.HTTPConfiguration(), change its properties with the
// HTTPConfigurationBuilder methods, and store it in Config.HTTP:
//
//	config := fgclient.Config{
//	    HTTP: fgcomponents.HTTPConfiguration().ConnectTimeout(8 * time.Second),
//	}
type HTTPConfigurationBuilder struct {
	connectTimeout    time.Duration
	requestTimeout    time.Duration
	proxyURL          *url.URL
	customHeaders     http.Header
	httpClientFactory func() *http.Client
}

// HTTPConfiguration returns a configuration builder for the SDK's networking
// configuration.
func HTTPConfiguration() *HTTPConfigurationBuilder {
	return &HTTPConfigurationBuilder{
		connectTimeout: DefaultConnectTimeout,
		requestTimeout: DefaultRequestTimeout,
	}
}

// ConnectTimeout sets the maximum time to wait for a TCP connection to be
// established. The default is DefaultConnectTimeout.
func (b *HTTPConfigurationBuilder) ConnectTimeout(connectTimeout time.Duration) *HTTPConfigurationBuilder {
	if connectTimeout <= 0 {
		b.connectTimeout = DefaultConnectTimeout
	} else {
		b.connectTimeout = connectTimeout
	}
	return b
}

// RequestTimeout sets the maximum total duration of a single HTTP request. The
// default is DefaultRequestTimeout.
func (b *HTTPConfigurationBuilder) RequestTimeout(requestTimeout time.Duration) *HTTPConfigurationBuilder {
	if requestTimeout <= 0 {
		b.requestTimeout = DefaultRequestTimeout
	} else {
		b.requestTimeout = requestTimeout
	}
	return b
}

// ProxyURL directs all SDK traffic through an HTTP/HTTPS proxy. If this is not set,
// the standard environment variables (HTTPS_PROXY etc.) are honored.
func (b *HTTPConfigurationBuilder) ProxyURL(proxyURL *url.URL) *HTTPConfigurationBuilder {
	b.proxyURL = proxyURL
	return b
}

// Header adds a custom header to all SDK requests, replacing any previous value for
// the same name.
func (b *HTTPConfigurationBuilder) Header(name, value string) *HTTPConfigurationBuilder {
	if b.customHeaders == nil {
		b.customHeaders = make(http.Header)
	}
	b.customHeaders.Set(name, value)
	return b
}

// HTTPClientFactory replaces the SDK's HTTP client construction entirely. When set,
// the timeout and proxy options on this builder are ignored.
func (b *HTTPConfigurationBuilder) HTTPClientFactory(factory func() *http.Client) *HTTPConfigurationBuilder {
	b.httpClientFactory = factory
	return b
}

// Build is called internally by the SDK.
func (b *HTTPConfigurationBuilder) Build(
	clientContext subsystems.ClientContext,
) (subsystems.HTTPConfiguration, error) {
	headers := make(http.Header)
	headers.Set("Authorization", clientContext.GetSDKKey())
	headers.Set("User-Agent", "FGClient/"+internal.SDKVersion)
	for name, values := range b.customHeaders {
		headers[name] = values
	}

	factory := b.httpClientFactory
	if factory == nil {
		connectTimeout := b.connectTimeout
		requestTimeout := b.requestTimeout
		proxyURL := b.proxyURL
		factory = func() *http.Client {
			transport := &http.Transport{
				Proxy: http.ProxyFromEnvironment,
				DialContext: (&net.Dialer{
					Timeout:   connectTimeout,
					KeepAlive: 1 * time.Minute,
				}).DialContext,
				TLSHandshakeTimeout: connectTimeout,
			}
			if proxyURL != nil {
				transport.Proxy = http.ProxyURL(proxyURL)
			}
			return &http.Client{
				Timeout:   requestTimeout,
				Transport: transport,
			}
		}
	}

	return subsystems.HTTPConfiguration{
		DefaultHeaders:   headers,
		CreateHTTPClient: factory,
	}, nil
}
