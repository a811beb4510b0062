// Package util holds the HTTP plumbing shared by the remote
// collaborators: the Ollama embedding and generation clients and the
// web document fetcher all build their clients here, so proxy handling
// stays consistent across every outbound call the pipeline makes.
package util

import (
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/http/httpproxy"
)

// ProxyFunc returns the proxy selector for outbound requests. Explicit
// configuration wins, including no_proxy host exemptions; when nothing
// is configured the process environment applies.
func ProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" && noProxy == "" {
		return http.ProxyFromEnvironment
	}

	proxyForURL := (&httpproxy.Config{
		HTTPProxy:  httpProxy,
		HTTPSProxy: httpsProxy,
		NoProxy:    noProxy,
	}).ProxyFunc()

	return func(req *http.Request) (*url.URL, error) {
		return proxyForURL(req.URL)
	}
}

// NewHTTPClient builds a proxy-aware client with the given timeout
func NewHTTPClient(timeout time.Duration, httpProxy, httpsProxy, noProxy string) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy: ProxyFunc(httpProxy, httpsProxy, noProxy),
		},
	}
}
