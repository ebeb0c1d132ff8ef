package util

import (
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc creates a proxy function for the verification providers'
// HTTP clients. If no proxy URLs are configured, falls back to environment
// variables. noProxy is a comma-separated list of hosts (or host suffixes)
// that bypass the proxy, so a local Ollama endpoint never routes through a
// corporate proxy meant for the OpenAI API.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	var skip []string
	for _, h := range strings.Split(noProxy, ",") {
		if h = strings.TrimSpace(h); h != "" {
			skip = append(skip, h)
		}
	}

	return func(req *http.Request) (*url.URL, error) {
		host := req.URL.Hostname()
		for _, s := range skip {
			if host == s || strings.HasSuffix(host, "."+strings.TrimPrefix(s, ".")) {
				return nil, nil
			}
		}

		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}
