package util

import (
	"net/http"
	"net/url"
	"testing"
)

func requestFor(t *testing.T, rawURL string) *http.Request {
	t.Helper()
	u, err := url.Parse(rawURL)
	if err != nil {
		t.Fatalf("Failed to parse URL: %v", err)
	}
	return &http.Request{URL: u}
}

func TestNewProxyFunc_NoConfigUsesEnvironment(t *testing.T) {
	f := NewProxyFunc("", "", "")
	// Identity check against http.ProxyFromEnvironment is not possible, but
	// the function must at least be non-nil and callable.
	if f == nil {
		t.Fatal("Expected a proxy function")
	}
}

func TestNewProxyFunc_SchemeSelection(t *testing.T) {
	f := NewProxyFunc("http://proxy-a:8080", "http://proxy-b:8443", "")

	u, err := f(requestFor(t, "https://api.openai.com/v1/chat"))
	if err != nil {
		t.Fatalf("Proxy func failed: %v", err)
	}
	if u == nil || u.Host != "proxy-b:8443" {
		t.Errorf("Expected https proxy for https request, got %v", u)
	}

	u, err = f(requestFor(t, "http://example.com/x"))
	if err != nil {
		t.Fatalf("Proxy func failed: %v", err)
	}
	if u == nil || u.Host != "proxy-a:8080" {
		t.Errorf("Expected http proxy for http request, got %v", u)
	}
}

func TestNewProxyFunc_NoProxyBypass(t *testing.T) {
	f := NewProxyFunc("http://proxy-a:8080", "", "localhost, .internal.example.com")

	u, err := f(requestFor(t, "http://localhost:11434/api/generate"))
	if err != nil {
		t.Fatalf("Proxy func failed: %v", err)
	}
	if u != nil {
		t.Errorf("Expected direct connection for localhost, got %v", u)
	}

	u, err = f(requestFor(t, "http://svc.internal.example.com/x"))
	if err != nil {
		t.Fatalf("Proxy func failed: %v", err)
	}
	if u != nil {
		t.Errorf("Expected direct connection for suffix match, got %v", u)
	}

	u, err = f(requestFor(t, "http://example.com/x"))
	if err != nil {
		t.Fatalf("Proxy func failed: %v", err)
	}
	if u == nil {
		t.Error("Expected proxied connection for non-listed host")
	}
}
