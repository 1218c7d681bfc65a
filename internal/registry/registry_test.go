package registry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newRegistry(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.EscapedPath() {
		case "/mytool":
			w.Write([]byte(`{"name":"mytool","dist-tags":{"latest":"2.0.0","next":"3.0.0-beta.1"}}`))
		case "/@scope%2Fpkg":
			w.Write([]byte(`{"name":"@scope/pkg","dist-tags":{"latest":"1.4.0"}}`))
		case "/broken":
			w.Write([]byte(`{"name":`))
		case "/flaky":
			w.WriteHeader(http.StatusBadGateway)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLatestVersion(t *testing.T) {
	srv := newRegistry(t)
	c := New(srv.URL + "/")

	tests := []struct {
		name, tag string
		want      string
	}{
		{"mytool", "", "2.0.0"},
		{"mytool", "latest", "2.0.0"},
		{"mytool", "next", "3.0.0-beta.1"},
		{"@scope/pkg", "latest", "1.4.0"},
	}
	for _, tt := range tests {
		t.Run(tt.name+"@"+tt.tag, func(t *testing.T) {
			got, err := c.LatestVersion(context.Background(), tt.name, tt.tag)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("LatestVersion() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLatestVersion_Errors(t *testing.T) {
	srv := newRegistry(t)
	c := New(srv.URL)
	ctx := context.Background()

	if _, err := c.LatestVersion(ctx, "missing", "latest"); !errors.Is(err, ErrPackageNotFound) {
		t.Errorf("missing package: got %v, want ErrPackageNotFound", err)
	}
	if _, err := c.LatestVersion(ctx, "mytool", "canary"); !errors.Is(err, ErrTagNotFound) {
		t.Errorf("missing tag: got %v, want ErrTagNotFound", err)
	}
	if _, err := c.LatestVersion(ctx, "broken", "latest"); err == nil {
		t.Error("expected error for invalid JSON")
	}
	if _, err := c.LatestVersion(ctx, "flaky", "latest"); err == nil {
		t.Error("expected error for HTTP 502")
	}
}

func TestLatestVersion_Cancelled(t *testing.T) {
	srv := newRegistry(t)
	c := New(srv.URL)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.LatestVersion(ctx, "mytool", "latest"); err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestNew_DefaultURL(t *testing.T) {
	if c := New(""); c.BaseURL != DefaultURL {
		t.Errorf("BaseURL = %q, want %q", c.BaseURL, DefaultURL)
	}
}
