package cache

import (
	"bytes"
	"io"
	"net/http"
	"testing"
	"time"
)

func TestResponseToEntry(t *testing.T) {
	lastMod := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Header: http.Header{
			"Etag":          []string{`"page-1"`},
			"Last-Modified": []string{lastMod.Format(http.TimeFormat)},
		},
		Body: io.NopCloser(bytes.NewReader([]byte(`{"data":[]}`))),
	}

	entry, err := ResponseToEntry(resp, time.Minute)
	if err != nil {
		t.Fatalf("ResponseToEntry failed: %v", err)
	}

	if string(entry.Body) != `{"data":[]}` {
		t.Errorf("Body = %s", entry.Body)
	}
	if entry.ETag != `"page-1"` {
		t.Errorf("ETag = %q", entry.ETag)
	}
	if !entry.LastModified.Equal(lastMod) {
		t.Errorf("LastModified = %v, want %v", entry.LastModified, lastMod)
	}
	if ttl := entry.TTL(); ttl <= 50*time.Second || ttl > time.Minute {
		t.Errorf("TTL = %v, want about 1m", ttl)
	}

	// Body must still be readable by the caller
	body, _ := io.ReadAll(resp.Body)
	if string(body) != `{"data":[]}` {
		t.Errorf("restored body = %s", body)
	}
}

func TestResponseToEntry_DefaultTTL(t *testing.T) {
	resp := &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{},
		Body:       io.NopCloser(bytes.NewReader(nil)),
	}

	entry, err := ResponseToEntry(resp, 0)
	if err != nil {
		t.Fatalf("ResponseToEntry failed: %v", err)
	}
	if ttl := entry.TTL(); ttl <= DefaultTTL-5*time.Second || ttl > DefaultTTL {
		t.Errorf("TTL = %v, want about %v", ttl, DefaultTTL)
	}
}

func TestResponseToEntry_Nil(t *testing.T) {
	if _, err := ResponseToEntry(nil, time.Minute); err == nil {
		t.Error("expected error for nil response")
	}
}

func TestCacheable(t *testing.T) {
	tests := []struct {
		name string
		resp *http.Response
		want bool
	}{
		{"nil", nil, false},
		{"ok", &http.Response{StatusCode: 200, Header: http.Header{}}, true},
		{"not found", &http.Response{StatusCode: 404, Header: http.Header{}}, false},
		{"no-store", &http.Response{StatusCode: 200, Header: http.Header{"Cache-Control": []string{"private, no-store"}}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Cacheable(tt.resp); got != tt.want {
				t.Errorf("Cacheable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShouldRevalidate(t *testing.T) {
	tests := []struct {
		name  string
		entry *Entry
		want  bool
	}{
		{"nil entry", nil, false},
		{"no validators", &Entry{}, false},
		{"etag", &Entry{ETag: `"x"`}, true},
		{"last modified", &Entry{LastModified: time.Now()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldRevalidate(tt.entry); got != tt.want {
				t.Errorf("ShouldRevalidate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAddConditionalHeaders(t *testing.T) {
	lastMod := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	t.Run("prefers etag", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
		AddConditionalHeaders(req, &Entry{ETag: `"abc"`, LastModified: lastMod})

		if got := req.Header.Get("If-None-Match"); got != `"abc"` {
			t.Errorf("If-None-Match = %q", got)
		}
		if got := req.Header.Get("If-Modified-Since"); got != "" {
			t.Errorf("If-Modified-Since should be empty, got %q", got)
		}
	})

	t.Run("falls back to last modified", func(t *testing.T) {
		req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
		AddConditionalHeaders(req, &Entry{LastModified: lastMod})

		if got := req.Header.Get("If-Modified-Since"); got != lastMod.Format(http.TimeFormat) {
			t.Errorf("If-Modified-Since = %q", got)
		}
	})

	t.Run("nil safe", func(t *testing.T) {
		AddConditionalHeaders(nil, &Entry{ETag: "x"})
		req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
		AddConditionalHeaders(req, nil)
		if len(req.Header) != 0 {
			t.Errorf("headers = %v, want none", req.Header)
		}
	})
}
