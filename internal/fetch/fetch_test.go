package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/hypo-search/internal/document"
)

func TestFetch(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		statusCode  int
		wantError   bool
		wantKind    document.Kind
	}{
		{
			name:        "html listing",
			body:        "<html><body><pre> ISC header</pre></body></html>",
			contentType: "text/html",
			statusCode:  http.StatusOK,
			wantKind:    document.KindHTML,
		},
		{
			name:        "quakeml",
			body:        `<?xml version="1.0"?><q:quakeml xmlns:q="http://quakeml.org/xmlns/quakeml/1.2"/>`,
			contentType: "application/xml",
			statusCode:  http.StatusOK,
			wantKind:    document.KindXML,
		},
		{
			name:       "HTTP error",
			statusCode: http.StatusInternalServerError,
			wantError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Contains(t, r.Header.Get("User-Agent"), "hypo-search")
				if tt.contentType != "" {
					w.Header().Set("Content-Type", tt.contentType)
				}
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body)) // nolint:errcheck
			}))
			defer server.Close()

			doc, err := New().Fetch(context.Background(), server.URL)
			if tt.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, doc.Kind)
		})
	}
}

func TestFetchCachesByURL(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("<html><body>" + r.URL.RawQuery + "</body></html>")) // nolint:errcheck
	}))
	defer server.Close()

	c := New()
	for i := 0; i < 3; i++ {
		doc, err := c.Fetch(context.Background(), server.URL+"?a=1")
		require.NoError(t, err)
		assert.Equal(t, []string{"a=1"}, doc.Lines)
	}
	_, err := c.Fetch(context.Background(), server.URL+"?a=2")
	require.NoError(t, err)

	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestFetchWithoutCache(t *testing.T) {
	var hits int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Write([]byte("<html><body>x</body></html>")) // nolint:errcheck
	}))
	defer server.Close()

	c, err := NewWithOptions(Options{Timeout: time.Second})
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err := c.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
	}
	assert.Equal(t, int32(2), atomic.LoadInt32(&hits))
}

func TestFetchSharesConcurrentRequests(t *testing.T) {
	var hits int32
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		<-release
		w.Write([]byte("<html><body>x</body></html>")) // nolint:errcheck
	}))
	defer server.Close()

	c, err := NewWithOptions(Options{Timeout: 5 * time.Second})
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Fetch(context.Background(), server.URL)
			assert.NoError(t, err)
		}()
	}

	time.Sleep(100 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestFetchCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html></html>")) // nolint:errcheck
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().Fetch(ctx, server.URL)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "canceled"))
}
