package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendAndParse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/json":
			assert.Equal(t, "a", r.URL.Query().Get("q"))
			assert.Equal(t, "EconPull/1.0", r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte(`{"n": 3}`))
		case "/raw":
			_, _ = w.Write([]byte("<html>"))
		default:
			http.Error(w, "gone", http.StatusServiceUnavailable)
		}
	}))
	defer srv.Close()

	c := NewClient()
	ctx := context.Background()

	var out struct{ N int }
	require.NoError(t, c.SendAndParse(ctx, &RequestOptions{
		Method: MethodGet, URL: srv.URL + "/json", QueryParams: map[string][]string{"q": {"a"}},
	}, &out))
	assert.Equal(t, 3, out.N)

	var raw []byte
	require.NoError(t, c.SendAndParse(ctx, &RequestOptions{Method: MethodGet, URL: srv.URL + "/raw"}, &raw))
	assert.Equal(t, "<html>", string(raw))

	err := c.SendAndParse(ctx, &RequestOptions{Method: MethodGet, URL: srv.URL + "/down"}, &raw)
	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Equal(t, "gone", se.Body)
}
