package registry

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeffreysprompts/jfp/internal/core/domain"
)

const registryBody = `{"version":"2026.1","prompts":[
	{"id":"a","title":"A","content":"alpha","tags":["x"],"variables":[{"name":"N","type":"weird"}]},
	{"id":"b","title":"B","content":"beta","tags":[],"extra_field":true}
]}`

func TestClient_FetchNewData(t *testing.T) {
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		w.Header().Set("ETag", `"v2"`)
		fmt.Fprint(w, registryBody)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "1.2.3")
	res, err := c.Fetch(context.Background(), "")
	require.NoError(t, err)

	assert.False(t, res.NotModified)
	assert.Equal(t, `"v2"`, res.ETag)
	assert.Equal(t, "2026.1", res.Version)
	require.Len(t, res.Prompts, 2)
	assert.Equal(t, domain.VariableText, res.Prompts[0].Variables[0].Type)

	assert.Equal(t, "application/json", gotHeaders.Get("Accept"))
	assert.Equal(t, "jfp/1.2.3", gotHeaders.Get("User-Agent"))
	assert.Empty(t, gotHeaders.Get("If-None-Match"))
}

func TestClient_FetchNotModified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		fmt.Fprint(w, registryBody)
	}))
	defer srv.Close()

	res, err := NewClient(srv.URL, "dev").Fetch(context.Background(), `"v1"`)
	require.NoError(t, err)
	assert.True(t, res.NotModified)
	assert.Nil(t, res.Prompts)
}

func TestClient_FetchFailures(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			wantStatus: http.StatusInternalServerError,
		},
		{
			name: "malformed body",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{"prompts": [`)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "missing prompts",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{"version": "1"}`)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "invalid prompt",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				fmt.Fprint(w, `{"prompts": [{"id": "a"}]}`)
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewClient(srv.URL, "dev").Fetch(context.Background(), "")
			var fetchErr *domain.RegistryFetchError
			require.ErrorAs(t, err, &fetchErr)
			assert.Equal(t, tt.wantStatus, fetchErr.StatusCode)
			assert.Equal(t, srv.URL, fetchErr.URL)
		})
	}
}

func TestClient_FetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "dev", WithTimeout(50*time.Millisecond))
	_, err := c.Fetch(context.Background(), "")
	assert.True(t, domain.IsRegistryFetch(err))
}

func TestClient_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, "dev").Fetch(context.Background(), "")
	assert.True(t, domain.IsRegistryFetch(err))
}

func TestClient_DefaultURL(t *testing.T) {
	assert.Equal(t, domain.DefaultRegistryURL, NewClient("", "dev").URL())
}
