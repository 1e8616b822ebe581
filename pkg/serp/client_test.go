package serp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
}

func TestLocalPack(t *testing.T) {
	t.Parallel()

	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "pest control Springfield", r.URL.Query().Get("q"))
		assert.Equal(t, "google", r.URL.Query().Get("engine"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))

		w.Write([]byte(`{
			"local_results": [
				{"title": "Acme Exterminators", "rating": 4.8, "reviews": 240, "address": "77 Pine St"},
				{"title": "Smith Pest Control", "rating": 4.6, "reviews": 120, "address": "123 Main St"},
				{"title": "Budget Bugs", "reviews": 30},
				{"title": "Fourth Place Pest"}
			]
		}`))
	})

	entries, err := client.LocalPack(context.Background(), "pest control Springfield")
	require.NoError(t, err)
	// Capped at the pack's three slots.
	require.Len(t, entries, 3)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "Acme Exterminators", entries[0].Name)
	require.NotNil(t, entries[0].ReviewCount)
	assert.Equal(t, 240, *entries[0].ReviewCount)
	assert.Equal(t, 3, entries[2].Rank)
	assert.Nil(t, entries[2].Rating)
}

func TestLocalPackNoSection(t *testing.T) {
	t.Parallel()

	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"organic_results": [{"title": "some article"}]}`))
	})

	entries, err := client.LocalPack(context.Background(), "obscure query")
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLocalPackHTTPError(t *testing.T) {
	t.Parallel()

	client := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := client.LocalPack(context.Background(), "anything")
	assert.Error(t, err)
}
