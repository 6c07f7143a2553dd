package nominatim_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rapidaid/rapidaid/internal/geocode"
	"github.com/rapidaid/rapidaid/internal/geocode/nominatim"
)

func TestClient_Reverse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/reverse", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "12.9", r.URL.Query().Get("lat"))
		assert.Equal(t, "77.6", r.URL.Query().Get("lon"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"display_name":"MG Road, Bengaluru"}`))
	}))
	defer server.Close()

	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	address, err := client.Reverse(context.Background(), 12.9, 77.6)
	require.NoError(t, err)
	assert.Equal(t, "MG Road, Bengaluru", address)
}

func TestClient_Reverse_UnresolvableCoordinates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"error":"Unable to geocode"}`))
	}))
	defer server.Close()

	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.Reverse(context.Background(), 0, 0)
	assert.ErrorIs(t, err, geocode.ErrNoResult)
}

func TestClient_Reverse_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.Reverse(context.Background(), 12.9, 77.6)
	assert.ErrorIs(t, err, geocode.ErrProviderUnavailable)
}

func TestClient_Reverse_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	client := nominatim.NewClient(nominatim.ClientConfig{
		BaseURL:    server.URL,
		HTTPClient: http.DefaultClient,
	})

	_, err := client.Reverse(context.Background(), 12.9, 77.6)
	assert.Error(t, err)
}
