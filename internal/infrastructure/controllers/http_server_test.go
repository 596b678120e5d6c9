//go:build unit

package controllers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/driftbot/internal/infrastructure/controllers"
)

// NewHTTPServer sets the global gin mode, so its subtests run sequentially.
func TestNewHTTPServer(t *testing.T) {
	t.Run("should answer the health check", func(t *testing.T) {
		// given
		server := controllers.NewHTTPServer(":0")
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/healthz", nil)

		// when
		server.Handler.ServeHTTP(recorder, request)

		// then
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"status": "ok"}`, recorder.Body.String())
	})

	t.Run("should expose the driftbot metrics", func(t *testing.T) {
		// given
		server := controllers.NewHTTPServer(":0")
		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodGet, "/metrics", nil)

		// when
		server.Handler.ServeHTTP(recorder, request)

		// then
		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "driftbot_stale_usages")
	})

	t.Run("should listen on the configured address", func(t *testing.T) {
		// given
		address := "127.0.0.1:9100"

		// when
		server := controllers.NewHTTPServer(address)

		// then
		assert.Equal(t, address, server.Addr)
	})
}
