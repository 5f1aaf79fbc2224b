package report

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// newRateServer serves /convert?from=X&to=Y from rateMap keyed "X_Y".
func newRateServer(t *testing.T, rateMap map[string]float64) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Query().Get("from") + "_" + r.URL.Query().Get("to")
		w.Header().Set("Content-Type", "application/json")

		rate, ok := rateMap[key]
		if !ok {
			_, _ = w.Write([]byte(`{"info":{}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"info": map[string]any{"rate": rate}})
	}))
	t.Cleanup(server.Close)
	return server
}
