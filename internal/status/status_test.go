package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/stheno/internal/engine"
)

func TestStatusAndRefresh(t *testing.T) {
	var refreshed []string
	srv := NewServer(
		func() engine.Snapshot { return engine.Snapshot{State: engine.StateRotating, Campaign: "summer"} },
		func(reason string) { refreshed = append(refreshed, reason) },
	)
	router := srv.Router()

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/status", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var snap engine.Snapshot
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &snap))
	assert.Equal(t, engine.StateRotating, snap.State)
	assert.Equal(t, "summer", snap.Campaign)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodPost, "/refresh-player", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, refreshed, 1)

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}
