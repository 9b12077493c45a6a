package smartbus

import (
	"encoding/json"
	"net/http"
)

type healthResponse struct {
	Status             string `json:"status"`
	ProviderConfigured bool   `json:"provider_configured"`
	LineCacheReady     bool   `json:"line_cache_ready"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	resp := healthResponse{
		Status:             "ok",
		ProviderConfigured: a.cfg.Provider.APIKey != "",
	}
	if a.store != nil {
		populated, err := a.store.Populated(r.Context())
		resp.LineCacheReady = err == nil && populated
	}
	_ = json.NewEncoder(w).Encode(resp)
}
