package handlers

import "net/http"

// HealthHandler responds with service health information.
type HealthHandler struct {
	// Store names the configured record driver.
	Store string
}

// Handle implements GET /healthz.
func (h HealthHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	payload := map[string]string{
		"status": "ok",
	}
	if h.Store != "" {
		payload["store"] = h.Store
	}

	respondJSON(r.Context(), w, http.StatusOK, payload)
}
