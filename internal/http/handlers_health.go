package httpapi

import "net/http"

// HandleHealth returns API health status and the size of the search directory
func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	resp := HealthResponse{
		Status:          "healthy",
		CompanyCount:    h.index.Len(),
		DirectoryLoaded: h.index.Loaded(),
		MaxResults:      h.index.MaxResults(),
	}
	if h.queue != nil {
		resp.PendingJobs = h.queue.Count()
	}

	h.logger.Debug().Int("company_count", resp.CompanyCount).Msg("health check")

	writeJSON(w, http.StatusOK, resp)
}
