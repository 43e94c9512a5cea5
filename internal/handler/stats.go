package handler

import (
	"net/http"

	"github.com/msomdec/library-catalog/internal/service"
)

// HandleStats returns the admin dashboard counters.
// GET /api/stats
func HandleStats(stats *service.StatsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, _ := PrincipalFromContext(r.Context())

		s, err := stats.Get(r.Context(), p)
		if err != nil {
			writeServiceError(w, "get stats", err, "")
			return
		}
		writeJSON(w, http.StatusOK, toStatsDTO(s))
	}
}
