package internal

import "net/http"

func (s *Server) getDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.Dashboard.Stats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
