package api

import (
	"net/http"
	"time"
)

type statusResponse struct {
	Status    string `json:"status"`
	Uptime    string `json:"uptime"`
	Generated int64  `json:"generated"`
	Version   string `json:"version"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	total, err := s.Store.CountGenerations()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, statusResponse{
		Status:    "ok",
		Uptime:    time.Since(s.StartTime).Truncate(time.Second).String(),
		Generated: total,
		Version:   s.Version,
	})
}
