package api

import (
	"net/http"
	"strconv"

	"github.com/irishlab/qrgen/qrgen"
)

// handleQR encodes the data query parameter on the fly and responds with the
// PNG inline. Optional size and level parameters override the server
// defaults.
func (s *Server) handleQR(w http.ResponseWriter, r *http.Request) {
	data := r.URL.Query().Get("data")
	if data == "" {
		writeError(w, http.StatusBadRequest, "data query parameter is required")
		return
	}

	size := s.Gen.Size()
	if v := r.URL.Query().Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "size must be a positive integer")
			return
		}
		size = n
	}

	level := s.Gen.Level()
	if v := r.URL.Query().Get("level"); v != "" {
		lvl, err := qrgen.ParseLevel(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		level = lvl
	}

	png, err := qrgen.Encode(data, level, size)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}
