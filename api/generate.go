package api

import (
	"encoding/json"
	"net/http"
	"path/filepath"

	"github.com/irishlab/qrgen/qrgen"
	"github.com/irishlab/qrgen/store"
)

type generateRequest struct {
	Target   string `json:"target"`
	Filename string `json:"filename"`
}

// handleGenerate writes a QR code PNG for the requested target under the
// server's output directory, records it in history, and notifies the webhook.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Target == "" {
		writeError(w, http.StatusBadRequest, "target is required")
		return
	}
	if req.Filename == "" {
		req.Filename = "website_qr.png"
	}
	// Filenames must stay inside the output directory.
	if req.Filename != filepath.Base(req.Filename) {
		writeError(w, http.StatusBadRequest, "filename must not contain path separators")
		return
	}

	outputPath := filepath.Join(s.OutputDir, req.Filename)
	n, err := s.Gen.WriteFile(qrgen.Request{Target: req.Target, OutputPath: outputPath})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	gen := &store.Generation{
		Target:     req.Target,
		OutputPath: outputPath,
		Level:      qrgen.LevelString(s.Gen.Level()),
		ImageSize:  s.Gen.Size(),
		Bytes:      int64(n),
	}
	if err := s.Store.SaveGeneration(gen); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	go func() {
		if err := s.Notifier.Send(&qrgen.Notification{
			ID:         gen.ID,
			Target:     gen.Target,
			OutputPath: gen.OutputPath,
			Bytes:      gen.Bytes,
			Level:      gen.Level,
			CreatedAt:  gen.CreatedAt,
		}); err != nil {
			s.Log.Warn("generation webhook failed", "error", err, "id", gen.ID)
		}
	}()

	writeJSON(w, http.StatusCreated, gen)
}
