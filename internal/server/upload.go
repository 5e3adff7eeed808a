package server

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

var stageableExts = map[string]struct{}{
	".json": {},
	".pdf":  {},
}

// handleUpload stages an extracted record or its source PDF into the portal
// upload directory and wakes the form-fill worker. Pairs are matched later by
// the worker, so the two files can arrive in separate requests.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	var staged []string
	for _, field := range []string{"json_file", "pdf_file", "file"} {
		files := r.MultipartForm.File[field]
		for _, header := range files {
			ext := strings.ToLower(filepath.Ext(header.Filename))
			if _, ok := stageableExts[ext]; !ok {
				writeError(w, http.StatusBadRequest,
					fmt.Sprintf("only .json and .pdf files can be uploaded, got %q", ext))
				return
			}
			src, err := header.Open()
			if err != nil {
				writeError(w, http.StatusBadRequest, "unreadable upload")
				return
			}
			name := time.Now().Format("20060102_150405") + "_" + filepath.Base(header.Filename)
			dst := filepath.Join(s.cfg.Dirs.UploadDir, name)
			err = saveStream(dst, src)
			src.Close()
			if err != nil {
				s.logger.Error("server.upload.write_failed", "path", dst, "err", err)
				writeError(w, http.StatusInternalServerError, "could not stage upload")
				return
			}
			staged = append(staged, dst)
		}
	}
	if len(staged) == 0 {
		writeError(w, http.StatusBadRequest, "no files provided")
		return
	}

	s.logger.Info("server.upload.staged", "count", len(staged))

	if s.queue != nil {
		jsonPath, pdfPath := splitPair(staged)
		if jsonPath != "" {
			if id, err := s.queue.Enqueue(r.Context(), jsonPath, pdfPath); err != nil {
				s.logger.Warn("server.upload.enqueue_failed", "err", err)
			} else {
				s.logger.Info("server.upload.enqueued", "item_id", id)
			}
		}
	}
	if s.onUpload != nil {
		go s.onUpload()
	}

	writeJSON(w, http.StatusOK, Envelope{
		Status: "success",
		Data:   map[string]any{"staged": len(staged)},
	})
}

func splitPair(paths []string) (jsonPath, pdfPath string) {
	for _, p := range paths {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".json":
			jsonPath = p
		case ".pdf":
			pdfPath = p
		}
	}
	return jsonPath, pdfPath
}
