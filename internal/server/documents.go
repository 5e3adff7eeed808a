package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medbridge/claimflow/constants"
	"github.com/medbridge/claimflow/internal/claim"
	"github.com/medbridge/claimflow/internal/pipeline"
)

const maxUploadBytes = 50 << 20

// combinedDocument is the on-disk JSON shape for multi page forms.
type combinedDocument struct {
	FileName    string          `json:"file_name"`
	PatientName string          `json:"patient_name"`
	PageCount   int             `json:"page_count"`
	Pages       []*claim.Record `json:"pages"`
}

// handleProcessDocument accepts a scanned claim form, runs the extraction
// pipeline, and stores the outputs under a per-day directory.
func (s *Server) handleProcessDocument(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := constants.AllowedExtensions[constants.NormalizeExt(ext)]; !ok {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported file type %q", ext))
		return
	}

	fileID := uuid.New().String()
	tempPath := filepath.Join(s.cfg.Dirs.TempDir, "upload_"+fileID+ext)
	if err := saveStream(tempPath, file); err != nil {
		s.logger.Error("server.documents.temp_write_failed", "path", tempPath, "err", err)
		writeError(w, http.StatusInternalServerError, "could not store upload")
		return
	}
	defer func() {
		if err := os.Remove(tempPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("server.documents.temp_cleanup_failed", "path", tempPath, "err", err)
		}
	}()

	s.logger.Info("server.documents.received",
		"original_name", header.Filename, "file_id", fileID, "size", header.Size)

	result, err := s.processor.ProcessDocument(r.Context(), tempPath, header.Filename)
	if err != nil {
		s.logger.Error("server.documents.process_failed", "file_id", fileID, "err", err)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	date := time.Now().Format("2006-01-02")
	data, pdfPath, err := s.saveOutputs(result, tempPath, date)
	if err != nil {
		s.logger.Error("server.documents.save_failed", "file_id", fileID, "err", err)
		writeError(w, http.StatusInternalServerError, "could not save outputs")
		return
	}

	if s.claims != nil {
		rec := result.Record()
		raw := result.Pages[0].RawModel
		if id, err := s.claims.Insert(r.Context(), rec, raw, pdfPath); err != nil {
			s.logger.Warn("server.documents.store_failed", "file_id", fileID, "err", err)
		} else {
			s.logger.Info("server.documents.stored", "claim_id", id, "file_id", fileID)
		}
	}

	writeJSON(w, http.StatusOK, Envelope{
		Status: "success",
		Data:   data,
		FileInfo: &FileInfo{
			OriginalName: header.Filename,
			PatientName:  result.PatientName,
			FileID:       fileID,
			Date:         date,
		},
	})
}

// saveOutputs writes the source copy, per page text, and extracted JSON into
// OutputsDir/<date>/. It returns the JSON payload for the response and the
// path of the stored source document.
func (s *Server) saveOutputs(result *pipeline.DocumentResult, srcPath, date string) (any, string, error) {
	dir := filepath.Join(s.cfg.Dirs.OutputsDir, date)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, "", err
	}

	base := result.PatientName
	docPath := filepath.Join(dir, base+filepath.Ext(srcPath))
	if err := copyFile(srcPath, docPath); err != nil {
		return nil, "", err
	}

	var data any
	if len(result.Pages) == 1 {
		data = result.Record()
	} else {
		combined := combinedDocument{
			FileName:    result.FileName,
			PatientName: base,
			PageCount:   len(result.Pages),
		}
		for _, page := range result.Pages {
			combined.Pages = append(combined.Pages, page.Record)
			mdPath := filepath.Join(dir, fmt.Sprintf("%s_page_%d.md", base, page.Index+1))
			if err := os.WriteFile(mdPath, []byte(page.NormalizedText), 0o644); err != nil {
				return nil, "", err
			}
		}
		data = combined
	}

	buf, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return nil, "", err
	}
	jsonPath := filepath.Join(dir, base+".json")
	if err := os.WriteFile(jsonPath, buf, 0o644); err != nil {
		return nil, "", err
	}

	s.logger.Info("server.documents.saved",
		"dir", dir, "patient_name", base, "pages", len(result.Pages))
	return data, docPath, nil
}

func saveStream(path string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	return saveStream(dst, in)
}
