package server

import (
	"encoding/json"
	"net/http"
)

// FileInfo identifies the processed document in API responses.
type FileInfo struct {
	OriginalName string `json:"original_name"`
	PatientName  string `json:"patient_name"`
	FileID       string `json:"file_id"`
	Date         string `json:"date"`
}

// Envelope is the uniform response shape for all endpoints. Errors travel
// inside Data as {"error": message}.
type Envelope struct {
	Status   string    `json:"status"`
	Data     any       `json:"data,omitempty"`
	FileInfo *FileInfo `json:"file_info,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, Envelope{Status: "error", Data: map[string]string{"error": message}})
}
