package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medbridge/claimflow/internal/claim"
	"github.com/medbridge/claimflow/internal/common"
	"github.com/medbridge/claimflow/internal/llm"
	"github.com/medbridge/claimflow/internal/ocr"
	"github.com/medbridge/claimflow/internal/pipeline"
)

type stubOCR struct{ pages []ocr.Page }

func (s *stubOCR) Extract(ctx context.Context, path string) (ocr.Result, error) {
	return ocr.Result{Pages: s.pages}, nil
}

type stubExtractor struct{ insuredName string }

func (s *stubExtractor) ExtractRecord(ctx context.Context, req llm.ExtractRequest) (*claim.Record, []byte, error) {
	rec := &claim.Record{
		FileName: req.FileName,
		Contents: claim.FormContent{
			Insured: &claim.InsuredInfo{InsuredName: s.insuredName},
		},
	}
	return rec, []byte(`{}`), nil
}

func testServer(t *testing.T, pages []ocr.Page) (*Server, *common.Config) {
	t.Helper()
	root := t.TempDir()
	cfg := &common.Config{
		Dirs: common.DirConfig{
			TempDir:    filepath.Join(root, "temp"),
			OutputsDir: filepath.Join(root, "outputs"),
			UploadDir:  filepath.Join(root, "uploads"),
			ArchiveDir: filepath.Join(root, "archives"),
		},
	}
	proc := pipeline.NewProcessor(&stubOCR{pages: pages}, &stubExtractor{insuredName: "Ahmed Ali Al Ghamdi"}, nil)
	return NewServer(cfg, proc, nil), cfg
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestHealthz(t *testing.T) {
	srv, _ := testServer(t, nil)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProcessDocument(t *testing.T) {
	srv, cfg := testServer(t, []ocr.Page{{Lines: []string{"Insured Name: Ahmed Ali Al Ghamdi"}}})

	body, ctype := multipartBody(t, "file", "scan.pdf", []byte("%PDF-1.4 test"))
	req := httptest.NewRequest(http.MethodPost, "/documents", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "success", env.Status)
	require.NotNil(t, env.FileInfo)
	assert.Equal(t, "scan.pdf", env.FileInfo.OriginalName)
	assert.Equal(t, "A_A_Ghamdi", env.FileInfo.PatientName)
	assert.NotEmpty(t, env.FileInfo.FileID)

	dateDir := filepath.Join(cfg.Dirs.OutputsDir, env.FileInfo.Date)
	assert.FileExists(t, filepath.Join(dateDir, "A_A_Ghamdi.json"))
	assert.FileExists(t, filepath.Join(dateDir, "A_A_Ghamdi.pdf"))

	// temp upload is removed after processing
	entries, err := os.ReadDir(cfg.Dirs.TempDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestProcessDocumentMultiPageOutputs(t *testing.T) {
	srv, cfg := testServer(t, []ocr.Page{
		{Lines: []string{"first page"}},
		{Lines: []string{"second page"}},
	})

	body, ctype := multipartBody(t, "file", "scan.pdf", []byte("%PDF-1.4 test"))
	req := httptest.NewRequest(http.MethodPost, "/documents", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	dateDir := filepath.Join(cfg.Dirs.OutputsDir, env.FileInfo.Date)
	assert.FileExists(t, filepath.Join(dateDir, "A_A_Ghamdi_page_1.md"))
	assert.FileExists(t, filepath.Join(dateDir, "A_A_Ghamdi_page_2.md"))

	buf, err := os.ReadFile(filepath.Join(dateDir, "A_A_Ghamdi.json"))
	require.NoError(t, err)
	var combined combinedDocument
	require.NoError(t, json.Unmarshal(buf, &combined))
	assert.Equal(t, 2, combined.PageCount)
	assert.Equal(t, "scan.pdf", combined.FileName)
	assert.Len(t, combined.Pages, 2)
}

func TestProcessDocumentRejectsUnsupportedType(t *testing.T) {
	srv, _ := testServer(t, nil)
	body, ctype := multipartBody(t, "file", "notes.txt", []byte("hello"))
	req := httptest.NewRequest(http.MethodPost, "/documents", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadStagesFileAndTriggersWorker(t *testing.T) {
	srv, cfg := testServer(t, nil)
	triggered := make(chan struct{}, 1)
	srv.WithUploadTrigger(func() { triggered <- struct{}{} })

	body, ctype := multipartBody(t, "json_file", "A_A_Ghamdi.json", []byte(`{"file_name":"scan.pdf"}`))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	entries, err := os.ReadDir(cfg.Dirs.UploadDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "A_A_Ghamdi.json")

	// the trigger runs on its own goroutine
	<-triggered
}

func TestUploadRejectsOtherTypes(t *testing.T) {
	srv, _ := testServer(t, nil)
	body, ctype := multipartBody(t, "file", "malware.exe", []byte("nope"))
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ctype)
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClaimsEndpointsWithoutStore(t *testing.T) {
	srv, _ := testServer(t, nil)
	for _, path := range []string{"/claims", "/claims/export"} {
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
	}
}
