package ocr

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medbridge/claimflow/internal/common"
)

func testConfig(endpoint string) common.OCRConfig {
	return common.OCRConfig{
		Endpoint:     endpoint,
		Key:          "test-key",
		PollInterval: 10 * time.Millisecond,
		PollTimeout:  2 * time.Second,
		MaxRetries:   3,
	}
}

func writeTempDoc(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "claim.pdf")
	require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	return path
}

func TestExtractPollsUntilSucceeded(t *testing.T) {
	var polls int32
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/vision/v3.2/read/analyze", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("Ocp-Apim-Subscription-Key"))
		w.Header().Set("Operation-Location", srv.URL+"/vision/v3.2/read/analyzeResults/op-1")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("/vision/v3.2/read/analyzeResults/op-1", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&polls, 1) == 1 {
			_, _ = w.Write([]byte(`{"status":"running"}`))
			return
		}
		_, _ = w.Write([]byte(`{
			"status":"succeeded",
			"analyzeResult":{"readResults":[
				{"page":1,"lines":[{"text":"Insurance Company: Tawuniya"},{"text":"Patient File No: 1122"}]},
				{"page":2,"lines":[{"text":"Approval: APR-1"}]}
			]}
		}`))
	})

	client := NewAzureClient(testConfig(srv.URL), nil)
	res, err := client.Extract(context.Background(), writeTempDoc(t))
	require.NoError(t, err)

	require.Len(t, res.Pages, 2)
	assert.Equal(t, "Insurance Company: Tawuniya\nPatient File No: 1122", res.Pages[0].Text())
	assert.Equal(t, []string{"Approval: APR-1"}, res.Pages[1].Lines)
	assert.GreaterOrEqual(t, atomic.LoadInt32(&polls), int32(2))
}

func TestSubmitRetriesOnThrottle(t *testing.T) {
	var submits int32
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/vision/v3.2/read/analyze", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&submits, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Header().Set("Operation-Location", srv.URL+"/vision/v3.2/read/analyzeResults/op-2")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("/vision/v3.2/read/analyzeResults/op-2", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"succeeded","analyzeResult":{"readResults":[{"page":1,"lines":[{"text":"ok"}]}]}}`))
	})

	client := NewAzureClient(testConfig(srv.URL), nil)
	res, err := client.Extract(context.Background(), writeTempDoc(t))
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&submits))
	require.Len(t, res.Pages, 1)
}

func TestSubmitRejectsClientError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewAzureClient(testConfig(srv.URL), nil)
	_, err := client.Extract(context.Background(), writeTempDoc(t))
	require.Error(t, err)
}

func TestExtractFailsWhenOperationFails(t *testing.T) {
	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/vision/v3.2/read/analyze", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Operation-Location", srv.URL+"/vision/v3.2/read/analyzeResults/op-3")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("/vision/v3.2/read/analyzeResults/op-3", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"failed"}`))
	})

	client := NewAzureClient(testConfig(srv.URL), nil)
	_, err := client.Extract(context.Background(), writeTempDoc(t))
	require.Error(t, err)
}
