package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/medbridge/claimflow/internal/common"
)

const analyzePath = "/vision/v3.2/read/analyze"

// AzureClient implements TextExtractor against the Azure Read API: submit
// the document, then poll the returned operation URL until the analysis
// settles.
type AzureClient struct {
	cfg    common.OCRConfig
	http   *http.Client
	logger *slog.Logger
}

func NewAzureClient(cfg common.OCRConfig, logger *slog.Logger) *AzureClient {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 2 * time.Second
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 90 * time.Second
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AzureClient{
		cfg:    cfg,
		http:   &http.Client{Timeout: 60 * time.Second},
		logger: logger,
	}
}

type readResult struct {
	Status        string `json:"status"`
	AnalyzeResult struct {
		ReadResults []struct {
			Page  int `json:"page"`
			Lines []struct {
				Text string `json:"text"`
			} `json:"lines"`
		} `json:"readResults"`
	} `json:"analyzeResult"`
}

// Extract runs the whole submit-and-poll cycle for one document.
func (c *AzureClient) Extract(ctx context.Context, path string) (Result, error) {
	start := time.Now()

	data, err := os.ReadFile(path)
	if err != nil {
		return Result{}, common.WrapError(err, "read document")
	}

	opURL, err := c.submit(ctx, path, data)
	if err != nil {
		return Result{}, err
	}

	res, err := c.poll(ctx, opURL)
	if err != nil {
		return Result{}, err
	}
	res.Duration = time.Since(start)

	c.logger.Info("ocr.extract.done",
		"path", path,
		"pages", len(res.Pages),
		"elapsed_ms", res.Duration.Milliseconds(),
	)
	return res, nil
}

// submit posts the document bytes and returns the Operation-Location URL.
// Throttling and server errors are retried; client errors are not.
func (c *AzureClient) submit(ctx context.Context, path string, data []byte) (string, error) {
	url := strings.TrimRight(c.cfg.Endpoint, "/") + analyzePath

	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return "", common.WrapError(err, "build analyze request")
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.Key)
		req.Header.Set("Content-Type", "application/octet-stream")

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = err
			c.logger.Warn("ocr.submit.retry", "path", path, "attempt", attempt, "error", err)
			if !sleepCtx(ctx, time.Duration(attempt)*time.Second) {
				return "", ctx.Err()
			}
			continue
		}
		loc := resp.Header.Get("Operation-Location")
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusAccepted && loc != "":
			return loc, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = common.NewAppError("OCR_SUBMIT", "transient analyze error", nil)
			c.logger.Warn("ocr.submit.retry", "path", path, "attempt", attempt, "status", resp.StatusCode)
			if !sleepCtx(ctx, time.Duration(attempt)*time.Second) {
				return "", ctx.Err()
			}
		default:
			return "", common.NewAppError("OCR_SUBMIT", "analyze request rejected", nil)
		}
	}
	return "", common.WrapError(lastErr, "all analyze attempts failed")
}

// poll fetches the operation result until it leaves notStarted/running.
func (c *AzureClient) poll(ctx context.Context, opURL string) (Result, error) {
	deadline := time.Now().Add(c.cfg.PollTimeout)

	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
		if err != nil {
			return Result{}, common.WrapError(err, "build poll request")
		}
		req.Header.Set("Ocp-Apim-Subscription-Key", c.cfg.Key)

		resp, err := c.http.Do(req)
		if err != nil {
			return Result{}, common.WrapError(err, "poll read operation")
		}
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()

		var rr readResult
		if err := json.Unmarshal(body, &rr); err != nil {
			return Result{}, common.WrapError(err, "decode read result")
		}

		switch strings.ToLower(rr.Status) {
		case "succeeded":
			return collectPages(rr), nil
		case "failed":
			return Result{}, common.NewAppError("OCR_FAILED", "read operation failed", nil)
		}

		if time.Now().After(deadline) {
			return Result{}, common.NewAppError("OCR_TIMEOUT", "read operation did not settle in time", nil)
		}
		c.logger.Debug("ocr.poll.waiting", "status", rr.Status)
		if !sleepCtx(ctx, c.cfg.PollInterval) {
			return Result{}, ctx.Err()
		}
	}
}

func collectPages(rr readResult) Result {
	var res Result
	for _, page := range rr.AnalyzeResult.ReadResults {
		p := Page{}
		for _, line := range page.Lines {
			p.Lines = append(p.Lines, line.Text)
		}
		res.Pages = append(res.Pages, p)
	}
	return res
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
