package openai

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/medbridge/claimflow/internal/claim"
	"github.com/medbridge/claimflow/internal/common"
	"github.com/medbridge/claimflow/internal/llm"
)

// ExtractRecord implements llm.RecordExtractor with text-only
// chat/completions. The model's answer is cut down to its JSON object,
// validated against the record schema, and decoded.
func (c *Client) ExtractRecord(ctx context.Context, req llm.ExtractRequest) (*claim.Record, []byte, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"text_len", len(req.OCRText),
		"file_name", req.FileName,
	)

	schema := claim.BuildSchema()
	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"max_tokens":  c.cfg.MaxTokens,
		"messages": []map[string]any{
			{"role": "system", "content": llm.BuildSystemPrompt()},
			{"role": "system", "content": "JSON Schema:\n" + mustJSON(schema)},
			{"role": "user", "content": llm.BuildUserPrompt(req)},
		},
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	headers := map[string]string{"Authorization": "Bearer " + c.cfg.APIKey}
	raw, _, httpErr := llm.SendJSON(ctx, c.http, endpoint, body, headers, c.logger)
	if httpErr != nil {
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "error", httpErr,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, raw, httpErr
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, raw, common.WrapError(err, "decode chat response")
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("llm.extract.no_choices",
			"req_id", rid, "raw", string(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, raw, common.NewAppError("LLM_NO_CHOICES", "no choices in chat response", nil)
	}

	content, ok := llm.ExtractJSONObject(cc.Choices[0].Message.Content)
	if !ok {
		c.logger.Error("llm.extract.no_json",
			"req_id", rid, "content", cc.Choices[0].Message.Content,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, raw, common.NewAppError("LLM_NO_JSON", "no JSON object in model reply", nil)
	}
	rawContent := []byte(content)

	if err := claim.ValidateJSONAgainstSchema(rawContent, schema); err != nil {
		c.logger.Error("llm.extract.schema_validation_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, rawContent, err
	}

	var rec claim.Record
	if err := json.Unmarshal(rawContent, &rec); err != nil {
		c.logger.Error("llm.extract.unmarshal_failed",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return nil, rawContent, common.WrapError(err, "unmarshal record")
	}
	if rec.FileName == "" {
		rec.FileName = req.FileName
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"file_name", rec.FileName,
		"services", len(rec.Contents.SuggestedServices),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return &rec, rawContent, nil
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
