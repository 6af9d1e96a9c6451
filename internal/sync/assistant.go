// Package sync implements the data-sync assistant: a single-shot AI call
// that compares vendor product JSON with the store's record and returns a
// structured verdict, plus the logic that applies a corrected payload back
// to the catalog.
package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"text/template"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"github.com/kidsparadise/kp-erp/internal/config"
)

// Verdict is the assistant's reconciliation result. It is ephemeral and
// never persisted.
type Verdict struct {
	IsDataCorrect        bool   `json:"isDataCorrect"`
	CorrectedProductData string `json:"correctedProductData"`
	DiscrepancyDetails   string `json:"discrepancyDetails"`
}

// Assistant produces a reconciliation verdict from two opaque JSON blobs.
// Implementations are treated as non-deterministic collaborators; there is
// no retry or backoff layer.
type Assistant interface {
	Reconcile(ctx context.Context, vendorJSON, erpJSON string) (*Verdict, error)
}

// ErrNotConfigured is returned when no AI credential was supplied. The
// absence of the credential is not a startup error.
var ErrNotConfigured = errors.New("data-sync assistant is not configured")

var promptTemplate = template.Must(template.New("reconcile").Parse(
	`You are an expert in data synchronization and verification. Your task is to compare product data from the vendor feed with existing data in our ERP system and identify any discrepancies.

Based on your analysis, determine if the data is consistent. If not, correct the product data and provide details on the discrepancies found and how they were corrected.

Vendor Product Data: {{.Vendor}}
Existing ERP Product Data: {{.ERP}}

Return a JSON object with the following fields:
- isDataCorrect: true if the data is consistent, false otherwise.
- correctedProductData: The corrected product data as a JSON string, if any corrections were made. If no corrections were necessary, this should be the same as the vendor product data.
- discrepancyDetails: A detailed explanation of any discrepancies found and how they were corrected.

Ensure that the correctedProductData field contains valid JSON.`))

// verdictSchema validates the model output before it is trusted, the same
// contract the prompt asks for.
var verdictSchema = gojsonschema.NewStringLoader(`{
	"type": "object",
	"required": ["isDataCorrect", "correctedProductData", "discrepancyDetails"],
	"properties": {
		"isDataCorrect": {"type": "boolean"},
		"correctedProductData": {"type": "string"},
		"discrepancyDetails": {"type": "string"}
	}
}`)

// GeminiAssistant calls the Generative Language API in JSON response mode.
type GeminiAssistant struct {
	httpClient *http.Client
	endpoint   string
	model      string
	apiKey     string
}

// NewGeminiAssistant builds the assistant from configuration. Returns nil
// (a disabled assistant) when no API key is configured.
func NewGeminiAssistant(cfg config.AIConfig) *GeminiAssistant {
	if cfg.APIKey == "" {
		return nil
	}
	return &GeminiAssistant{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		endpoint:   strings.TrimSuffix(cfg.Endpoint, "/"),
		model:      cfg.Model,
		apiKey:     cfg.APIKey,
	}
}

type generateRequest struct {
	Contents []struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	} `json:"contents"`
	GenerationConfig struct {
		ResponseMIMEType string `json:"responseMimeType"`
	} `json:"generationConfig"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Reconcile performs the templated single-shot call and validates the
// returned verdict against the schema.
func (a *GeminiAssistant) Reconcile(ctx context.Context, vendorJSON, erpJSON string) (*Verdict, error) {
	if a == nil {
		return nil, ErrNotConfigured
	}

	var prompt bytes.Buffer
	if err := promptTemplate.Execute(&prompt, struct{ Vendor, ERP string }{vendorJSON, erpJSON}); err != nil {
		return nil, fmt.Errorf("render prompt: %w", err)
	}

	var req generateRequest
	req.Contents = make([]struct {
		Parts []struct {
			Text string `json:"text"`
		} `json:"parts"`
	}, 1)
	req.Contents[0].Parts = []struct {
		Text string `json:"text"`
	}{{Text: prompt.String()}}
	req.GenerationConfig.ResponseMIMEType = "application/json"

	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", a.endpoint, a.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", a.apiKey)

	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("assistant request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read assistant response: %w", err)
	}

	var gen generateResponse
	if err := json.Unmarshal(body, &gen); err != nil {
		return nil, fmt.Errorf("decode assistant response: %w", err)
	}
	if gen.Error != nil {
		return nil, fmt.Errorf("assistant error: %s", gen.Error.Message)
	}
	if len(gen.Candidates) == 0 || len(gen.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("assistant returned no candidates")
	}

	return ParseVerdict(gen.Candidates[0].Content.Parts[0].Text)
}

// ParseVerdict validates raw model output against the verdict schema and
// decodes it.
func ParseVerdict(raw string) (*Verdict, error) {
	result, err := gojsonschema.Validate(verdictSchema, gojsonschema.NewStringLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("verdict is not valid JSON: %w", err)
	}
	if !result.Valid() {
		var fields []string
		for _, e := range result.Errors() {
			fields = append(fields, e.String())
		}
		return nil, fmt.Errorf("verdict failed schema validation: %s", strings.Join(fields, "; "))
	}

	var v Verdict
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("decode verdict: %w", err)
	}
	return &v, nil
}
