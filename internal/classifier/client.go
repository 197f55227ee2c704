// Package classifier talks to the hosted LLM gateway that parses a stored document and
// returns one extraction per target table it recognised.
package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/esgdesk/extraction-review/internal/store/model"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"go.uber.org/zap"
)

const maxResponseBytes = 10 << 20

type Request struct {
	DocumentID  uuid.UUID `json:"document_id"`
	JobID       uuid.UUID `json:"job_id"`
	OrgID       string    `json:"org_id"`
	FileName    string    `json:"file_name"`
	FilePath    string    `json:"file_path"`
	ContentType string    `json:"content_type"`
}

type Extraction struct {
	TargetTable       string                  `json:"target_table"`
	ExtractedFields   map[string]any          `json:"extracted_fields"`
	ConfidenceScores  map[string]float64      `json:"confidence_scores"`
	SuggestedMappings model.SuggestedMappings `json:"suggested_mappings"`
}

type Classification struct {
	DocumentType string       `json:"document_type"`
	Extractions  []Extraction `json:"extractions"`
}

// Classifier is implemented by Client and by test doubles.
type Classifier interface {
	Classify(ctx context.Context, req Request) (*Classification, error)
}

type Client struct {
	url    string
	apiKey string
	http   *http.Client
	schema *jsonschema.Schema
}

var _ Classifier = (*Client)(nil)

func NewClient(url, apiKey string, timeout time.Duration) (*Client, error) {
	schema, err := compileSchema(classificationSchema())
	if err != nil {
		return nil, err
	}
	return &Client{
		url:    url,
		apiKey: apiKey,
		http:   &http.Client{Timeout: timeout},
		schema: schema,
	}, nil
}

// Classify posts the request once. Transport failures, non-2xx answers and payloads
// that fail the schema are all returned as errors; nothing is retried.
func (c *Client) Classify(ctx context.Context, req Request) (*Classification, error) {
	logger := zap.S().Named("classifier").With("job_id", req.JobID, "document_id", req.DocumentID)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Wrap(err, "encode request")
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		logger.Errorw("gateway request failed", "error", err, "elapsed_ms", time.Since(start).Milliseconds())
		return nil, errors.Wrap(err, "send request")
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Warnw("failed to close response body", "error", err)
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	logger.Infow("gateway responded", "status", resp.StatusCode, "bytes", len(raw), "elapsed_ms", time.Since(start).Milliseconds())

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, truncate(raw, 256))
	}

	if err := validatePayload(c.schema, raw); err != nil {
		return nil, err
	}

	var classification Classification
	if err := json.Unmarshal(raw, &classification); err != nil {
		return nil, errors.Wrap(err, "decode classification")
	}
	return &classification, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
