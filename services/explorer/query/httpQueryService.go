package query

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	logger "github.com/multiversx/mx-chain-logger-go"
	"github.com/tidwall/gjson"
)

const (
	// FormatJDBC returns rows as objects under "jsonData"
	FormatJDBC = "jdbc"
	// FormatViz returns columns as arrays under "data"
	FormatViz = "viz"
)

const maxLoggedBodyLength = 256

// DefaultMaxResponseSize bounds a query response body when no limit is configured
const DefaultMaxResponseSize = 10 * 1024 * 1024

var log = logger.GetOrCreate("query")

type queryRequest struct {
	Query  string `json:"query"`
	Format string `json:"format"`
}

type httpQueryService struct {
	endpoint        string
	client          *http.Client
	maxResponseSize int64
}

// NewHTTPQueryService creates a query service that posts the queries to the provided endpoint.
// Responses larger than maxResponseSize bytes are rejected.
func NewHTTPQueryService(endpoint string, timeout time.Duration, maxResponseSize int64) *httpQueryService {
	if maxResponseSize <= 0 {
		maxResponseSize = DefaultMaxResponseSize
	}

	return &httpQueryService{
		endpoint: endpoint,
		client: &http.Client{
			Timeout: timeout,
		},
		maxResponseSize: maxResponseSize,
	}
}

// Fetch executes the query and returns the raw JSON response body
func (qs *httpQueryService) Fetch(ctx context.Context, query string, format string) ([]byte, error) {
	body, err := json.Marshal(queryRequest{
		Query:  query,
		Format: format,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, qs.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := qs.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errStatusNotOK(resp.StatusCode)
	}

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, qs.maxResponseSize+1))
	if err != nil {
		return nil, err
	}
	if int64(len(respBody)) > qs.maxResponseSize {
		return nil, errResponseTooLarge(qs.maxResponseSize)
	}

	if !gjson.ValidBytes(respBody) {
		return nil, errInvalidResponse(truncate(respBody))
	}

	log.Trace("query executed", "query", query, "format", format, "response size", len(respBody))

	return respBody, nil
}

func truncate(body []byte) string {
	if len(body) > maxLoggedBodyLength {
		return string(body[:maxLoggedBodyLength]) + "..."
	}

	return string(body)
}

// IsInterfaceNil returns true if the value under the interface is nil
func (qs *httpQueryService) IsInterfaceNil() bool {
	return qs == nil
}
