// internal/export/http.go
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/benchwrap/benchwrap/internal/core"
)

// HTTPExporter implements Exporter for HTTP endpoints
type HTTPExporter struct {
	url     string
	headers map[string]string
	client  *http.Client
}

// NewHTTP creates a new HTTP exporter
func NewHTTP(url string, headers map[string]string) (*HTTPExporter, error) {
	if url == "" {
		return nil, core.WrapError(core.ErrConfigMissing, fmt.Errorf("http exporter: url is required"))
	}
	return &HTTPExporter{
		url:     url,
		headers: headers,
		client:  &http.Client{Timeout: 30 * time.Second},
	}, nil
}

func (h *HTTPExporter) Export(ctx context.Context, results []core.Result) error {
	if len(results) == 0 {
		return nil
	}

	docs := make([]map[string]any, len(results))
	for i, r := range results {
		docs[i] = r.ToDocument()
	}

	payload := map[string]any{
		"type":      "batch",
		"count":     len(docs),
		"documents": docs,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return core.WrapError(core.ErrExportFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.url, bytes.NewReader(body))
	if err != nil {
		return core.WrapError(core.ErrExportFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range h.headers {
		req.Header.Set(k, v)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return core.WrapError(core.ErrExportFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return core.WrapError(core.ErrExportFailed,
			fmt.Errorf("endpoint returned status %d", resp.StatusCode))
	}
	return nil
}

func (h *HTTPExporter) Close() error {
	h.client.CloseIdleConnections()
	return nil
}
