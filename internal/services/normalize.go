package services

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"
)

// The fill endpoint is not ours, so its JSON shape drifts. The two helpers
// below accept every shape seen in the wild and collapse them into one
// fields map plus optional PDF bytes.

// normalizeFilledFields resolves the filled-in field map from a fill
// response payload. Shapes are tried in order; the first present key wins:
//
//	extracted_fields: {field: value, ...}
//	matched_fields:   [{field|pdf_field|name, value}, ...]
//	fields:           {field: value, ...}
//
// A matched_fields entry with a nil value is dropped; when two entries name
// the same field the later one wins.
func normalizeFilledFields(payload map[string]interface{}) map[string]interface{} {
	if payload == nil {
		return map[string]interface{}{}
	}
	if ef, ok := payload["extracted_fields"].(map[string]interface{}); ok {
		return ef
	}
	if mf, ok := payload["matched_fields"].([]interface{}); ok {
		return collapseMatchedFields(mf)
	}
	if f, ok := payload["fields"].(map[string]interface{}); ok {
		return f
	}
	return map[string]interface{}{}
}

func collapseMatchedFields(entries []interface{}) map[string]interface{} {
	out := map[string]interface{}{}
	for _, raw := range entries {
		entry, ok := raw.(map[string]interface{})
		if !ok {
			continue
		}
		key := ""
		for _, k := range []string{"field", "pdf_field", "name"} {
			if s, ok := entry[k].(string); ok && s != "" {
				key = s
				break
			}
		}
		if key == "" {
			continue
		}
		val, ok := entry["value"]
		if !ok || val == nil {
			continue
		}
		out[key] = val
	}
	return out
}

var filledPDFClient = &http.Client{Timeout: 60 * time.Second}

// resolveFilledPDF extracts the filled PDF bytes from a fill response
// payload. Inline base64 (pdf_base64, then pdf) takes precedence over a
// pdf_url the payload points at. (nil, nil) means the response carried no
// PDF at all, which is a legitimate fields-only outcome.
func resolveFilledPDF(ctx context.Context, payload map[string]interface{}) ([]byte, error) {
	if payload == nil {
		return nil, nil
	}
	for _, k := range []string{"pdf_base64", "pdf"} {
		s, ok := payload[k].(string)
		if !ok || s == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", k, err)
		}
		return data, nil
	}
	if url, ok := payload["pdf_url"].(string); ok && url != "" {
		return fetchFilledPDF(ctx, url)
	}
	return nil, nil
}

func fetchFilledPDF(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build pdf_url request: %w", err)
	}
	resp, err := filledPDFClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch filled pdf: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch filled pdf: status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read filled pdf: %w", err)
	}
	return body, nil
}
