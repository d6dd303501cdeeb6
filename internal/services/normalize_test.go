package services

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestNormalizeFilledFields(t *testing.T) {
	cases := []struct {
		name    string
		payload map[string]interface{}
		want    map[string]interface{}
	}{
		{
			name:    "nil_payload",
			payload: nil,
			want:    map[string]interface{}{},
		},
		{
			name:    "no_known_keys",
			payload: map[string]interface{}{"status": "ok"},
			want:    map[string]interface{}{},
		},
		{
			name: "extracted_fields_direct",
			payload: map[string]interface{}{
				"extracted_fields": map[string]interface{}{"first_name": "Ada"},
			},
			want: map[string]interface{}{"first_name": "Ada"},
		},
		{
			name: "extracted_fields_wins_over_matched_and_fields",
			payload: map[string]interface{}{
				"extracted_fields": map[string]interface{}{"a": "1"},
				"matched_fields": []interface{}{
					map[string]interface{}{"field": "b", "value": "2"},
				},
				"fields": map[string]interface{}{"c": "3"},
			},
			want: map[string]interface{}{"a": "1"},
		},
		{
			name: "matched_fields_wins_over_fields",
			payload: map[string]interface{}{
				"matched_fields": []interface{}{
					map[string]interface{}{"field": "b", "value": "2"},
				},
				"fields": map[string]interface{}{"c": "3"},
			},
			want: map[string]interface{}{"b": "2"},
		},
		{
			name: "fields_fallback",
			payload: map[string]interface{}{
				"fields": map[string]interface{}{"c": "3"},
			},
			want: map[string]interface{}{"c": "3"},
		},
		{
			name: "matched_key_precedence_field_pdf_field_name",
			payload: map[string]interface{}{
				"matched_fields": []interface{}{
					map[string]interface{}{"field": "f", "pdf_field": "p", "name": "n", "value": "1"},
					map[string]interface{}{"pdf_field": "p2", "name": "n2", "value": "2"},
					map[string]interface{}{"name": "n3", "value": "3"},
				},
			},
			want: map[string]interface{}{"f": "1", "p2": "2", "n3": "3"},
		},
		{
			name: "matched_nil_values_dropped",
			payload: map[string]interface{}{
				"matched_fields": []interface{}{
					map[string]interface{}{"field": "a", "value": nil},
					map[string]interface{}{"field": "b"},
					map[string]interface{}{"field": "c", "value": "3"},
				},
			},
			want: map[string]interface{}{"c": "3"},
		},
		{
			name: "matched_duplicate_later_wins",
			payload: map[string]interface{}{
				"matched_fields": []interface{}{
					map[string]interface{}{"field": "a", "value": "old"},
					map[string]interface{}{"field": "a", "value": "new"},
				},
			},
			want: map[string]interface{}{"a": "new"},
		},
		{
			name: "matched_garbage_entries_skipped",
			payload: map[string]interface{}{
				"matched_fields": []interface{}{
					"not a map",
					map[string]interface{}{"value": "no key"},
					map[string]interface{}{"field": "ok", "value": "1"},
				},
			},
			want: map[string]interface{}{"ok": "1"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := normalizeFilledFields(tc.payload)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("normalizeFilledFields(%v)=%v, want %v", tc.payload, got, tc.want)
			}
		})
	}
}

func TestResolveFilledPDFInline(t *testing.T) {
	ctx := context.Background()
	pdf := []byte("%PDF-1.7 fake")
	encoded := base64.StdEncoding.EncodeToString(pdf)

	got, err := resolveFilledPDF(ctx, map[string]interface{}{"pdf_base64": encoded})
	if err != nil {
		t.Fatalf("resolveFilledPDF(pdf_base64): %v", err)
	}
	if string(got) != string(pdf) {
		t.Fatalf("resolveFilledPDF(pdf_base64)=%q, want %q", got, pdf)
	}

	got, err = resolveFilledPDF(ctx, map[string]interface{}{"pdf": encoded})
	if err != nil {
		t.Fatalf("resolveFilledPDF(pdf): %v", err)
	}
	if string(got) != string(pdf) {
		t.Fatalf("resolveFilledPDF(pdf)=%q, want %q", got, pdf)
	}
}

func TestResolveFilledPDFBase64Error(t *testing.T) {
	_, err := resolveFilledPDF(context.Background(), map[string]interface{}{"pdf_base64": "!!not base64!!"})
	if err == nil {
		t.Fatalf("resolveFilledPDF with invalid base64 should fail")
	}
}

func TestResolveFilledPDFInlineBeatsURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("pdf_url should not be fetched when inline pdf is present")
	}))
	defer srv.Close()

	pdf := []byte("inline wins")
	got, err := resolveFilledPDF(context.Background(), map[string]interface{}{
		"pdf_base64": base64.StdEncoding.EncodeToString(pdf),
		"pdf_url":    srv.URL,
	})
	if err != nil {
		t.Fatalf("resolveFilledPDF: %v", err)
	}
	if string(got) != string(pdf) {
		t.Fatalf("resolveFilledPDF=%q, want %q", got, pdf)
	}
}

func TestResolveFilledPDFFromURL(t *testing.T) {
	pdf := []byte("%PDF from url")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("pdf_url fetched with %s, want GET", r.Method)
		}
		w.Write(pdf)
	}))
	defer srv.Close()

	got, err := resolveFilledPDF(context.Background(), map[string]interface{}{"pdf_url": srv.URL})
	if err != nil {
		t.Fatalf("resolveFilledPDF(pdf_url): %v", err)
	}
	if string(got) != string(pdf) {
		t.Fatalf("resolveFilledPDF(pdf_url)=%q, want %q", got, pdf)
	}
}

func TestResolveFilledPDFURLErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := resolveFilledPDF(context.Background(), map[string]interface{}{"pdf_url": srv.URL})
	if err == nil {
		t.Fatalf("resolveFilledPDF should fail on non-2xx pdf_url status")
	}
}

func TestResolveFilledPDFNone(t *testing.T) {
	got, err := resolveFilledPDF(context.Background(), map[string]interface{}{"fields": map[string]interface{}{}})
	if err != nil {
		t.Fatalf("resolveFilledPDF: %v", err)
	}
	if got != nil {
		t.Fatalf("resolveFilledPDF with no pdf keys=%v, want nil", got)
	}
}
