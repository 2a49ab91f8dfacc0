package extractor

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOCRClientExtract(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if _, _, err := r.FormFile("image"); err != nil {
			http.Error(w, "missing image", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"text": "recognized text"}`))
	}))
	defer server.Close()

	got, err := NewOCRClient(server.URL).Extract([]byte("fake image bytes"))
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if got != "recognized text" {
		t.Errorf("Extract() = %q", got)
	}
}

// OCR backend failures are swallowed into an empty string; the pipeline
// then fails the material on the text length check instead.
func TestOCRClientSwallowsBackendFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "ocr exploded", http.StatusInternalServerError)
	}))
	defer server.Close()

	tests := []struct {
		name   string
		client *OCRClient
	}{
		{name: "backend error", client: NewOCRClient(server.URL)},
		{name: "no endpoint configured", client: NewOCRClient("")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.client.Extract([]byte("bytes"))
			if err != nil {
				t.Fatalf("Extract() error = %v, want nil", err)
			}
			if got != "" {
				t.Errorf("Extract() = %q, want empty", got)
			}
		})
	}
}
