package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"
)

// OCRClient extracts text from images through an external OCR backend.
type OCRClient struct {
	endpoint   string
	httpClient *http.Client
}

func NewOCRClient(endpoint string) *OCRClient {
	return &OCRClient{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Extract runs OCR on an image. Backend failures produce an empty string
// rather than an error; the material then fails the minimum-length check.
func (c *OCRClient) Extract(data []byte) (string, error) {
	text, err := c.recognize(data)
	if err != nil {
		log.Printf("image ocr error: %v", err)
		return "", nil
	}
	return text, nil
}

type ocrResponse struct {
	Text string `json:"text"`
}

func (c *OCRClient) recognize(data []byte) (string, error) {
	if c.endpoint == "" {
		return "", fmt.Errorf("OCR endpoint not configured")
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	fw, err := writer.CreateFormFile("image", "image")
	if err != nil {
		return "", err
	}
	if _, err := fw.Write(data); err != nil {
		return "", err
	}
	writer.Close()

	req, err := http.NewRequest(http.MethodPost, c.endpoint, &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("ocr backend status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	var parsed ocrResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("decode ocr response: %w", err)
	}
	return parsed.Text, nil
}
