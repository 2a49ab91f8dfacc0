package models

// Response shapes for the upload and processing endpoints.

type UploadResponse struct {
	Success  bool      `json:"success"`
	Material *Material `json:"material"`
	Message  string    `json:"message"`
}

// BatchResult is the outcome of one item in a batch operation.
type BatchResult struct {
	ItemRef  string    `json:"item_ref"`
	Success  bool      `json:"success"`
	Material *Material `json:"material,omitempty"`
	Error    string    `json:"error,omitempty"`
}

// BatchResponse aggregates per-item outcomes in input order.
type BatchResponse struct {
	Total      int           `json:"total"`
	Successful int           `json:"successful"`
	Failed     int           `json:"failed"`
	Results    []BatchResult `json:"results"`
}

type ProcessMaterialResponse struct {
	Success          bool             `json:"success"`
	MaterialID       string           `json:"material_id"`
	ProcessingStatus ProcessingStatus `json:"processing_status"`
	ErrorMessage     string           `json:"error_message,omitempty"`
	TextLength       int              `json:"text_length"`
	TextPreview      string           `json:"text_preview,omitempty"`
}

type StorageUsage struct {
	Used       int64   `json:"used"`
	Limit      int64   `json:"limit"`
	UsedMB     float64 `json:"used_mb"`
	LimitMB    float64 `json:"limit_mb"`
	Percentage float64 `json:"percentage"`
	Available  int64   `json:"available"`
}

// MaterialStatus is the polling view of a material's lifecycle.
type MaterialStatus struct {
	MaterialID       string           `json:"material_id"`
	FileName         string           `json:"file_name"`
	ProcessingStatus ProcessingStatus `json:"processing_status"`
	ErrorMessage     string           `json:"error_message,omitempty"`
	CreatedAt        string           `json:"created_at"`
	UpdatedAt        string           `json:"updated_at"`
}
