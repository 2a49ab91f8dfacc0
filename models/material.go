package models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// ProcessingStatus is the lifecycle stage of a material.
type ProcessingStatus string

const (
	StatusPending    ProcessingStatus = "pending"
	StatusProcessing ProcessingStatus = "processing"
	StatusReady      ProcessingStatus = "ready"
	StatusFailed     ProcessingStatus = "failed"
)

// FileType is the closed set of supported material formats.
type FileType string

const (
	FileTypePDF   FileType = "pdf"
	FileTypeDOCX  FileType = "docx"
	FileTypePPTX  FileType = "pptx"
	FileTypeImage FileType = "image"
	FileTypeText  FileType = "text"
)

// AllowedMIMETypes maps incoming content types to file type tags.
var AllowedMIMETypes = map[string]FileType{
	"application/pdf": FileTypePDF,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document":   FileTypeDOCX,
	"application/vnd.openxmlformats-officedocument.presentationml.presentation": FileTypePPTX,
	"image/jpeg": FileTypeImage,
	"image/jpg":  FileTypeImage,
	"image/png":  FileTypeImage,
	"text/plain": FileTypeText,
}

// FileTypeFromMIME resolves a content type to its tag. The boolean is false
// for anything outside the supported set.
func FileTypeFromMIME(contentType string) (FileType, bool) {
	t, ok := AllowedMIMETypes[contentType]
	return t, ok
}

// ParseFileType validates a client-supplied file type string.
func ParseFileType(s string) (FileType, bool) {
	switch FileType(s) {
	case FileTypePDF, FileTypeDOCX, FileTypePPTX, FileTypeImage, FileTypeText:
		return FileType(s), true
	}
	return "", false
}

type Material struct {
	Base
	UserID           uuid.UUID        `gorm:"type:uuid;not null;index" json:"user_id"`
	SubjectID        string           `gorm:"type:varchar(255);not null;index" json:"subject_id"`
	FileName         string           `gorm:"not null" json:"file_name"`
	FileType         FileType         `gorm:"type:varchar(20);not null" json:"file_type"`
	FileSize         int64            `gorm:"not null" json:"file_size"`
	StoragePath      string           `gorm:"not null" json:"storage_path"`
	TextContent      string           `gorm:"type:text" json:"text_content,omitempty"`
	ProcessingStatus ProcessingStatus `gorm:"type:varchar(20);not null;index;default:'pending'" json:"processing_status"`
	ErrorMessage     string           `gorm:"type:text" json:"error_message,omitempty"`
	ThumbnailURL     string           `json:"thumbnail_url,omitempty"`
	Metadata         datatypes.JSON   `gorm:"type:jsonb" json:"metadata,omitempty"`
}

func (Material) TableName() string {
	return "study_materials"
}
