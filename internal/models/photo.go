package models

import (
	"time"
)

// MaxPhotosPerProfile is the per-profile photo cap.
const MaxPhotosPerProfile = 10

type Photo struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	ProfileID uint      `json:"profile_id" gorm:"not null;index"`
	URL       string    `json:"url" gorm:"not null"`
	Filename  string    `json:"filename"`
	Position  int       `json:"position" gorm:"not null;default:0"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PhotoUpload is one incoming file, already read into memory. A nil
// Position places the photo after the existing ones. Err is set when the
// file could not be decoded or read; such uploads are reported, never stored.
type PhotoUpload struct {
	Data        []byte
	ContentType string
	Filename    string
	Position    *int
	Err         error
}

// Base64PhotoRequest is the JSON upload form. Data may be raw base64 or a
// data URL ("data:image/png;base64,...").
type Base64PhotoRequest struct {
	Data        string `json:"data"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Position    *int   `json:"position"`
}

type Base64PhotoBatchRequest struct {
	Base64PhotoRequest
	Photos []Base64PhotoRequest `json:"photos"`
}

type PhotoResponse struct {
	ID       uint   `json:"id"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	Position int    `json:"position"`
}

type PhotoUploadError struct {
	Filename string `json:"filename"`
	Error    string `json:"error"`
}

type PhotoBatchResponse struct {
	Photos []PhotoResponse    `json:"photos"`
	Errors []PhotoUploadError `json:"errors"`
}
