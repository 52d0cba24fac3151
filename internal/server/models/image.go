package models

import "time"

// Image is an uploaded picture stored inline as a base64 data URI. Data is
// omitted from public list responses; Size is the decoded payload length in
// bytes and must match the stored payload.
type Image struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Name        string    `json:"name"`
	Data        string    `json:"data,omitempty"`
	Size        int64     `json:"size"`
	MimeType    string    `json:"mimeType"`
	Public      bool      `json:"public"`
	Tags        []string  `json:"tags"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}
