package models

type UploadImageRequest struct {
	Filename string `json:"filename"`
	Data     string `json:"data"` // Base64-encoded image payload
}
