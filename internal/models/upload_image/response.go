package models

type UploadImageResponse struct {
	Ref string `json:"ref"` // Content-addressed reference served from /images
}
