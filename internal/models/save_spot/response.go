package models

type SaveSpotResponse struct {
	ID      string `json:"id"`
	Created bool   `json:"created"` // True when the save published a new spot
}
