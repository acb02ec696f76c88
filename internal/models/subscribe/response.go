package models

type SubscribeResponse struct {
	ID string `json:"id"`
}
