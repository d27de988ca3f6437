package models

import "time"

type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	VIPStatus string    `json:"vipStatus"` // free | standard | vip
	CreatedAt time.Time `json:"createdAt"`
}
