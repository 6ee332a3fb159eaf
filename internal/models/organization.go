package models

// Organization is a partner or federation shown on the public site
type Organization struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Website     string `json:"website"`
	Description string `json:"description"`
}
