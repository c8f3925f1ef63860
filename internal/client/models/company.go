package models

// Company is a company record as returned by the backend.
type Company struct {
	ID      ID     `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Website string `json:"website"`
	Logo    string `json:"logo"`
}
