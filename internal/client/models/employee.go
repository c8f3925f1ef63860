package models

// Employee belongs to exactly one company. CompanyName is filled in by the
// backend for display; the client never resolves it itself.
type Employee struct {
	ID          ID     `json:"id"`
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	CompanyID   ID     `json:"company_id"`
	CompanyName string `json:"company_name"`
}
