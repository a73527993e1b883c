package models

// User is the account info the gateway returns on login.
type User struct {
	ID    string `json:"user_id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Document is one entry of the gateway's document listing.
type Document struct {
	ID        string `json:"document_id"`
	Title     string `json:"title"`
	VersionID string `json:"current_version_id,omitempty"`
	Status    string `json:"status"`
}
