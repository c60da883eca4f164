package models

// Customer is deduplicated by Mobile: the live store keeps at most one row
// per distinct number, and Name is last-write-wins on repeated submissions.
type Customer struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Mobile string `json:"mobile"`
}
