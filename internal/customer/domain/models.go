package domain

// Customer is the subset of a remote customer the CLI works with.
type Customer struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// DisplayName prefers the name, then the email, then the id.
func (c Customer) DisplayName() string {
	switch {
	case c.Name != "":
		return c.Name
	case c.Email != "":
		return c.Email
	default:
		return c.ID
	}
}

type DeleteFailure struct {
	Customer Customer `json:"customer"`
	Err      error    `json:"-"`
	Message  string   `json:"error"`
}

type DeleteAllResult struct {
	Deleted int             `json:"deleted"`
	Failed  []DeleteFailure `json:"failed"`
}
