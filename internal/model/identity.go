package model

// Identity is the caller decoded from the bearer token.
type Identity struct {
	Username string
	ID       string
	Role     string
}

// EnteredBy is the value recorded as the order's entered_by field.
func (i Identity) EnteredBy() string {
	if i.Username != "" {
		return i.Username
	}
	return i.ID
}

// Owner is the key under which the caller's cart state is stored.
func (i Identity) Owner() string {
	if i.ID != "" {
		return i.ID
	}
	return i.Username
}
