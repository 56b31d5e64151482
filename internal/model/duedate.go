package model

// Defaults used when the client due-date configuration is unavailable.
const (
	DefaultDueOn    = 1
	DefaultMaxDueOn = 30
)

// ClientDueDateConfig bounds the due dates a client may request.
type ClientDueDateConfig struct {
	DefaultDueOn int `json:"default_due_on"`
	MaxDueOn     int `json:"max_due_on"`
}

// DefaultDueDateConfig returns the fallback configuration.
func DefaultDueDateConfig() ClientDueDateConfig {
	return ClientDueDateConfig{
		DefaultDueOn: DefaultDueOn,
		MaxDueOn:     DefaultMaxDueOn,
	}
}

// DueDateWindow is the selectable due-date range shown by the UI.
type DueDateWindow struct {
	Initial string `json:"initial"`
	Min     string `json:"min"`
	Max     string `json:"max"`
}

// DueDateConfigResponse is the backend payload; absent fields are nil.
type DueDateConfigResponse struct {
	DefaultDueOn *int `json:"default_due_on"`
	MaxDueOn     *int `json:"max_due_on"`
}
