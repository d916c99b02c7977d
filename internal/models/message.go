package models

// Role identifies the author of a message
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message represents a chat message for display.
// The log is append-only; position is identity.
type Message struct {
	Role    Role
	Content string
}

// ClientInfo describes what an intake conversation is meant to collect.
// Nothing populates it yet.
type ClientInfo struct {
	FullName        string
	Email           string
	CompanyName     string
	ProjectType     string
	BudgetRange     string
	Timeline        string
	Goals           string
	AdditionalNotes string
}
