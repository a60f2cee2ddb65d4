package models

type ChatRole string

const (
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
	RoleSystem    ChatRole = "system"
)

type ChatTurn struct {
	Role    ChatRole `json:"role"`
	Content string   `json:"content"`
}

// Valid reports whether the role is one of the known roles.
func (r ChatRole) Valid() bool {
	switch r {
	case RoleUser, RoleAssistant, RoleSystem:
		return true
	}
	return false
}
