package conversation

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// Role identifies the speaker of a turn
type Role string

const (
	// RoleUser marks a turn typed (or quick-replied) by the guest
	RoleUser Role = "user"
	// RoleAssistant marks a turn produced by the assistant, including error explanations
	RoleAssistant Role = "assistant"
	// RoleSystem marks the fixed instruction sent ahead of the transcript
	RoleSystem Role = "system"
)

// ParseRole converts a string to a Role, rejecting anything outside the closed set
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleAssistant, RoleSystem:
		return Role(s), nil
	default:
		return "", errors.Errorf("unknown role %q", s)
	}
}

// String implements fmt.Stringer
func (r Role) String() string {
	return string(r)
}

// UnmarshalJSON only accepts known roles
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}

	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}

	*r = parsed
	return nil
}

// Turn is one message unit in a conversation
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// UserTurn creates a turn spoken by the guest
func UserTurn(content string) Turn {
	return Turn{Role: RoleUser, Content: content}
}

// AssistantTurn creates a turn spoken by the assistant
func AssistantTurn(content string) Turn {
	return Turn{Role: RoleAssistant, Content: content}
}

// SystemTurn creates an instruction turn
func SystemTurn(content string) Turn {
	return Turn{Role: RoleSystem, Content: content}
}
