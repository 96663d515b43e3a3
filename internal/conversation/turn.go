// Package conversation holds the turn model for an intake session: an
// append-only sequence of user/assistant/system turns.
package conversation

import "github.com/google/uuid"

// Role identifies who produced a turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Turn is one message in a conversation. The id exists for rendering
// identity only; ordering is positional.
type Turn struct {
	ID             string `json:"id"`
	Role           Role   `json:"role"`
	Content        string `json:"content"`
	HiddenAnalysis string `json:"hidden_analysis,omitempty"`
}

// NewTurn builds a turn with a fresh id.
func NewTurn(role Role, content string) Turn {
	return Turn{
		ID:      uuid.NewString(),
		Role:    role,
		Content: content,
	}
}

// NewAssistantTurn builds an assistant turn carrying the diagnostic
// analysis text. The analysis is never shown unless debug mode is on.
func NewAssistantTurn(content, hiddenAnalysis string) Turn {
	return Turn{
		ID:             uuid.NewString(),
		Role:           RoleAssistant,
		Content:        content,
		HiddenAnalysis: hiddenAnalysis,
	}
}

// History is the ordered turn sequence for one session.
type History []Turn

// Append returns the history with the turn added at the end. Turns are
// never reordered or deduplicated.
func (h History) Append(t Turn) History {
	return append(h, t)
}

// LastAssistantIndex returns the highest index with an assistant role,
// or -1 when the history contains none.
func (h History) LastAssistantIndex() int {
	for i := len(h) - 1; i >= 0; i-- {
		if h[i].Role == RoleAssistant {
			return i
		}
	}
	return -1
}

// TruncateBeforeLastAssistant returns the prefix strictly before the
// last assistant turn, dropping it and everything after. Without an
// assistant turn the history is returned unchanged.
func (h History) TruncateBeforeLastAssistant() History {
	idx := h.LastAssistantIndex()
	if idx < 0 {
		return h
	}
	return h[:idx]
}

// Clone returns an independent copy so callers can mutate freely.
func (h History) Clone() History {
	if h == nil {
		return nil
	}
	out := make(History, len(h))
	copy(out, h)
	return out
}
