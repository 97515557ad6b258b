package chat

import (
	"fmt"
	"strings"
)

// ChatRequest is the body posted to the kiosk chat backend.
type ChatRequest struct {
	Message  string `json:"message"`
	Language string `json:"language"`
	Fixed    bool   `json:"fixed"`          // message text is scripted, not typed by the visitor
	Name     string `json:"name,omitempty"` // visitor name when known
}

// ChatResponse is what the chat backend answers.
// Guidance, when present, is a wayfinding instruction for the floor plan.
type ChatResponse struct {
	Messages []ChatMessage `json:"messages"`
	Guidance string        `json:"guidance,omitempty"`
}

// ChatMessage is one avatar utterance
type ChatMessage struct {
	Text             string `json:"text,omitempty"`
	Content          string `json:"content,omitempty"`
	Animation        string `json:"animation,omitempty"`
	FacialExpression string `json:"facialExpression,omitempty"`
}

// Body returns the spoken text, whichever field the backend filled.
func (m ChatMessage) Body() string {
	if m.Text != "" {
		return m.Text
	}
	return m.Content
}

func (cr *ChatRequest) Validate() error {
	if strings.TrimSpace(cr.Message) == "" {
		return fmt.Errorf("message cannot be empty")
	}
	if cr.Language == "" {
		return fmt.Errorf("language cannot be empty")
	}
	return nil
}

// Transcript joins the message bodies, one per line.
func (r *ChatResponse) Transcript() string {
	lines := make([]string, 0, len(r.Messages))
	for _, m := range r.Messages {
		if body := m.Body(); body != "" {
			lines = append(lines, body)
		}
	}
	return strings.Join(lines, "\n")
}
