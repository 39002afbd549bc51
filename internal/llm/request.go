package llm

import (
	"strings"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/shared"
)

// Role of a chat message author.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Message is one role/content pair of a chat-completion request.
type Message struct {
	Role    Role
	Content string
}

// Request describes a single chat-completion call. The endpoint and
// credential live on the Client.
type Request struct {
	Model    string
	Messages []Message
}

// UserRequest builds a request carrying one user message.
func UserRequest(model, prompt string) Request {
	return Request{
		Model:    model,
		Messages: []Message{{Role: RoleUser, Content: prompt}},
	}
}

// Validate reports a client error when the request cannot be sent as is.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Model) == "" {
		return clientError("model is required")
	}

	if len(r.Messages) == 0 {
		return clientError("at least one message is required")
	}

	for idx, message := range r.Messages {
		switch message.Role {
		case RoleSystem, RoleUser, RoleAssistant:
		default:
			return clientErrorf("message %d has unsupported role %q", idx, message.Role)
		}
		if strings.TrimSpace(message.Content) == "" {
			return clientErrorf("message %d has empty content", idx)
		}
	}

	return nil
}

func (r Request) params() openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(r.Messages))
	for _, message := range r.Messages {
		switch message.Role {
		case RoleSystem:
			messages = append(messages, openai.SystemMessage(message.Content))
		case RoleAssistant:
			messages = append(messages, openai.AssistantMessage(message.Content))
		default:
			messages = append(messages, openai.UserMessage(message.Content))
		}
	}

	return openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(strings.TrimSpace(r.Model)),
		Messages: messages,
	}
}
