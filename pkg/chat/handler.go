package chat

import (
	"context"
	_ "embed"

	"github.com/bytedance/sonic"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"github.com/pkg/errors"

	"gpurouter/pkg/known"
	"gpurouter/pkg/models"
)

//go:embed prompt.md
var SystemPrompt string

const (
	InvalidMessagesText = "Invalid messages format"
	FailureText         = "Failed to get response from AI assistant"
	ApologyText         = "I apologize, but I could not generate a response. Please try again."
)

var (
	// ErrInvalidMessages the body parsed but messages is not a list of turns.
	ErrInvalidMessages = errors.New(InvalidMessagesText)
	// ErrMalformedBody the body is not JSON at all.
	ErrMalformedBody = errors.New("malformed request body")
)

// ParseMessages decodes {"messages": [...]} from a request body. A missing
// content field is read as empty text.
func ParseMessages(body []byte) ([]models.ChatMessage, error) {
	var payload interface{}
	if err := sonic.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrap(ErrMalformedBody, err.Error())
	}
	if payload == nil {
		return nil, errors.Wrap(ErrMalformedBody, "null body")
	}
	obj, ok := payload.(map[string]interface{})
	if !ok {
		return nil, ErrInvalidMessages
	}
	list, ok := obj["messages"].([]interface{})
	if !ok {
		return nil, ErrInvalidMessages
	}

	messages := make([]models.ChatMessage, 0, len(list))
	for _, item := range list {
		turn, ok := item.(map[string]interface{})
		if !ok {
			return nil, ErrInvalidMessages
		}
		role, _ := turn["role"].(string)
		switch role {
		case models.RoleUser, models.RoleAssistant, models.RoleSystem:
		default:
			return nil, ErrInvalidMessages
		}
		var content string
		if raw, present := turn["content"]; present && raw != nil {
			if content, ok = raw.(string); !ok {
				return nil, ErrInvalidMessages
			}
		}
		messages = append(messages, models.ChatMessage{Role: role, Content: content})
	}
	return messages, nil
}

// WithSystemPrompt returns the conversation with the system prompt first.
func WithSystemPrompt(messages []models.ChatMessage) []models.ChatMessage {
	out := make([]models.ChatMessage, 0, len(messages)+1)
	out = append(out, models.ChatMessage{Role: models.RoleSystem, Content: SystemPrompt})
	return append(out, messages...)
}

// Handler serves the chat endpoint.
type Handler struct {
	completer Completer
}

func NewHandler(completer Completer) *Handler {
	return &Handler{completer: completer}
}

// Reply runs one exchange and returns the status and body to send.
func (h *Handler) Reply(ctx context.Context, body []byte) (int, interface{}) {
	messages, err := ParseMessages(body)
	switch {
	case errors.Is(err, ErrInvalidMessages):
		return consts.StatusBadRequest, models.ErrorResponse{Error: InvalidMessagesText}
	case err != nil:
		hlog.CtxErrorf(ctx, "chat: %v", err)
		return consts.StatusInternalServerError, models.ErrorResponse{Error: FailureText}
	}

	text, err := h.completer.Complete(ctx, WithSystemPrompt(messages))
	if err != nil {
		hlog.CtxErrorf(ctx, "chat: %v", err)
		return consts.StatusInternalServerError, models.ErrorResponse{Error: FailureText}
	}
	if text == "" {
		text = ApologyText
	}
	return consts.StatusOK, models.ChatReply{Message: text, Metadata: map[string]interface{}{}}
}

// Handle is the hertz handler for POST /api/chat.
func (h *Handler) Handle(ctx context.Context, c *app.RequestContext) {
	status, body := h.Reply(ctx, c.Request.Body())
	if status != consts.StatusOK {
		hlog.CtxWarnf(ctx, "chat: request %s answered %d", c.GetString(known.RequestIDKey), status)
	}
	c.JSON(status, body)
}
