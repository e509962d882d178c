package api

import (
	"context"
	"net/http"

	"taskflow/tui/internal/models"
)

type chatRequest struct {
	Message        string  `json:"message"`
	ConversationID *string `json:"conversation_id"`
}

// SendChat dispatches one user message to the assistant. conversationID
// is nil on the first exchange; afterwards the caller echoes back
// whatever identifier the previous reply carried.
func (c *Client) SendChat(ctx context.Context, message string, conversationID *string) (*models.ChatReply, error) {
	var reply models.ChatReply
	req := chatRequest{Message: message, ConversationID: conversationID}
	if err := c.do(ctx, http.MethodPost, "/api/chat", req, &reply); err != nil {
		return nil, err
	}
	return &reply, nil
}
