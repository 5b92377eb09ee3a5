package controllers

import (
	"net/http"
	"strconv"

	"emberly_server/services"
)

// ChatController struct
type ChatController struct {
	ChatService *services.ChatService
}

// NewChatController initializes the chat controller
func NewChatController(service *services.ChatService) *ChatController {
	return &ChatController{ChatService: service}
}

// HandleGetOrCreateConversation - open (or create) the conversation for a pair
func (c *ChatController) HandleGetOrCreateConversation(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ParticipantA string `json:"participantA"`
		ParticipantB string `json:"participantB"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	conv, err := c.ChatService.GetOrCreateConversation(r.Context(), request.ParticipantA, request.ParticipantB)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

// HandleListConversations - every conversation the user participates in
func (c *ChatController) HandleListConversations(w http.ResponseWriter, r *http.Request) {
	conversations, err := c.ChatService.ListConversations(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conversations)
}

// HandleGetMessages - paged messages for a conversation, oldest first
func (c *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	conversationID := r.URL.Query().Get("conversationId")
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))

	messages, err := c.ChatService.GetMessages(r.Context(), conversationID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messages)
}

// HandleSendMessage - consent-gated send; may return a pending request
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ConversationID string `json:"conversationId"`
		SenderID       string `json:"senderId"`
		Content        string `json:"content"`
		Type           string `json:"messageType,omitempty"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	outcome, err := c.ChatService.SendMessage(r.Context(), request.ConversationID, request.SenderID, request.Content, request.Type)
	if err != nil {
		writeError(w, err)
		return
	}

	if outcome.RequestPending {
		writeJSON(w, http.StatusAccepted, map[string]interface{}{
			"status":         "pending",
			"requestPending": true,
			"message":        "Message request sent, awaiting approval",
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": outcome.Message,
	})
}

// HandleApproveConversation - recipient approves pending messaging
func (c *ChatController) HandleApproveConversation(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ConversationID string `json:"conversationId"`
		ApproverID     string `json:"approverId"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	conv, err := c.ChatService.ApproveConversation(r.Context(), request.ConversationID, request.ApproverID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, conv)
}

type pinRequest struct {
	ConversationID string `json:"conversationId"`
	MessageID      string `json:"messageId"`
}

// HandlePinMessage - add to the conversation's shared pinned list
func (c *ChatController) HandlePinMessage(w http.ResponseWriter, r *http.Request) {
	var request pinRequest
	if !decodeBody(w, r, &request) {
		return
	}

	if err := c.ChatService.PinMessage(r.Context(), request.ConversationID, request.MessageID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Message pinned"})
}

// HandleUnpinMessage - remove from the shared pinned list
func (c *ChatController) HandleUnpinMessage(w http.ResponseWriter, r *http.Request) {
	var request pinRequest
	if !decodeBody(w, r, &request) {
		return
	}

	if err := c.ChatService.UnpinMessage(r.Context(), request.ConversationID, request.MessageID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Message unpinned"})
}

// HandleMarkRead - reset the shared unread counter
func (c *ChatController) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ConversationID string `json:"conversationId"`
		UserID         string `json:"userId"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	if err := c.ChatService.MarkRead(r.Context(), request.ConversationID, request.UserID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Conversation marked as read"})
}

// HandleReactToMessage - set or clear a reaction
func (c *ChatController) HandleReactToMessage(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ConversationID string `json:"conversationId"`
		MessageID      string `json:"messageId"`
		UserID         string `json:"userId"`
		Emoji          string `json:"emoji"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	if err := c.ChatService.ReactToMessage(r.Context(), request.ConversationID, request.MessageID, request.UserID, request.Emoji); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success"})
}

// HandleEditMessage - sender edits their own message
func (c *ChatController) HandleEditMessage(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ConversationID string `json:"conversationId"`
		MessageID      string `json:"messageId"`
		SenderID       string `json:"senderId"`
		Content        string `json:"content"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	msg, err := c.ChatService.EditMessage(r.Context(), request.ConversationID, request.MessageID, request.SenderID, request.Content)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, msg)
}

// HandleDeleteMessage - sender soft-deletes their own message
func (c *ChatController) HandleDeleteMessage(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ConversationID string `json:"conversationId"`
		MessageID      string `json:"messageId"`
		SenderID       string `json:"senderId"`
	}
	if !decodeBody(w, r, &request) {
		return
	}

	if err := c.ChatService.DeleteMessage(r.Context(), request.ConversationID, request.MessageID, request.SenderID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "success", "message": "Message deleted"})
}
