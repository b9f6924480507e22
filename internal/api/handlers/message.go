package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/courierhq/courier/internal/api/middleware"
	"github.com/courierhq/courier/internal/domain"
	"github.com/courierhq/courier/internal/service"
	"github.com/go-chi/chi/v5"
)

type MessageHandler struct {
	messageService *service.MessageService
}

func NewMessageHandler(messageService *service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

type SendMessageRequest struct {
	ToUsername string `json:"toUsername"`
	Body       string `json:"body"`
}

type MessageDetailResponse struct {
	ID       uint                  `json:"id"`
	Body     string                `json:"body"`
	SentAt   time.Time             `json:"sentAt"`
	ReadAt   *time.Time            `json:"readAt"`
	FromUser domain.PublicIdentity `json:"fromUser"`
	ToUser   domain.PublicIdentity `json:"toUser"`
}

// MessagesFrom lists the authenticated user's outbound thread. The username
// in the path must match the token subject.
func (h *MessageHandler) MessagesFrom(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if !h.requireSelf(w, r, username) {
		return
	}

	messages, err := h.messageService.MessagesFrom(r.Context(), username)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]service.OutboundMessage{"messages": messages})
}

func (h *MessageHandler) MessagesTo(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")
	if !h.requireSelf(w, r, username) {
		return
	}

	messages, err := h.messageService.MessagesTo(r.Context(), username)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]service.InboundMessage{"messages": messages})
}

func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	sender, ok := middleware.GetUsername(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if req.ToUsername == "" || req.Body == "" {
		http.Error(w, "Recipient and body are required", http.StatusBadRequest)
		return
	}

	message, err := h.messageService.Send(r.Context(), sender, req.ToUsername, req.Body)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]*domain.Message{"message": message})
}

// Get returns a single message. Only the sender and the recipient may read it.
func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsername(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseMessageID(r)
	if err != nil {
		http.Error(w, "Invalid message id", http.StatusBadRequest)
		return
	}

	message, err := h.messageService.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if message.FromUsername != username && message.ToUsername != username {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	resp := MessageDetailResponse{
		ID:       message.ID,
		Body:     message.Body,
		SentAt:   message.SentAt,
		ReadAt:   message.ReadAt,
		FromUser: message.FromUser.Public(),
		ToUser:   message.ToUser.Public(),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]MessageDetailResponse{"message": resp})
}

// MarkRead stamps read_at. Only the recipient may mark a message read.
func (h *MessageHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.GetUsername(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := parseMessageID(r)
	if err != nil {
		http.Error(w, "Invalid message id", http.StatusBadRequest)
		return
	}

	message, err := h.messageService.Get(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if message.ToUsername != username {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	readAt, err := h.messageService.MarkRead(r.Context(), id)
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{"id": id, "readAt": readAt})
}

func (h *MessageHandler) requireSelf(w http.ResponseWriter, r *http.Request, username string) bool {
	authed, ok := middleware.GetUsername(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return false
	}
	if authed != username {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return false
	}
	return true
}

func (h *MessageHandler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		http.Error(w, "User not found", http.StatusNotFound)
	case errors.Is(err, domain.ErrMessageNotFound):
		http.Error(w, "Message not found", http.StatusNotFound)
	default:
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

func parseMessageID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
