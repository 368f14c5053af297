package handlers

import (
	"log"
	"net/http"

	"github.com/google/uuid"

	"github.com/IApofeoz/diplom/internal/service"
	"github.com/IApofeoz/diplom/internal/transport/http/middleware"
)

type MessageHandler struct {
	chatService *service.ChatService
}

func NewMessageHandler(chatService *service.ChatService) *MessageHandler {
	return &MessageHandler{chatService: chatService}
}

// History returns the whole conversation with another user, oldest first.
func (h *MessageHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	otherID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	messages, err := h.chatService.History(r.Context(), userID, otherID)
	if err != nil {
		log.Printf("ERROR list messages: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, messages)
}

// Search finds messages in one conversation containing the query, newest
// first.
func (h *MessageHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())
	otherID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid user ID")
		return
	}

	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "MISSING_QUERY", "Query parameter q is required")
		return
	}

	messages, err := h.chatService.SearchMessages(r.Context(), userID, otherID, q)
	if err != nil {
		log.Printf("ERROR search messages: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, messages)
}
