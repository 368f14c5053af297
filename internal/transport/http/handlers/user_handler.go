package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/IApofeoz/diplom/internal/service"
	"github.com/IApofeoz/diplom/internal/transport/http/middleware"
	"github.com/IApofeoz/diplom/pkg/validator"
)

type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	user, err := h.userService.Get(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR get me: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, user)
}

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	var input service.UpdateProfileInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if input.Username != nil {
		if errs := validator.ValidateUsername(*input.Username); errs.HasErrors() {
			writeValidationErrors(w, errs)
			return
		}
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			writeError(w, http.StatusConflict, "USERNAME_TAKEN", "Username is already taken")
		case errors.Is(err, service.ErrInvalidBirthDate):
			writeError(w, http.StatusBadRequest, "INVALID_BIRTH_DATE", "Birth date must be YYYY-MM-DD")
		default:
			log.Printf("ERROR update me: %v", err)
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusOK, user)
}

// Contacts returns every other user with last-message preview and presence.
func (h *UserHandler) Contacts(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	contacts, err := h.userService.Contacts(r.Context(), userID)
	if err != nil {
		log.Printf("ERROR list contacts: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, contacts)
}

func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r.Context())

	q := r.URL.Query().Get("q")
	if q == "" {
		writeError(w, http.StatusBadRequest, "MISSING_QUERY", "Query parameter q is required")
		return
	}

	users, err := h.userService.Search(r.Context(), userID, q)
	if err != nil {
		log.Printf("ERROR search users: %v", err)
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, users)
}
