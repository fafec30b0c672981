// internal/handlers/card.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/kuduguette/bingo-creator/internal/database"
	"github.com/kuduguette/bingo-creator/internal/models"
)

// Saved card templates let an account keep reusable card designs (title,
// fonts, entry pool) between sessions. This surface is plain CRUD keyed by
// the authenticated user; rooms never read from it.

// CreateCardHandler stores a new saved card for the requester.
func CreateCardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	var card models.SavedCard
	if err := json.NewDecoder(r.Body).Decode(&card); err != nil {
		http.Error(w, "invalid card payload", http.StatusBadRequest)
		return
	}
	card.UserID = userID

	if err := database.CreateSavedCard(r.Context(), &card); err != nil {
		http.Error(w, "error saving card", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(card)
}

// ListCardsHandler returns every saved card belonging to the requester.
func ListCardsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	cards, err := database.ListSavedCards(r.Context(), userID)
	if err != nil {
		http.Error(w, "error listing cards", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cards)
}

// CardHandler serves get/update/delete for a single saved card at
// /cards/{id}. Cards belong to their creator; anyone else gets 404.
func CardHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := authenticatedUser(w, r)
	if !ok {
		return
	}

	idStr := strings.TrimPrefix(r.URL.Path, "/cards/")
	cardID, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "invalid card id", http.StatusBadRequest)
		return
	}

	card, err := database.GetSavedCard(r.Context(), cardID)
	if err != nil || card.UserID != userID {
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			http.Error(w, "error loading card", http.StatusInternalServerError)
			return
		}
		http.Error(w, "card not found", http.StatusNotFound)
		return
	}

	switch r.Method {
	case http.MethodGet:
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(card)

	case http.MethodPut:
		var update models.SavedCard
		if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
			http.Error(w, "invalid card payload", http.StatusBadRequest)
			return
		}
		update.ID = card.ID
		update.UserID = userID
		if err := database.UpdateSavedCard(r.Context(), &update); err != nil {
			http.Error(w, "error updating card", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(update)

	case http.MethodDelete:
		if err := database.DeleteSavedCard(r.Context(), cardID); err != nil {
			http.Error(w, "error deleting card", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}
