package handlers

import (
	"net/http"
	"time"

	"github.com/guideforseniors/backend/internal/domain/repositories"
)

// EventHandler handles event-related HTTP requests
type EventHandler struct {
	eventRepo repositories.EventRepository
}

// NewEventHandler creates a new event handler
func NewEventHandler(eventRepo repositories.EventRepository) *EventHandler {
	return &EventHandler{
		eventRepo: eventRepo,
	}
}

// GetUpcomingEvents handles GET /api/events/upcoming
func (h *EventHandler) GetUpcomingEvents(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r.URL.Query().Get("limit"), 50)

	events, err := h.eventRepo.ListUpcoming(r.Context(), time.Now(), limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list upcoming events")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"events": events,
		"count":  len(events),
	})
}
