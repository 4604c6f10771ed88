package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/guideforseniors/backend/internal/domain/entities"
	"github.com/guideforseniors/backend/internal/domain/providers"
	"github.com/guideforseniors/backend/internal/domain/repositories"
)

const inquiryDedupWindow = 24 * time.Hour

// InquiryHandler handles lead submissions from community pages.
type InquiryHandler struct {
	inquiryRepo repositories.InquiryRepository
	cache       providers.CacheProvider
}

// NewInquiryHandler creates a new inquiry handler.
func NewInquiryHandler(inquiryRepo repositories.InquiryRepository, cache providers.CacheProvider) *InquiryHandler {
	return &InquiryHandler{
		inquiryRepo: inquiryRepo,
		cache:       cache,
	}
}

type inquiryRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	CommunityID     string `json:"community_id"`
	Message         string `json:"message"`
	MoveInTimeframe string `json:"move_in_timeframe"`
}

// SubmitInquiry handles POST /api/inquiries
func (h *InquiryHandler) SubmitInquiry(w http.ResponseWriter, r *http.Request) {
	var payload inquiryRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	payload.Name = strings.TrimSpace(payload.Name)
	payload.Email = strings.TrimSpace(payload.Email)
	payload.Phone = strings.TrimSpace(payload.Phone)
	payload.Message = strings.TrimSpace(payload.Message)

	if payload.Name == "" {
		respondWithError(w, http.StatusBadRequest, "name is required")
		return
	}
	if payload.Email == "" || !strings.Contains(payload.Email, "@") {
		respondWithError(w, http.StatusBadRequest, "a valid email is required")
		return
	}
	if len(payload.Message) > 2000 {
		respondWithError(w, http.StatusBadRequest, "message is too long")
		return
	}

	dupKey := "inquiry:dup:" + inquiryFingerprint(payload, inquiryClientIP(r))
	if h.isDuplicate(r, dupKey) {
		respondWithJSON(w, http.StatusAccepted, map[string]string{
			"status": "duplicate_ignored",
		})
		return
	}

	inquiry := &entities.Inquiry{
		ID:              uuid.New().String(),
		Name:            payload.Name,
		Email:           payload.Email,
		Phone:           payload.Phone,
		CommunityID:     payload.CommunityID,
		Message:         payload.Message,
		MoveInTimeframe: payload.MoveInTimeframe,
		CreatedAt:       time.Now(),
	}

	if err := h.inquiryRepo.Create(r.Context(), inquiry); err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to submit inquiry")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{
		"status": "received",
		"id":     inquiry.ID,
	})
}

func (h *InquiryHandler) isDuplicate(r *http.Request, key string) bool {
	if h.cache == nil {
		return false
	}

	exists, err := h.cache.Exists(r.Context(), key)
	if err == nil && exists {
		return true
	}

	_ = h.cache.Set(r.Context(), key, []byte("1"), int(inquiryDedupWindow.Seconds()))
	return false
}

func inquiryFingerprint(payload inquiryRequest, ip string) string {
	normalized := []string{
		strings.ToLower(payload.Email),
		payload.CommunityID,
		ip,
	}

	hash := sha256.Sum256([]byte(strings.Join(normalized, "|")))
	return hex.EncodeToString(hash[:])
}

func inquiryClientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return strings.TrimSpace(realIP)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}
