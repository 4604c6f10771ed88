package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/guideforseniors/backend/internal/application/services"
	"github.com/guideforseniors/backend/internal/domain/entities"
	"github.com/guideforseniors/backend/internal/domain/repositories"
	apperrors "github.com/guideforseniors/backend/pkg/errors"
)

const defaultFeaturedLimit = 12

// CommunityHandler handles community-related HTTP requests
type CommunityHandler struct {
	communityRepo repositories.CommunityRepository
	searchRepo    repositories.CommunitySearchRepository
	quality       *services.CommunityQualityService
	ranking       *services.CommunityRankingService
}

// NewCommunityHandler creates a new community handler
func NewCommunityHandler(
	communityRepo repositories.CommunityRepository,
	searchRepo repositories.CommunitySearchRepository,
	quality *services.CommunityQualityService,
	ranking *services.CommunityRankingService,
) *CommunityHandler {
	return &CommunityHandler{
		communityRepo: communityRepo,
		searchRepo:    searchRepo,
		quality:       quality,
		ranking:       ranking,
	}
}

// GetCommunity handles GET /api/communities/{id}
func (h *CommunityHandler) GetCommunity(w http.ResponseWriter, r *http.Request) {
	communityID := r.PathValue("id")
	if communityID == "" {
		respondWithError(w, http.StatusBadRequest, "community ID is required")
		return
	}

	community, err := h.communityRepo.GetByID(r.Context(), communityID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			respondWithError(w, http.StatusNotFound, "community not found")
			return
		}
		respondWithError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondWithJSON(w, http.StatusOK, community)
}

// ListCommunities handles GET /api/communities. With ?city= the
// admission-quality filter applies; ?include_incomplete=true relaxes it
// for directory pages that list every community in a city.
func (h *CommunityHandler) ListCommunities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	city := query.Get("city")

	if city != "" {
		includeIncomplete, _ := strconv.ParseBool(query.Get("include_incomplete"))

		records, err := h.communityRepo.ListByCity(r.Context(), city)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, "failed to list communities")
			return
		}

		filtered := h.quality.FilterByCity(records, city, includeIncomplete)
		respondWithJSON(w, http.StatusOK, map[string]interface{}{
			"communities": filtered,
			"count":       len(filtered),
		})
		return
	}

	filter := repositories.CommunityFilter{
		State:  query.Get("state"),
		Limit:  parseIntParam(query.Get("limit"), 30),
		Offset: parseIntParam(query.Get("offset"), 0),
	}

	communities, err := h.communityRepo.List(r.Context(), filter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list communities")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"communities": communities,
		"count":       len(communities),
	})
}

// GetFeaturedCommunities handles GET /api/communities/featured. Results
// are admission-ready communities ranked by city tier, memory care
// availability and rating.
func (h *CommunityHandler) GetFeaturedCommunities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := parseIntParam(query.Get("limit"), defaultFeaturedLimit)
	city := query.Get("city")

	var records []*entities.Community
	var err error
	if city != "" {
		records, err = h.communityRepo.ListByCity(r.Context(), city)
	} else {
		records, err = h.communityRepo.List(r.Context(), repositories.CommunityFilter{})
	}
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to list communities")
		return
	}

	ready := make([]*entities.Community, 0, len(records))
	for _, record := range records {
		if h.quality.IsAdmissionReady(record) {
			ready = append(ready, record)
		}
	}

	ranked := h.ranking.Rank(ready, limit)
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"communities": ranked,
		"count":       len(ranked),
	})
}

// SearchCommunities handles GET /api/communities/search
func (h *CommunityHandler) SearchCommunities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	hits, err := h.searchRepo.Search(r.Context(), repositories.CommunitySearchQuery{
		Query:    query.Get("q"),
		City:     query.Get("city"),
		CareType: query.Get("care_type"),
		Limit:    parseIntParam(query.Get("limit"), 20),
	})
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to search communities")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": hits,
		"count":   len(hits),
	})
}

// GetCityStats handles GET /api/cities/{city}/stats
func (h *CommunityHandler) GetCityStats(w http.ResponseWriter, r *http.Request) {
	city := r.PathValue("city")
	if city == "" {
		respondWithError(w, http.StatusBadRequest, "city is required")
		return
	}

	count, err := h.communityRepo.CountByCity(r.Context(), city)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to count communities")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"city":  city,
		"count": count,
		"tier":  h.ranking.CityTier(city),
	})
}

func parseIntParam(value string, fallback int) int {
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return fallback
	}
	return parsed
}

// Helper functions
func respondWithJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(payload)
}

func respondWithError(w http.ResponseWriter, statusCode int, message string) {
	respondWithJSON(w, statusCode, map[string]string{
		"error": message,
	})
}
