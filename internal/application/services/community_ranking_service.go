package services

import (
	"sort"
	"strings"

	"github.com/guideforseniors/backend/internal/domain/entities"
)

// tier1Cities are premium high-intent markets; tier2Cities are volume
// markets. Anything else is tier 3. Matching is case-insensitive
// substring containment so "Westlake OH" still lands in tier 1.
var tier1Cities = []string{
	"Westlake",
	"Beachwood",
	"Rocky River",
	"Shaker Heights",
	"Solon",
}

var tier2Cities = []string{
	"Cleveland",
	"Parma",
	"Lakewood",
	"Euclid",
	"Mentor",
	"Strongsville",
	"Medina",
}

// CommunityRankingService orders communities for featured and city-hub
// displays.
type CommunityRankingService struct{}

// NewCommunityRankingService creates a new ranking service.
func NewCommunityRankingService() *CommunityRankingService {
	return &CommunityRankingService{}
}

// CityTier classifies a city into priority tier 1, 2 or 3. Total
// function: unknown cities are tier 3.
func (s *CommunityRankingService) CityTier(city string) int {
	lowered := strings.ToLower(city)
	for _, name := range tier1Cities {
		if strings.Contains(lowered, strings.ToLower(name)) {
			return 1
		}
	}
	for _, name := range tier2Cities {
		if strings.Contains(lowered, strings.ToLower(name)) {
			return 2
		}
	}
	return 3
}

// Rank returns a new slice ordered by city tier ascending, then memory
// care presence, then effective rating descending. Ties preserve input
// order. A limit <= 0 returns the full ordering; otherwise the result
// is truncated after sorting.
func (s *CommunityRankingService) Rank(records []*entities.Community, limit int) []*entities.Community {
	ranked := make([]*entities.Community, len(records))
	copy(ranked, records)

	// sort.SliceStable keeps equal records in input order, which the
	// directory pages rely on for deterministic rendering.
	sort.SliceStable(ranked, func(i, j int) bool {
		ti, tj := s.CityTier(ranked[i].City), s.CityTier(ranked[j].City)
		if ti != tj {
			return ti < tj
		}

		mi, mj := ranked[i].HasCareType("memory care"), ranked[j].HasCareType("memory care")
		if mi != mj {
			return mi
		}

		return ranked[i].EffectiveRating() > ranked[j].EffectiveRating()
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
