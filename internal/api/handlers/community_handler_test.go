package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/guideforseniors/backend/internal/api/handlers"
	"github.com/guideforseniors/backend/internal/application/services"
	"github.com/guideforseniors/backend/internal/domain/entities"
	"github.com/guideforseniors/backend/internal/domain/repositories"
	apperrors "github.com/guideforseniors/backend/pkg/errors"
)

type MockCommunityRepository struct {
	mock.Mock
}

func (m *MockCommunityRepository) GetByID(ctx context.Context, id string) (*entities.Community, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Community), args.Error(1)
}

func (m *MockCommunityRepository) List(ctx context.Context, filter repositories.CommunityFilter) ([]*entities.Community, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Community), args.Error(1)
}

func (m *MockCommunityRepository) ListByCity(ctx context.Context, city string) ([]*entities.Community, error) {
	args := m.Called(ctx, city)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Community), args.Error(1)
}

func (m *MockCommunityRepository) CountByCity(ctx context.Context, city string) (int, error) {
	args := m.Called(ctx, city)
	return args.Int(0), args.Error(1)
}

func newTestHandler(repo repositories.CommunityRepository) *handlers.CommunityHandler {
	return handlers.NewCommunityHandler(
		repo,
		nil,
		services.NewCommunityQualityService(),
		services.NewCommunityRankingService(),
	)
}

func serveCommunityRequest(handler *handlers.CommunityHandler, target string) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/communities", handler.ListCommunities)
	mux.HandleFunc("GET /api/communities/featured", handler.GetFeaturedCommunities)
	mux.HandleFunc("GET /api/communities/{id}", handler.GetCommunity)
	mux.HandleFunc("GET /api/cities/{city}/stats", handler.GetCityStats)

	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, target, nil))
	return recorder
}

func readyCommunity(id, name, city string, rating float64) *entities.Community {
	c := &entities.Community{
		ID:            id,
		Name:          name,
		City:          city,
		State:         "OH",
		Description:   strings.Repeat("A welcoming community. ", 5),
		Images:        []string{"https://cdn.example.com/photo.jpg"},
		Services:      "Assisted Living, Memory Care",
		OverallRating: &rating,
	}
	c.NormalizeCareTypes()
	return c
}

func TestCommunityHandler_GetCommunity(t *testing.T) {
	repo := new(MockCommunityRepository)
	expected := readyCommunity("c-1", "Westlake Commons", "Westlake", 4.5)
	repo.On("GetByID", mock.Anything, "c-1").Return(expected, nil)

	recorder := serveCommunityRequest(newTestHandler(repo), "/api/communities/c-1")

	assert.Equal(t, http.StatusOK, recorder.Code)

	var got entities.Community
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &got))
	assert.Equal(t, "Westlake Commons", got.Name)
	repo.AssertExpectations(t)
}

func TestCommunityHandler_GetCommunity_NotFound(t *testing.T) {
	repo := new(MockCommunityRepository)
	repo.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.NewNotFoundError("community with id missing not found"))

	recorder := serveCommunityRequest(newTestHandler(repo), "/api/communities/missing")

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	repo.AssertExpectations(t)
}

func TestCommunityHandler_ListCommunities_CityAppliesQualityFilter(t *testing.T) {
	repo := new(MockCommunityRepository)
	incomplete := &entities.Community{ID: "c-2", Name: "Thin Record", City: "Parma", Description: "Too short"}
	repo.On("ListByCity", mock.Anything, "Parma").Return([]*entities.Community{
		readyCommunity("c-1", "Parma Gardens", "Parma", 4.0),
		incomplete,
	}, nil)

	recorder := serveCommunityRequest(newTestHandler(repo), "/api/communities?city=Parma")

	assert.Equal(t, http.StatusOK, recorder.Code)

	var resp struct {
		Communities []*entities.Community `json:"communities"`
		Count       int                   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "Parma Gardens", resp.Communities[0].Name)
	repo.AssertExpectations(t)
}

func TestCommunityHandler_ListCommunities_IncludeIncomplete(t *testing.T) {
	repo := new(MockCommunityRepository)
	incomplete := &entities.Community{ID: "c-2", Name: "Thin Record", City: "Parma", Description: "Too short"}
	repo.On("ListByCity", mock.Anything, "Parma").Return([]*entities.Community{
		readyCommunity("c-1", "Parma Gardens", "Parma", 4.0),
		incomplete,
	}, nil)

	recorder := serveCommunityRequest(newTestHandler(repo), "/api/communities?city=Parma&include_incomplete=true")

	assert.Equal(t, http.StatusOK, recorder.Code)

	var resp struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Count)
	repo.AssertExpectations(t)
}

func TestCommunityHandler_GetFeaturedCommunities_RanksByTier(t *testing.T) {
	repo := new(MockCommunityRepository)
	repo.On("List", mock.Anything, repositories.CommunityFilter{}).Return([]*entities.Community{
		readyCommunity("c-1", "Columbus Villa", "Columbus", 5.0),
		readyCommunity("c-2", "Westlake Commons", "Westlake", 3.5),
		readyCommunity("c-3", "Parma Gardens", "Parma", 4.8),
	}, nil)

	recorder := serveCommunityRequest(newTestHandler(repo), "/api/communities/featured?limit=2")

	assert.Equal(t, http.StatusOK, recorder.Code)

	var resp struct {
		Communities []*entities.Community `json:"communities"`
		Count       int                   `json:"count"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	require.Equal(t, 2, resp.Count)
	assert.Equal(t, "c-2", resp.Communities[0].ID)
	assert.Equal(t, "c-3", resp.Communities[1].ID)
	repo.AssertExpectations(t)
}

func TestCommunityHandler_GetCityStats(t *testing.T) {
	repo := new(MockCommunityRepository)
	repo.On("CountByCity", mock.Anything, "Beachwood").Return(9, nil)

	recorder := serveCommunityRequest(newTestHandler(repo), "/api/cities/Beachwood/stats")

	assert.Equal(t, http.StatusOK, recorder.Code)

	var resp struct {
		City  string `json:"city"`
		Count int    `json:"count"`
		Tier  int    `json:"tier"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &resp))
	assert.Equal(t, 9, resp.Count)
	assert.Equal(t, 1, resp.Tier)
	repo.AssertExpectations(t)
}
