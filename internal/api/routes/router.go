package routes

import (
	"net/http"

	"github.com/guideforseniors/backend/internal/api/handlers"
	"github.com/guideforseniors/backend/internal/api/middleware"
	"github.com/guideforseniors/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	communityHandler *handlers.CommunityHandler
	eventHandler     *handlers.EventHandler
	inquiryHandler   *handlers.InquiryHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	communityHandler *handlers.CommunityHandler,
	eventHandler *handlers.EventHandler,
	inquiryHandler *handlers.InquiryHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:              http.NewServeMux(),
		communityHandler: communityHandler,
		eventHandler:     eventHandler,
		inquiryHandler:   inquiryHandler,
		metrics:          metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Community endpoints
	r.mux.HandleFunc("GET /api/communities", r.communityHandler.ListCommunities)
	r.mux.HandleFunc("GET /api/communities/featured", r.communityHandler.GetFeaturedCommunities)
	r.mux.HandleFunc("GET /api/communities/search", r.communityHandler.SearchCommunities)
	r.mux.HandleFunc("GET /api/communities/{id}", r.communityHandler.GetCommunity)
	r.mux.HandleFunc("GET /api/cities/{city}/stats", r.communityHandler.GetCityStats)

	// Event endpoints
	r.mux.HandleFunc("GET /api/events/upcoming", r.eventHandler.GetUpcomingEvents)

	// Inquiry endpoints
	r.mux.HandleFunc("POST /api/inquiries", r.inquiryHandler.SubmitInquiry)

	// Middleware applies in reverse order; CORS is outermost so every
	// response carries its headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
