// README: API gateway; holds the wired module services and builds the HTTP handler.
package http

import (
	"net/http"

	"github.com/rs/cors"

	"github.com/cow-planmate/Ai/internal/modules/chat"
	"github.com/cow-planmate/Ai/internal/modules/pricing"
	"github.com/cow-planmate/Ai/internal/modules/recommendation"
	"github.com/cow-planmate/Ai/internal/modules/schedule"
)

// ServerDeps carries the module services. A nil service leaves its routes
// answering 503.
type ServerDeps struct {
	Chat           *chat.Service
	Schedule       *schedule.Service
	Recommendation *recommendation.Service
	Pricing        *pricing.Service

	AllowedOrigins []string
	InternalToken  string
	RateLimitRPS   float64
	RateLimitBurst int
}

type Server struct {
	deps ServerDeps
}

func NewServer(deps ServerDeps) *Server {
	return &Server{deps: deps}
}

// Routes returns the gin engine wrapped in the CORS policy.
func (s *Server) Routes() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   s.deps.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Internal-Token", "X-Request-ID"},
	})
	return c.Handler(NewRouter(s.deps))
}
