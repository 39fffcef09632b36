package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mcplanning/backend/internal/api/domain"
	"github.com/mcplanning/backend/internal/api/service"
	"github.com/mcplanning/backend/internal/api/store"
	"github.com/mcplanning/backend/pkg/httpx"
	"github.com/mcplanning/backend/pkg/jwtx"
	"github.com/mcplanning/backend/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store             store.Store
	AuthService       *service.AuthService
	InvitationService *service.InvitationService
	EmployeeService   *service.EmployeeService
	PlanningService   *service.PlanningService
	RequestService    *service.RequestService
	AdminService      *service.AdminService
}

func NewRouter(
	verifier jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		logger:       logger,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerInvitations()
	r.registerEmployees()
	r.registerPlanning()
	r.registerRequests()
	r.registerAdmin()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	h := &AuthHandler{AuthService: r.AuthService}

	// Credential endpoints get the strict per-IP limit to slow brute
	// force and token grinding.
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(h.HandleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/signup",
		httpx.Chain(http.HandlerFunc(h.HandleSignup),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/refresh",
		httpx.Chain(http.HandlerFunc(h.HandleRefresh),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)

	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(h.HandleLogout),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("GET /v1/auth/me",
		httpx.Chain(http.HandlerFunc(h.HandleMe),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		),
	)
}

func (r *Router) registerInvitations() {
	h := &InvitationHandler{InvitationService: r.InvitationService}

	// Minting is an admin operation.
	r.Mux.Handle("POST /v1/invitations",
		httpx.Chain(http.HandlerFunc(h.HandleCreate),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole(domain.RoleAdmin),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		),
	)

	// Validation and acceptance are public: the invitee has no account.
	r.Mux.Handle("GET /v1/invitations/validate/{token}",
		httpx.Chain(http.HandlerFunc(h.HandleValidate),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
	r.Mux.Handle("POST /v1/invitations/accept",
		httpx.Chain(http.HandlerFunc(h.HandleAccept),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerEmployees() {
	h := &EmployeeHandler{EmployeeService: r.EmployeeService}

	read := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		)
	}
	adminWrite := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole(domain.RoleAdmin),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/employees", read(h.HandleList))
	r.Mux.Handle("GET /v1/employees/{id}", read(h.HandleGet))
	r.Mux.Handle("POST /v1/employees", adminWrite(h.HandleCreate))
	r.Mux.Handle("PATCH /v1/employees/{id}", adminWrite(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/employees/{id}", adminWrite(h.HandleDelete))
}

func (r *Router) registerPlanning() {
	h := &PlanningHandler{PlanningService: r.PlanningService}

	read := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitBySubject(httpx.LenientLimit),
		)
	}
	adminWrite := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole(domain.RoleAdmin),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/planning", read(h.HandleList))
	r.Mux.Handle("GET /v1/planning/image", read(h.HandleImage))
	r.Mux.Handle("POST /v1/planning", adminWrite(h.HandleCreate))
	r.Mux.Handle("PATCH /v1/planning/{id}", adminWrite(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/planning/{id}", adminWrite(h.HandleDelete))
}

func (r *Router) registerRequests() {
	h := &RequestHandler{RequestService: r.RequestService}

	authed := func(next http.HandlerFunc, limit httpx.RateLimitConfig) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitBySubject(limit),
		)
	}
	adminWrite := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole(domain.RoleAdmin),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("GET /v1/requests", authed(h.HandleList, httpx.LenientLimit))
	r.Mux.Handle("POST /v1/requests", authed(h.HandleCreate, httpx.ModerateLimit))
	r.Mux.Handle("PATCH /v1/requests/{id}", adminWrite(h.HandleUpdate))
	r.Mux.Handle("DELETE /v1/requests/{id}", adminWrite(h.HandleDelete))
}

func (r *Router) registerAdmin() {
	h := &AdminHandler{AdminService: r.AdminService}

	adminOnly := func(next http.HandlerFunc) http.Handler {
		return httpx.Chain(next,
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole(domain.RoleAdmin),
			httpx.RateLimitBySubject(httpx.ModerateLimit),
		)
	}

	r.Mux.Handle("POST /v1/admin/reset-password", adminOnly(h.HandleResetPassword))
	r.Mux.Handle("POST /v1/admin/planning-image", adminOnly(h.HandlePlanningImage))
}

func (r *Router) registerSystem() {
	// Health check endpoints - lenient rate limits (monitoring systems
	// may poll frequently)
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}
