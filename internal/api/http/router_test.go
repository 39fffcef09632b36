package http

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mcplanning/backend/internal/api/service"
	"github.com/mcplanning/backend/internal/api/store/drivers/sqlite"
	"github.com/mcplanning/backend/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	accessSigner, err := jwtx.NewSigner([]byte("access-secret"), "test-issuer", time.Minute)
	require.NoError(t, err)
	refreshSigner, err := jwtx.NewSigner([]byte("refresh-secret"), "test-issuer", time.Hour)
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := NewRouter(accessSigner, "test", st, logger)
	r.AuthService = &service.AuthService{Store: st, AccessSigner: accessSigner, RefreshSigner: refreshSigner}
	r.InvitationService = &service.InvitationService{Store: st, FrontendURL: "http://localhost:3000"}
	r.EmployeeService = &service.EmployeeService{Store: st}
	r.PlanningService = &service.PlanningService{Store: st}
	r.RequestService = &service.RequestService{Store: st}
	r.AdminService = &service.AdminService{Store: st}
	r.ApplyRoutes()
	return r
}

func doJSON(t *testing.T, r *Router, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.RemoteAddr = "10.1.2.3:5678"
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestSignupLoginInvitationFlow(t *testing.T) {
	r := newTestRouter(t)

	// Admin signs up and founds the organization.
	rec := doJSON(t, r, http.MethodPost, "/v1/auth/signup", "", map[string]any{
		"name":             "Boss",
		"email":            "boss@x.com",
		"password":         "pw",
		"role":             "admin",
		"organizationName": "Cafe One",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var signup struct {
		AccessToken      string `json:"accessToken"`
		OrganizationCode string `json:"organizationCode"`
	}
	decodeBody(t, rec, &signup)
	require.NotEmpty(t, signup.AccessToken)
	require.Len(t, signup.OrganizationCode, 6)

	// The admin can see their own profile.
	rec = doJSON(t, r, http.MethodGet, "/v1/auth/me", signup.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var me struct {
		Email   string `json:"email"`
		IsAdmin bool   `json:"isAdmin"`
	}
	decodeBody(t, rec, &me)
	require.Equal(t, "boss@x.com", me.Email)
	require.True(t, me.IsAdmin)

	// Invite a new hire.
	rec = doJSON(t, r, http.MethodPost, "/v1/invitations", signup.AccessToken, map[string]string{
		"email": "hire@x.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var invite struct {
		Token string `json:"token"`
	}
	decodeBody(t, rec, &invite)
	require.NotEmpty(t, invite.Token)

	// Validation is public.
	rec = doJSON(t, r, http.MethodGet, "/v1/invitations/validate/"+invite.Token, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var validation struct {
		Valid            bool   `json:"valid"`
		Email            string `json:"email"`
		OrganizationName string `json:"organizationName"`
	}
	decodeBody(t, rec, &validation)
	require.True(t, validation.Valid)
	require.Equal(t, "hire@x.com", validation.Email)
	require.Equal(t, "Cafe One", validation.OrganizationName)

	// Acceptance creates the account.
	rec = doJSON(t, r, http.MethodPost, "/v1/invitations/accept", "", map[string]string{
		"token":    invite.Token,
		"name":     "New Hire",
		"password": "hire-pw",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Re-acceptance conflicts.
	rec = doJSON(t, r, http.MethodPost, "/v1/invitations/accept", "", map[string]string{
		"token":    invite.Token,
		"name":     "Imposter",
		"password": "other",
	})
	require.Equal(t, http.StatusConflict, rec.Code)

	// The new hire can log in.
	rec = doJSON(t, r, http.MethodPost, "/v1/auth/login", "", map[string]string{
		"email":    "hire@x.com",
		"password": "hire-pw",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var tokens struct {
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	decodeBody(t, rec, &tokens)

	// But cannot mint invitations.
	rec = doJSON(t, r, http.MethodPost, "/v1/invitations", tokens.AccessToken, map[string]string{
		"email": "friend@x.com",
	})
	require.Equal(t, http.StatusForbidden, rec.Code)

	// Refresh rotates; the old refresh token dies.
	rec = doJSON(t, r, http.MethodPost, "/v1/auth/refresh", "", map[string]string{
		"refreshToken": tokens.RefreshToken,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodPost, "/v1/auth/refresh", "", map[string]string{
		"refreshToken": tokens.RefreshToken,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRejectAnonymous(t *testing.T) {
	r := newTestRouter(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/v1/auth/me"},
		{http.MethodGet, "/v1/employees"},
		{http.MethodGet, "/v1/planning"},
		{http.MethodGet, "/v1/requests"},
		{http.MethodPost, "/v1/admin/reset-password"},
	} {
		rec := doJSON(t, r, route.method, route.path, "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code, route.path)
	}
}

func TestHealthEndpoints(t *testing.T) {
	r := newTestRouter(t)

	rec := doJSON(t, r, http.MethodGet, "/livez", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/readyz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var health struct {
		Status string `json:"status"`
	}
	decodeBody(t, rec, &health)
	require.Equal(t, "ok", health.Status)
}
