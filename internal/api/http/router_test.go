package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/soporteit/support-desk/internal/api/http/handlers"
	"github.com/soporteit/support-desk/internal/auth"
	"github.com/soporteit/support-desk/internal/config"
	"github.com/soporteit/support-desk/internal/events"
	"github.com/soporteit/support-desk/internal/observability"
	"github.com/soporteit/support-desk/internal/repository"
	"github.com/soporteit/support-desk/internal/repository/memory"
	"github.com/soporteit/support-desk/internal/service"
	"github.com/soporteit/support-desk/internal/whatsapp"
)

const (
	cookieName    = "desk_session"
	adminPassword = "adminpass"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type testServer struct {
	app   *fiber.App
	repos repository.Set
	users *service.UserService
}

func newTestServer(t *testing.T, intakeMax int) *testServer {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()
	repos := memory.NewSet()
	authCfg := config.AuthConfig{
		SessionTTLHours: 24,
		BcryptCost:      bcrypt.MinCost,
		AdminUsername:   "admin",
		AdminPassword:   adminPassword,
		CookieName:      cookieName,
	}

	dispatcher := events.NewAsyncDispatcher(logger)
	t.Cleanup(dispatcher.Close)
	sessions := auth.NewMemorySessionStore()
	tokens := auth.NewTokenManager("test-secret")
	policy, err := auth.NewPolicy()
	require.NoError(t, err)
	metrics := observability.NewMetrics("test")

	catalog := service.NewCatalogService(repos.Catalog, logger)
	_, err = catalog.SeedDefaults(ctx)
	require.NoError(t, err)
	_, err = service.NewCredentialMigrator(repos.Users, authCfg, logger).Run(ctx)
	require.NoError(t, err)

	tickets := service.NewTicketService(service.TicketDependencies{
		TicketRepo:  repos.Tickets,
		CatalogRepo: repos.Catalog,
		Dispatcher:  dispatcher,
		Codes:       service.NewCodeGenerator(),
		Metrics:     metrics,
		Logger:      logger,
	})
	wa := service.NewWhatsAppService(repos.Tickets, repos.Contacts, whatsapp.NewLinkBuilder("ES", "624620893"))
	users := service.NewUserService(repos.Users, bcrypt.MinCost)
	authService := service.NewAuthService(authCfg, service.AuthDependencies{
		UserRepo: repos.Users,
		Sessions: sessions,
		Tokens:   tokens,
		Logger:   logger,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 0)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("support-desk", "test", nil, nil),
		Tickets:        handlers.NewTicketsHandler(tickets, wa),
		Notes:          handlers.NewNotesHandler(service.NewNoteService(repos.Tickets, repos.Notes)),
		Hours:          handlers.NewHoursHandler(service.NewWorkHoursService(repos.Tickets, repos.WorkHours)),
		WhatsApp:       handlers.NewWhatsAppHandler(wa),
		Services:       handlers.NewServicesHandler(catalog),
		Users:          handlers.NewUsersHandler(users),
		Session:        handlers.NewSessionHandler(authService, handlers.CookieSettings{Name: cookieName}),
		AuthMiddleware: auth.NewAuthMiddleware(tokens, sessions, cookieName).WithAccounts(repos.Users),
		Policy:         policy,
		IntakeLimiter:  NewIntakeLimiter(config.RateLimitConfig{IntakeMax: intakeMax, IntakeWindowSeconds: 60}, nil),
		Metrics:        metrics,
	})

	return &testServer{app: app, repos: repos, users: users}
}

func (s *testServer) do(t *testing.T, method, path string, body any, setup func(*nethttp.Request)) (*nethttp.Response, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if setup != nil {
		setup(req)
	}

	resp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	var env envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp, env
}

func bearer(token string) func(*nethttp.Request) {
	return func(req *nethttp.Request) {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
}

func (s *testServer) login(t *testing.T, username, password string) (string, *nethttp.Response) {
	t.Helper()
	resp, env := s.do(t, fiber.MethodPost, "/login", map[string]string{"username": username, "password": password}, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.NotEmpty(t, data.Token)
	return data.Token, resp
}

func (s *testServer) createTicket(t *testing.T) string {
	t.Helper()
	resp, env := s.do(t, fiber.MethodPost, "/tickets", intakeBody(), nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var data struct {
		TicketID string `json:"ticket_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.TicketID
}

func intakeBody() map[string]string {
	return map[string]string{
		"name":        "Ana",
		"email":       "ana@x.com",
		"phone":       "600111222",
		"service":     "reparacion",
		"description": "no enciende",
	}
}

func TestTicketIntakeIsPublic(t *testing.T) {
	s := newTestServer(t, 0)

	resp, env := s.do(t, fiber.MethodPost, "/tickets", intakeBody(), nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var data struct {
		TicketID    string `json:"ticket_id"`
		Status      string `json:"status"`
		WhatsAppURL string `json:"whatsapp_url"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Regexp(t, regexp.MustCompile(`^TKT-[0-9A-Z]+-[0-9A-Z]{4}$`), data.TicketID)
	assert.Equal(t, "pendiente", data.Status)
	assert.Contains(t, data.WhatsAppURL, "https://wa.me/34624620893?text=")
	assert.NotEmpty(t, resp.Header.Get(observability.RequestIDHeader))
}

func TestTicketIntakeValidation(t *testing.T) {
	s := newTestServer(t, 0)
	body := intakeBody()
	delete(body, "email")

	resp, env := s.do(t, fiber.MethodPost, "/tickets", body, nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_FAILED", env.Error.Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	s := newTestServer(t, 0)

	for _, path := range []string{"/tickets", "/services", "/users", "/hours/by-technician"} {
		resp, env := s.do(t, fiber.MethodGet, path, nil, nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode, path)
		require.NotNil(t, env.Error, path)
		assert.Equal(t, "UNAUTHORIZED", env.Error.Code, path)
	}
}

func TestLoginSessionTransport(t *testing.T) {
	s := newTestServer(t, 0)
	token, resp := s.login(t, "admin", adminPassword)

	var cookie *nethttp.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == cookieName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	t.Run("cookie", func(t *testing.T) {
		resp, _ := s.do(t, fiber.MethodGet, "/tickets", nil, func(req *nethttp.Request) {
			req.AddCookie(&nethttp.Cookie{Name: cookieName, Value: cookie.Value})
		})
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("bearer", func(t *testing.T) {
		resp, _ := s.do(t, fiber.MethodGet, "/tickets", nil, bearer(token))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("session then logout", func(t *testing.T) {
		_, env := s.do(t, fiber.MethodGet, "/session", nil, bearer(token))
		var state struct {
			Authenticated bool `json:"authenticated"`
			User          struct {
				Role string `json:"role"`
			} `json:"user"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &state))
		assert.True(t, state.Authenticated)
		assert.Equal(t, "admin", state.User.Role)

		resp, _ := s.do(t, fiber.MethodPost, "/logout", nil, bearer(token))
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)

		resp, _ = s.do(t, fiber.MethodGet, "/tickets", nil, bearer(token))
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t, 0)
	resp, env := s.do(t, fiber.MethodPost, "/login", map[string]string{"username": "admin", "password": "nope"}, nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
	assert.Empty(t, resp.Cookies())
}

func TestTechnicianForbiddenOnAdminRoutes(t *testing.T) {
	s := newTestServer(t, 0)
	_, err := s.users.CreateUser(context.Background(), service.UserCreateInput{Username: "luis", Password: "secreto1", FullName: "Luis"})
	require.NoError(t, err)
	code := s.createTicket(t)
	token, _ := s.login(t, "luis", "secreto1")

	resp, _ := s.do(t, fiber.MethodGet, "/tickets", nil, bearer(token))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	resp, _ = s.do(t, fiber.MethodPatch, "/tickets/"+code+"/status", map[string]string{"status": "en_proceso"}, bearer(token))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	forbidden := []struct {
		method string
		path   string
		body   any
	}{
		{fiber.MethodGet, "/tickets/archived", nil},
		{fiber.MethodDelete, "/tickets/" + code, nil},
		{fiber.MethodPost, "/tickets/" + code + "/restore", nil},
		{fiber.MethodDelete, "/tickets/" + code + "/permanent", nil},
		{fiber.MethodDelete, "/notes/1", nil},
		{fiber.MethodDelete, "/hours/1", nil},
		{fiber.MethodPost, "/services", map[string]string{"code": "x", "name": "X"}},
		{fiber.MethodPost, "/users", map[string]string{"username": "eva", "password": "secreto1", "full_name": "Eva"}},
		{fiber.MethodDelete, "/users/1", nil},
	}
	for _, tc := range forbidden {
		resp, env := s.do(t, tc.method, tc.path, tc.body, bearer(token))
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, "%s %s", tc.method, tc.path)
		require.NotNil(t, env.Error)
		assert.Equal(t, "FORBIDDEN", env.Error.Code)
	}

	ticket, err := s.repos.Tickets.GetByCode(context.Background(), code)
	require.NoError(t, err)
	assert.False(t, ticket.Archived)
}

func TestAdminArchiveRestoreOverHTTP(t *testing.T) {
	s := newTestServer(t, 0)
	code := s.createTicket(t)
	token, _ := s.login(t, "admin", adminPassword)

	resp, _ := s.do(t, fiber.MethodDelete, "/tickets/"+code, nil, bearer(token))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, env := s.do(t, fiber.MethodGet, "/tickets/archived", nil, bearer(token))
	var archived []struct {
		TicketID string `json:"ticket_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &archived))
	require.Len(t, archived, 1)
	assert.Equal(t, code, archived[0].TicketID)

	resp, _ = s.do(t, fiber.MethodPost, "/tickets/"+code+"/restore", nil, bearer(token))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	_, env = s.do(t, fiber.MethodGet, "/tickets", nil, bearer(token))
	var active []struct {
		TicketID string `json:"ticket_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &active))
	require.Len(t, active, 1)
	assert.Equal(t, code, active[0].TicketID)
}

func TestSelfDeleteForbidden(t *testing.T) {
	s := newTestServer(t, 0)
	admin, err := s.repos.Users.GetByUsername(context.Background(), "admin")
	require.NoError(t, err)
	token, _ := s.login(t, "admin", adminPassword)

	resp, env := s.do(t, fiber.MethodDelete, fmt.Sprintf("/users/%d", admin.ID), nil, bearer(token))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	_, err = s.repos.Users.GetByID(context.Background(), admin.ID)
	assert.NoError(t, err)
}

func TestInvalidStatusRejected(t *testing.T) {
	s := newTestServer(t, 0)
	code := s.createTicket(t)
	token, _ := s.login(t, "admin", adminPassword)

	resp, env := s.do(t, fiber.MethodPatch, "/tickets/"+code+"/status", map[string]string{"status": "bogus"}, bearer(token))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "INVALID_STATE", env.Error.Code)

	ticket, err := s.repos.Tickets.GetByCode(context.Background(), code)
	require.NoError(t, err)
	assert.Equal(t, "pendiente", string(ticket.Status))
}

func TestUnknownTicketNotFound(t *testing.T) {
	s := newTestServer(t, 0)
	token, _ := s.login(t, "admin", adminPassword)

	resp, env := s.do(t, fiber.MethodGet, "/tickets/TKT-NOPE-0000", nil, bearer(token))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}

func TestIntakeRateLimited(t *testing.T) {
	s := newTestServer(t, 2)

	for i := 0; i < 2; i++ {
		resp, _ := s.do(t, fiber.MethodPost, "/tickets", intakeBody(), nil)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	}
	resp, env := s.do(t, fiber.MethodPost, "/tickets", intakeBody(), nil)
	assert.Equal(t, fiber.StatusTooManyRequests, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "RATE_LIMITED", env.Error.Code)
}

func TestHealthAndMetricsArePublic(t *testing.T) {
	s := newTestServer(t, 0)

	resp, _ := s.do(t, fiber.MethodGet, "/health/live", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, _ = s.do(t, fiber.MethodGet, "/health/ready", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(fiber.MethodGet, "/metrics", nil)
	mresp, err := s.app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(mresp.Body)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, mresp.StatusCode)
	assert.Contains(t, string(raw), "test_http_requests_total")
}

func TestDeactivatedAccountLosesSession(t *testing.T) {
	s := newTestServer(t, 0)
	ctx := context.Background()
	luis, err := s.users.CreateUser(ctx, service.UserCreateInput{Username: "luis", Password: "secreto1", FullName: "Luis"})
	require.NoError(t, err)
	token, _ := s.login(t, "luis", "secreto1")

	resp, _ := s.do(t, fiber.MethodGet, "/tickets", nil, bearer(token))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	inactive := false
	_, err = s.users.UpdateUser(ctx, luis.ID, service.UserPatch{Active: &inactive})
	require.NoError(t, err)

	resp, env := s.do(t, fiber.MethodGet, "/tickets", nil, bearer(token))
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	require.NotNil(t, env.Error)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	_, env = s.do(t, fiber.MethodGet, "/session", nil, bearer(token))
	var state struct {
		Authenticated bool `json:"authenticated"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.False(t, state.Authenticated)
}

func TestDemotedAdminLosesAdminRoutes(t *testing.T) {
	s := newTestServer(t, 0)
	ctx := context.Background()
	eva, err := s.users.CreateUser(ctx, service.UserCreateInput{Username: "eva", Password: "secreto1", FullName: "Eva", Role: "admin"})
	require.NoError(t, err)
	token, _ := s.login(t, "eva", "secreto1")

	resp, _ := s.do(t, fiber.MethodGet, "/tickets/archived", nil, bearer(token))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	role := "tecnico"
	_, err = s.users.UpdateUser(ctx, eva.ID, service.UserPatch{Role: &role})
	require.NoError(t, err)

	for _, path := range []string{"/tickets/archived", "/users"} {
		method := fiber.MethodGet
		var body any
		if path == "/users" {
			method = fiber.MethodPost
			body = map[string]string{"username": "otro", "password": "secreto1", "full_name": "Otro"}
		}
		resp, env := s.do(t, method, path, body, bearer(token))
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode, path)
		require.NotNil(t, env.Error, path)
		assert.Equal(t, "FORBIDDEN", env.Error.Code, path)
	}
}

func TestArchivedNotesListedForAdminsOnly(t *testing.T) {
	s := newTestServer(t, 0)
	_, err := s.users.CreateUser(context.Background(), service.UserCreateInput{Username: "luis", Password: "secreto1", FullName: "Luis"})
	require.NoError(t, err)
	code := s.createTicket(t)
	admin, _ := s.login(t, "admin", adminPassword)
	tech, _ := s.login(t, "luis", "secreto1")

	resp, env := s.do(t, fiber.MethodPost, "/tickets/"+code+"/notes", map[string]string{"note": "llamar"}, bearer(admin))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	var note struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &note))
	resp, _ = s.do(t, fiber.MethodDelete, fmt.Sprintf("/notes/%d", note.ID), nil, bearer(admin))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	count := func(token string) int {
		_, env := s.do(t, fiber.MethodGet, "/tickets/"+code+"/notes?archived=true", nil, bearer(token))
		var items []json.RawMessage
		require.NoError(t, json.Unmarshal(env.Data, &items))
		return len(items)
	}
	assert.Equal(t, 1, count(admin))
	assert.Equal(t, 0, count(tech))
}
