package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/aliramazon/projectify-app-api/pkg/invitetoken"
	"github.com/aliramazon/projectify-app-api/pkg/notification"
	"github.com/aliramazon/projectify-app-api/pkg/password"
	"github.com/aliramazon/projectify-app-api/pkg/session"
	"github.com/aliramazon/projectify-app-api/pkg/teammember"
)

const (
	adminSecret   = "test-admin-secret"
	sessionSecret = "test-session-secret"
)

type testServer struct {
	router    *chi.Mux
	notifier  *notification.MockNotifier
	adminAuth *jwtauth.JWTAuth
}

func newTestServer() *testServer {
	notifier := &notification.MockNotifier{}
	sessionIssuer := session.NewJwtIssuer(sessionSecret, "projectify-test", "projectify-test")

	service := teammember.NewTeamMemberService(
		teammember.NewInMemoryTeamMemberRepository(),
		password.NewBcryptHasher(password.WithCost(bcrypt.MinCost)),
		invitetoken.NewService(),
		notifier,
		sessionIssuer,
	)

	adminAuth := jwtauth.New("HS256", []byte(adminSecret), nil)
	sessionAuth := jwtauth.New("HS256", []byte(sessionSecret), nil)

	router := chi.NewRouter()
	NewHandler(service).RegisterRoutes(router, adminAuth, sessionAuth)

	return &testServer{
		router:    router,
		notifier:  notifier,
		adminAuth: adminAuth,
	}
}

func (s *testServer) adminToken(t *testing.T, adminID uuid.UUID) string {
	t.Helper()
	_, tokenString, err := s.adminAuth.Encode(map[string]interface{}{
		"adminId": adminID.String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	return tokenString
}

func (s *testServer) do(t *testing.T, method, path, bearer string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// lastInviteToken digs the plaintext token out of the most recent invite email
func (s *testServer) lastInviteToken(t *testing.T) string {
	t.Helper()
	require.NotEmpty(t, s.notifier.SentNotifications)

	body := s.notifier.SentNotifications[len(s.notifier.SentNotifications)-1].Body
	_, after, found := strings.Cut(body, "Token: ")
	require.True(t, found, "invite email carries no token")
	return strings.TrimSpace(after)
}

func inviteBody(email string) InviteRequest {
	return InviteRequest{
		FirstName: "Jane",
		LastName:  "Doe",
		Email:     email,
		Position:  "Engineer",
		JoinDate:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestInviteEndpoint(t *testing.T) {
	server := newTestServer()
	adminID := uuid.New()
	token := server.adminToken(t, adminID)

	rec := server.do(t, http.MethodPost, "/team-members/", token, inviteBody("jane@x.com"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp InviteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, teammember.StatusInactive, resp.Data.Status)
	assert.Equal(t, adminID, resp.Data.AdminID)

	assert.Len(t, server.notifier.SentNotifications, 1)
}

func TestInviteEndpointRequiresAdminToken(t *testing.T) {
	server := newTestServer()

	rec := server.do(t, http.MethodPost, "/team-members/", "", inviteBody("jane@x.com"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInviteEndpointValidation(t *testing.T) {
	server := newTestServer()
	token := server.adminToken(t, uuid.New())

	body := inviteBody("jane@x.com")
	body.FirstName = ""

	rec := server.do(t, http.MethodPost, "/team-members/", token, body)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSetupAndLoginFlow(t *testing.T) {
	server := newTestServer()
	adminID := uuid.New()
	adminToken := server.adminToken(t, adminID)

	rec := server.do(t, http.MethodPost, "/team-members/", adminToken, inviteBody("jane@x.com"))
	require.Equal(t, http.StatusCreated, rec.Code)

	inviteToken := server.lastInviteToken(t)

	rec = server.do(t, http.MethodPost, "/team-members/create-password", "", CreatePasswordRequest{
		InviteToken:     inviteToken,
		Password:        "Secret123!",
		PasswordConfirm: "Secret123!",
		Email:           "jane@x.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = server.do(t, http.MethodPost, "/team-members/login", "", LoginRequest{
		Email:    "jane@x.com",
		Password: "Secret123!",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var login LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	// The session credential opens /me
	rec = server.do(t, http.MethodGet, "/team-members/me", login.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me MeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, "teamMember", me.Data.Kind)
	assert.Equal(t, "jane@x.com", me.Data.Email)
}

func TestLoginWrongPassword(t *testing.T) {
	server := newTestServer()
	adminToken := server.adminToken(t, uuid.New())

	rec := server.do(t, http.MethodPost, "/team-members/", adminToken, inviteBody("jane@x.com"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = server.do(t, http.MethodPost, "/team-members/create-password", "", CreatePasswordRequest{
		InviteToken:     server.lastInviteToken(t),
		Password:        "Secret123!",
		PasswordConfirm: "Secret123!",
		Email:           "jane@x.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = server.do(t, http.MethodPost, "/team-members/login", "", LoginRequest{
		Email:    "jane@x.com",
		Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginInactiveReissuesInvite(t *testing.T) {
	server := newTestServer()
	adminToken := server.adminToken(t, uuid.New())

	rec := server.do(t, http.MethodPost, "/team-members/", adminToken, inviteBody("jane@x.com"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = server.do(t, http.MethodPost, "/team-members/login", "", LoginRequest{
		Email:    "jane@x.com",
		Password: "anything",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Len(t, server.notifier.SentNotifications, 2)
}

func TestDeactivateBlocksLogin(t *testing.T) {
	server := newTestServer()
	adminID := uuid.New()
	adminToken := server.adminToken(t, adminID)

	rec := server.do(t, http.MethodPost, "/team-members/", adminToken, inviteBody("jane@x.com"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created InviteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = server.do(t, http.MethodPost, "/team-members/create-password", "", CreatePasswordRequest{
		InviteToken:     server.lastInviteToken(t),
		Password:        "Secret123!",
		PasswordConfirm: "Secret123!",
		Email:           "jane@x.com",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	path := fmt.Sprintf("/team-members/%s/deactivate", created.Data.ID)
	rec = server.do(t, http.MethodPatch, path, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = server.do(t, http.MethodPost, "/team-members/login", "", LoginRequest{
		Email:    "jane@x.com",
		Password: "Secret123!",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	path = fmt.Sprintf("/team-members/%s/reactivate", created.Data.ID)
	rec = server.do(t, http.MethodPatch, path, adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = server.do(t, http.MethodPost, "/team-members/login", "", LoginRequest{
		Email:    "jane@x.com",
		Password: "Secret123!",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRemoveEndpoint(t *testing.T) {
	server := newTestServer()
	adminID := uuid.New()
	adminToken := server.adminToken(t, adminID)

	rec := server.do(t, http.MethodPost, "/team-members/", adminToken, inviteBody("jane@x.com"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created InviteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// A foreign admin is rejected
	foreignToken := server.adminToken(t, uuid.New())
	rec = server.do(t, http.MethodDelete, "/team-members/"+created.Data.ID.String(), foreignToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = server.do(t, http.MethodDelete, "/team-members/"+created.Data.ID.String(), adminToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = server.do(t, http.MethodDelete, "/team-members/"+created.Data.ID.String(), adminToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListEndpointScopedToAdmin(t *testing.T) {
	server := newTestServer()
	adminA := uuid.New()
	adminB := uuid.New()

	rec := server.do(t, http.MethodPost, "/team-members/", server.adminToken(t, adminA), inviteBody("a@x.com"))
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = server.do(t, http.MethodPost, "/team-members/", server.adminToken(t, adminB), inviteBody("b@x.com"))
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = server.do(t, http.MethodGet, "/team-members/", server.adminToken(t, adminA), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "a@x.com", list.Data[0].Email)
}

func TestUpdateProfileEndpoint(t *testing.T) {
	server := newTestServer()
	adminToken := server.adminToken(t, uuid.New())

	rec := server.do(t, http.MethodPost, "/team-members/", adminToken, inviteBody("jane@x.com"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created InviteResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	position := "Staff Engineer"
	rec = server.do(t, http.MethodPatch, "/team-members/"+created.Data.ID.String(), adminToken, UpdateProfileRequest{
		Position: &position,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = server.do(t, http.MethodGet, "/team-members/", adminToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var list ListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Data, 1)
	assert.Equal(t, "Staff Engineer", list.Data[0].Position)
}
