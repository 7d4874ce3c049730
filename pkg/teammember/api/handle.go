package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	errs "github.com/aliramazon/projectify-app-api/pkg/errors"
	"github.com/aliramazon/projectify-app-api/pkg/teammember"
)

// Handler exposes the team member lifecycle over HTTP
type Handler struct {
	service *teammember.TeamMemberService
}

// NewHandler creates a new team member API handler
func NewHandler(service *teammember.TeamMemberService) *Handler {
	return &Handler{
		service: service,
	}
}

// RegisterRoutes mounts the team member routes. Admin routes require an
// admin JWT; /me requires a team member session credential; setup and login
// are public.
func (h *Handler) RegisterRoutes(r chi.Router, adminAuth, sessionAuth *jwtauth.JWTAuth) {
	r.Route("/team-members", func(r chi.Router) {
		// Public: invited members completing setup, and login
		r.Post("/create-password", h.CreatePassword)
		r.Post("/login", h.Login)

		// Team member session required
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(sessionAuth))
			r.Use(jwtauth.Authenticator(sessionAuth))
			r.Get("/me", h.Me)
		})

		// Admin token required
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(adminAuth))
			r.Use(jwtauth.Authenticator(adminAuth))
			r.Post("/", h.Invite)
			r.Get("/", h.List)
			r.Patch("/{id}", h.UpdateProfile)
			r.Patch("/{id}/deactivate", h.Deactivate)
			r.Patch("/{id}/reactivate", h.Reactivate)
			r.Delete("/{id}", h.Remove)
		})
	})
}

// Invite handles POST /team-members
func (h *Handler) Invite(w http.ResponseWriter, r *http.Request) {
	adminID, err := adminIDFromContext(r)
	if err != nil {
		renderUnauthorized(w, r, err)
		return
	}

	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderBadRequest(w, r, "invalid request body")
		return
	}

	info, err := h.service.Invite(r.Context(), adminID, teammember.CreateTeamMemberParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Position:  req.Position,
		JoinDate:  req.JoinDate,
	})
	if err != nil {
		renderDomainError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, InviteResponse{Data: info})
}

// CreatePassword handles POST /team-members/create-password
func (h *Handler) CreatePassword(w http.ResponseWriter, r *http.Request) {
	var req CreatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderBadRequest(w, r, "invalid request body")
		return
	}

	err := h.service.CompleteSetup(r.Context(), req.InviteToken, req.Password, req.PasswordConfirm, req.Email)
	if err != nil {
		renderDomainError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: "password created, you can now log in"})
}

// Login handles POST /team-members/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderBadRequest(w, r, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		renderBadRequest(w, r, "email and password are required")
		return
	}

	credential, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		renderDomainError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, LoginResponse{Token: credential})
}

// List handles GET /team-members
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	adminID, err := adminIDFromContext(r)
	if err != nil {
		renderUnauthorized(w, r, err)
		return
	}

	infos, err := h.service.ListForAdmin(r.Context(), adminID)
	if err != nil {
		renderDomainError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, ListResponse{Data: infos})
}

// Me handles GET /team-members/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	teamMemberID, err := teamMemberIDFromContext(r)
	if err != nil {
		renderUnauthorized(w, r, err)
		return
	}

	self, err := h.service.GetSelf(r.Context(), teamMemberID)
	if err != nil {
		renderDomainError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, MeResponse{Data: self})
}

// UpdateProfile handles PATCH /team-members/{id}
func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	adminID, err := adminIDFromContext(r)
	if err != nil {
		renderUnauthorized(w, r, err)
		return
	}

	teamMemberID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderBadRequest(w, r, "invalid team member id")
		return
	}

	var req UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderBadRequest(w, r, "invalid request body")
		return
	}

	err = h.service.UpdateProfile(r.Context(), adminID, teamMemberID, teammember.ProfilePatch{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Position:  req.Position,
		JoinDate:  req.JoinDate,
	})
	if err != nil {
		renderDomainError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: "profile updated"})
}

// Deactivate handles PATCH /team-members/{id}/deactivate
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, teammember.StatusDeactivated)
}

// Reactivate handles PATCH /team-members/{id}/reactivate
func (h *Handler) Reactivate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, teammember.StatusActive)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, status teammember.Status) {
	adminID, err := adminIDFromContext(r)
	if err != nil {
		renderUnauthorized(w, r, err)
		return
	}

	teamMemberID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderBadRequest(w, r, "invalid team member id")
		return
	}

	err = h.service.SetStatus(r.Context(), adminID, teamMemberID, status)
	if err != nil {
		renderDomainError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: "status updated"})
}

// Remove handles DELETE /team-members/{id}
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	adminID, err := adminIDFromContext(r)
	if err != nil {
		renderUnauthorized(w, r, err)
		return
	}

	teamMemberID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		renderBadRequest(w, r, "invalid team member id")
		return
	}

	err = h.service.Remove(r.Context(), adminID, teamMemberID)
	if err != nil {
		renderDomainError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, MessageResponse{Message: "team member deleted"})
}

// renderDomainError maps a domain error to its HTTP status. Structured error
// messages are safe to return; anything else is reported as a server error.
func renderDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status := errs.HTTPStatus(err)
	message := "internal server error"

	var domainErr *errs.Error
	if errors.As(err, &domainErr) && status < http.StatusInternalServerError {
		message = domainErr.Message
	}
	if status >= http.StatusInternalServerError {
		slog.Error("Request failed", "path", r.URL.Path, "err", err)
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: message})
}

func renderBadRequest(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusBadRequest)
	render.JSON(w, r, ErrorResponse{Error: message})
}

func renderUnauthorized(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("Failed to resolve principal from token", "err", err)
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, ErrorResponse{Error: "unauthorized"})
}

// adminIDFromContext extracts the admin identity from the verified JWT
func adminIDFromContext(r *http.Request) (uuid.UUID, error) {
	return claimUUID(r, "adminId")
}

// teamMemberIDFromContext extracts the team member identity from the
// verified session credential
func teamMemberIDFromContext(r *http.Request) (uuid.UUID, error) {
	return claimUUID(r, "teamMember")
}

func claimUUID(r *http.Request, claim string) (uuid.UUID, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return uuid.Nil, err
	}

	raw, ok := claims[claim].(string)
	if !ok || raw == "" {
		return uuid.Nil, errors.New(claim + " not found in token claims")
	}

	return uuid.Parse(raw)
}
