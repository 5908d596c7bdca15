package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"swiftremind/internal/api/handler/dto"
	"swiftremind/internal/api/middleware"
	"swiftremind/internal/config"
	"swiftremind/internal/domain/user"
	"swiftremind/internal/pkg/apperrors"
)

type AuthHandler struct {
	service user.UserService
	cfg     config.AuthConfig
	logger  *slog.Logger
}

func NewAuthHandler(s user.UserService, cfg config.AuthConfig, l *slog.Logger) *AuthHandler {
	if s == nil {
		panic("user service cannot be nil")
	}
	if l == nil {
		panic("logger cannot be nil")
	}
	return &AuthHandler{
		service: s,
		cfg:     cfg,
		logger:  l.With("component", "AuthHandler"),
	}
}

func (h *AuthHandler) issueToken(u *user.User) (string, error) {
	expiry := h.cfg.TokenExpiry
	if expiry <= 0 {
		expiry = 24 * time.Hour
	}
	now := time.Now()
	claims := middleware.Claims{
		Name:           u.Name,
		Email:          u.Email,
		Role:           string(u.Role),
		OrganisationID: u.OrganisationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(u.UserID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

// Signup handles POST /auth/signup
// @Summary Register a new account
// @Description Creates a user account and returns a signed bearer token for it.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Account details"
// @Success 201 {object} dto.AuthResponse "Account created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 409 {object} dto.ErrorResponse "Email already registered"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req dto.SignupRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	created, err := h.service.Signup(r.Context(), user.SignupInput{
		Name:           req.Name,
		Email:          req.Email,
		Password:       req.Password,
		Role:           req.Role,
		OrganisationID: req.OrganisationID,
	})
	if err != nil {
		h.logger.WarnContext(r.Context(), "Service failed to sign up user", slog.Any("error", err))
		respondError(w, err)
		return
	}

	token, err := h.issueToken(created)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to sign token", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: failed to issue token", apperrors.ErrInternalServer))
		return
	}

	h.logger.InfoContext(r.Context(), "User signed up successfully", slog.Int64("userID", created.UserID))
	respondJSON(w, http.StatusCreated, dto.AuthResponse{Token: token, User: dto.NewUserResponse(created)})
}

// Login handles POST /auth/login
// @Summary Authenticate
// @Description Verifies email and password and returns a signed bearer token.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} dto.AuthResponse "Authenticated"
// @Failure 400 {object} dto.ErrorResponse "Invalid request payload"
// @Failure 401 {object} dto.ErrorResponse "Unknown email or wrong password"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to decode request body", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}
	if err := req.Validate(); err != nil {
		h.logger.WarnContext(r.Context(), "Request validation failed", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: %v", apperrors.ErrInvalidArgument, err))
		return
	}

	account, err := h.service.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Authentication failed", slog.String("email", req.Email))
		respondError(w, err)
		return
	}

	token, err := h.issueToken(account)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to sign token", slog.Any("error", err))
		respondError(w, fmt.Errorf("%w: failed to issue token", apperrors.ErrInternalServer))
		return
	}

	h.logger.InfoContext(r.Context(), "User logged in successfully", slog.Int64("userID", account.UserID))
	respondJSON(w, http.StatusOK, dto.AuthResponse{Token: token, User: dto.NewUserResponse(account)})
}

// Profile handles GET /auth/profile
// @Summary Current account
// @Description Returns the account the bearer token belongs to.
// @Tags Authentication
// @Produce json
// @Success 200 {object} dto.UserResponse "Account details"
// @Failure 401 {object} dto.ErrorResponse "Missing or invalid token"
// @Failure 404 {object} dto.ErrorResponse "Account no longer exists"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /auth/profile [get]
// @Security BearerAuth
func (h *AuthHandler) Profile(w http.ResponseWriter, r *http.Request) {
	viewer, err := requestViewer(r)
	if err != nil {
		respondError(w, err)
		return
	}

	account, err := h.service.GetUser(r.Context(), viewer.UserID)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Failed to load profile", slog.Int64("userID", viewer.UserID), slog.Any("error", err))
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, dto.NewUserResponse(account))
}
