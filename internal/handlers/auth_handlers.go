package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"foodhub/internal/caching"
	"foodhub/internal/common"
	"foodhub/internal/models"
	"foodhub/internal/repositories"
	"foodhub/internal/services"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxLoginAttempts   = 10
	loginAttemptWindow = 15 * time.Minute
)

// AuthHandlers handles signup, login and token refresh
type AuthHandlers struct {
	userRepo repositories.UserRepository
	authSvc  services.AuthService
	cacheSvc caching.CacheService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(userRepo repositories.UserRepository, authSvc services.AuthService,
	cacheSvc caching.CacheService) *AuthHandlers {
	return &AuthHandlers{
		userRepo: userRepo,
		authSvc:  authSvc,
		cacheSvc: cacheSvc,
	}
}

// Signup handles POST /auth/signup. Everyone signs up as a customer;
// providers switch roles through onboarding.
func (h *AuthHandlers) Signup(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if err := common.ValidateRequiredString(req.Name, "name"); err != nil {
		return common.SendValidationError(c, "name", err.Error())
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := common.ValidateRequiredString(req.Email, "email"); err != nil {
		return common.SendValidationError(c, "email", err.Error())
	}
	if !strings.Contains(req.Email, "@") {
		return common.SendValidationError(c, "email", "email is not valid")
	}
	if err := common.ValidateStringLength(req.Password, "password", 8, 72); err != nil {
		return common.SendValidationError(c, "password", err.Error())
	}

	if _, err := h.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return c.JSON(http.StatusConflict, common.CreateErrorResponse("CONFLICT", "Email already registered", nil))
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return common.RespondError(c, err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return common.RespondError(c, err)
	}

	user := &models.User{
		ID:           uuid.New(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleCustomer,
		Status:       models.UserStatusActive,
	}
	if err := h.userRepo.Create(ctx, user); err != nil {
		return common.RespondError(c, err)
	}

	tokens, err := h.authSvc.GenerateTokens(ctx, user)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusCreated, map[string]any{
		"user":   user,
		"tokens": tokens,
	})
}

// Login handles POST /auth/login
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	// A failed counter skips the limiter rather than blocking logins
	attempts, err := h.cacheSvc.Increment(ctx, "foodhub:login_attempts:"+req.Email, loginAttemptWindow)
	if err == nil && attempts > maxLoginAttempts {
		return c.JSON(http.StatusTooManyRequests,
			common.CreateErrorResponse("RATE_LIMITED", "Too many login attempts, try again later", nil))
	}

	user, err := h.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.SendUnauthorizedError(c)
		}
		return common.RespondError(c, err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return common.SendUnauthorizedError(c)
	}
	if user.Status == models.UserStatusSuspended {
		return c.JSON(http.StatusForbidden, common.CreateErrorResponse("FORBIDDEN", "Account suspended", nil))
	}

	tokens, err := h.authSvc.GenerateTokens(ctx, user)
	if err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user":   user,
		"tokens": tokens,
	})
}

// Refresh handles POST /auth/refresh
func (h *AuthHandlers) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.RefreshToken, "refresh_token"); err != nil {
		return common.SendValidationError(c, "refresh_token", err.Error())
	}

	tokens, err := h.authSvc.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		var notFound *common.NotFoundError
		if errors.As(err, &notFound) {
			return common.SendUnauthorizedError(c)
		}
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusOK, tokens)
}

// Logout handles POST /auth/logout
func (h *AuthHandlers) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if req.RefreshToken != "" {
		if err := h.authSvc.RevokeRefreshToken(ctx, req.RefreshToken); err != nil {
			return common.RespondError(c, err)
		}
	}
	return c.NoContent(http.StatusNoContent)
}
