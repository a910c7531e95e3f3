package handlers

import (
	"errors"
	"net/http"

	"foodhub/internal/common"
	"foodhub/internal/models"
	"foodhub/internal/repositories"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
)

// ProfileHandlers handles the authenticated user's own profile and provider
// onboarding
type ProfileHandlers struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProviderProfileRepository
}

// NewProfileHandlers creates a new profile handlers instance
func NewProfileHandlers(userRepo repositories.UserRepository, profileRepo repositories.ProviderProfileRepository) *ProfileHandlers {
	return &ProfileHandlers{
		userRepo:    userRepo,
		profileRepo: profileRepo,
	}
}

// Me handles GET /me
func (h *ProfileHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.userRepo.GetByID(ctx, principal.ID)
	if err != nil {
		return common.RespondError(c, err)
	}

	resp := map[string]any{"user": user}
	if user.Role == models.RoleProvider {
		profile, err := h.profileRepo.GetByUserID(ctx, user.ID)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return common.RespondError(c, err)
		}
		if profile != nil {
			resp["provider_profile"] = profile
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// Onboard handles POST /onboarding: a customer becomes a provider by
// creating a provider profile.
func (h *ProfileHandlers) Onboard(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}
	if principal.Role != models.RoleCustomer {
		return c.JSON(http.StatusConflict, common.CreateErrorResponse("CONFLICT", "Account is already onboarded", nil))
	}

	var req struct {
		RestaurantName string  `json:"restaurant_name"`
		CuisineType    string  `json:"cuisine_type"`
		Address        string  `json:"address"`
		CoverImageURL  *string `json:"cover_image_url"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}
	if err := common.ValidateRequiredString(req.RestaurantName, "restaurant_name"); err != nil {
		return common.SendValidationError(c, "restaurant_name", err.Error())
	}
	if err := common.ValidateRequiredString(req.CuisineType, "cuisine_type"); err != nil {
		return common.SendValidationError(c, "cuisine_type", err.Error())
	}
	if err := common.ValidateRequiredString(req.Address, "address"); err != nil {
		return common.SendValidationError(c, "address", err.Error())
	}

	profile := &models.ProviderProfile{
		ID:             uuid.New(),
		UserID:         principal.ID,
		RestaurantName: req.RestaurantName,
		CuisineType:    req.CuisineType,
		Address:        req.Address,
		CoverImageURL:  req.CoverImageURL,
	}
	if err := h.profileRepo.Create(ctx, profile); err != nil {
		return common.RespondError(c, err)
	}
	if err := h.userRepo.UpdateRole(ctx, principal.ID, models.RoleProvider); err != nil {
		return common.RespondError(c, err)
	}

	return c.JSON(http.StatusCreated, profile)
}

// UpdateProviderProfile handles PUT /provider/me/profile
func (h *ProfileHandlers) UpdateProviderProfile(c echo.Context) error {
	ctx := c.Request().Context()

	principal, ok := common.GetPrincipal(c)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	profile, err := h.profileRepo.GetByUserID(ctx, principal.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return common.RespondError(c, &common.NotFoundError{Resource: "provider profile"})
		}
		return common.RespondError(c, err)
	}

	var req struct {
		RestaurantName *string `json:"restaurant_name"`
		CuisineType    *string `json:"cuisine_type"`
		Address        *string `json:"address"`
		CoverImageURL  *string `json:"cover_image_url"`
	}
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if req.RestaurantName != nil {
		if err := common.ValidateRequiredString(*req.RestaurantName, "restaurant_name"); err != nil {
			return common.SendValidationError(c, "restaurant_name", err.Error())
		}
		profile.RestaurantName = *req.RestaurantName
	}
	if req.CuisineType != nil {
		profile.CuisineType = *req.CuisineType
	}
	if req.Address != nil {
		profile.Address = *req.Address
	}
	if req.CoverImageURL != nil {
		profile.CoverImageURL = req.CoverImageURL
	}

	if err := h.profileRepo.Update(ctx, profile); err != nil {
		return common.RespondError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}
