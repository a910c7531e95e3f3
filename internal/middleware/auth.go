package middleware

import (
	"context"
	"net/http"
	"strings"

	"foodhub/internal/common"
	"foodhub/internal/models"
	"foodhub/internal/repositories"

	"github.com/MicahParks/keyfunc/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// NewKeyfunc picks the token verification strategy. With a JWKS URL set,
// tokens are verified against the external identity provider's published
// keys; otherwise the shared HS256 secret is used. The returned method list
// pins the signing algorithms the parser accepts for that mode.
func NewKeyfunc(jwtSecret, jwksURL string) (jwt.Keyfunc, []string, error) {
	if jwksURL != "" {
		jwks, err := keyfunc.Get(jwksURL, keyfunc.Options{})
		if err != nil {
			return nil, nil, err
		}
		return jwks.Keyfunc, []string{"RS256", "ES256"}, nil
	}
	secret := []byte(jwtSecret)
	kf := func(token *jwt.Token) (any, error) {
		return secret, nil
	}
	return kf, []string{"HS256"}, nil
}

// Authenticate validates the bearer token and resolves the principal. The
// user row is loaded on every request so role and suspension checks always
// see current state, matching what the moderation surface just wrote.
func Authenticate(userRepo repositories.UserRepository, kf jwt.Keyfunc, validMethods []string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token format")
			}

			token, err := jwt.Parse(tokenString, kf, jwt.WithValidMethods(validMethods))
			if err != nil || !token.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			sub, err := token.Claims.GetSubject()
			if err != nil || sub == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing subject in token")
			}

			userID, err := uuid.Parse(sub)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid subject format")
			}

			user, err := userRepo.GetByID(c.Request().Context(), userID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "User not found")
			}
			if user.Status == models.UserStatusSuspended {
				return echo.NewHTTPError(http.StatusForbidden, "Account suspended")
			}

			principal := &common.Principal{
				ID:     user.ID,
				Email:  user.Email,
				Role:   user.Role,
				Status: user.Status,
			}
			ctx := context.WithValue(c.Request().Context(), common.PrincipalKey, principal)
			c.SetRequest(c.Request().WithContext(ctx))

			return next(c)
		}
	}
}
