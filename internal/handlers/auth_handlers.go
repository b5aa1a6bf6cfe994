package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"societyhub/internal/caching"
	"societyhub/internal/common"
	"societyhub/internal/models"
	"societyhub/internal/repositories"
	"societyhub/internal/services"

	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// Login attempts per email are capped so credential stuffing cannot hammer
// bcrypt; the counter lives in Redis and resets after the window.
const (
	loginAttemptLimit  = 10
	loginAttemptWindow = time.Minute
)

// AuthHandlers handles authentication-related HTTP requests
type AuthHandlers struct {
	authService services.AuthService
	userRepo    repositories.UserRepository
	cacheSvc    caching.CacheService
}

// NewAuthHandlers creates a new auth handlers instance
func NewAuthHandlers(authService services.AuthService, userRepo repositories.UserRepository, cacheSvc caching.CacheService) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		userRepo:    userRepo,
		cacheSvc:    cacheSvc,
	}
}

// LoginRequest represents the login request payload
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse pairs the issued tokens with the authenticated user
type LoginResponse struct {
	models.TokenResponse
	User *models.User `json:"user"`
}

// Login handles user login with email and password
func (h *AuthHandlers) Login(c echo.Context) error {
	ctx := c.Request().Context()

	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if req.Email == "" || req.Password == "" {
		return common.SendClientError(c, "Email and password are required")
	}

	email := common.NormalizeEmail(req.Email)

	limited, err := h.cacheSvc.IsRateLimited(ctx, "login:"+email, loginAttemptLimit, loginAttemptWindow)
	if err != nil {
		// Redis being down must not lock everyone out
		log.Printf("WARN: login rate limit check failed: %v", err)
	} else if limited {
		return c.JSON(http.StatusTooManyRequests, common.CreateErrorResponse("RATE_LIMITED", "Too many login attempts, try again later", nil))
	}

	user, err := h.userRepo.GetByEmail(ctx, email)
	if err != nil || user == nil {
		// Same response for unknown email and wrong password
		return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("UNAUTHORIZED", "Invalid email or password", nil))
	}

	// Deactivated accounts are rejected before the password is even checked
	if !user.Active {
		return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("UNAUTHORIZED", "Account is inactive", nil))
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("UNAUTHORIZED", "Invalid email or password", nil))
	}

	tokens, err := h.authService.GenerateTokens(ctx, user.ID, user.Role)
	if err != nil {
		log.Printf("Failed to generate tokens for user %s: %v", user.ID, err)
		return common.SendServerError(c, "Failed to generate tokens")
	}

	return c.JSON(http.StatusOK, LoginResponse{
		TokenResponse: *tokens,
		User:          user,
	})
}

// RefreshRequest represents the token refresh request payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh rotates a refresh token into a new token pair
func (h *AuthHandlers) Refresh(c echo.Context) error {
	ctx := c.Request().Context()

	var req RefreshRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	if req.RefreshToken == "" {
		return common.SendClientError(c, "Refresh token is required")
	}

	tokens, err := h.authService.RefreshTokens(ctx, req.RefreshToken)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, common.CreateErrorResponse("UNAUTHORIZED", "Invalid or expired refresh token", nil))
	}

	return c.JSON(http.StatusOK, tokens)
}

// LogoutRequest represents the logout request payload
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout revokes the caller's access token and, when supplied, the refresh token
func (h *AuthHandlers) Logout(c echo.Context) error {
	ctx := c.Request().Context()

	if _, ok := common.GetUserIDFromContext(ctx); !ok {
		return common.SendUnauthorizedError(c)
	}

	authHeader := c.Request().Header.Get("Authorization")
	if authHeader == "" {
		return common.SendClientError(c, "Authorization header missing")
	}
	accessToken := strings.TrimPrefix(authHeader, "Bearer ")

	var req LogoutRequest
	if err := c.Bind(&req); err != nil {
		// Body is optional for logout
		req.RefreshToken = ""
	}

	if err := h.authService.RevokeTokens(ctx, accessToken, req.RefreshToken); err != nil {
		return common.SendServerError(c, "Failed to revoke tokens")
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Logged out successfully",
	})
}

// Me returns the authenticated user's profile
func (h *AuthHandlers) Me(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c)
	}

	user, err := h.userRepo.GetByID(ctx, userID)
	if err != nil {
		return common.SendNotFoundError(c, "User")
	}

	return c.JSON(http.StatusOK, user)
}
