package authHandler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"main/domain/entity"
	auth "main/internal/usecase/auth"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	AuthUsecase AuthUsecase
}

type AuthUsecase interface {

	//RegisterUser registers a new user and returns its public projection.
	RegisterUser(ctx context.Context, email, password, confirmPassword string) (auth.UserInfo, error)

	//Login authenticates a user and issues a new session.
	Login(ctx context.Context, email, password, ipAddress, userAgent string) (auth.LoginResult, error)

	//Logout destroys one session by id.
	Logout(ctx context.Context, sessionID string) (message string, err error)

	//ValidateSession resolves a bearer token to the owning user id.
	ValidateSession(ctx context.Context, token string) (uuid.UUID, error)

	//LogoutAllSessions destroys every session belonging to a user.
	LogoutAllSessions(ctx context.Context, userID uuid.UUID) (message string, err error)

	//GetProfile resolves a bearer token to the owning user record.
	GetProfile(ctx context.Context, token string) (entity.User, error)
}

func NewAuthHandler(authUsecase AuthUsecase) *AuthHandler {
	return &AuthHandler{AuthUsecase: authUsecase}
}

// DTOs
type RegisterRequest struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ProfileResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	user, err := h.AuthUsecase.RegisterUser(c.Request().Context(), req.Email, req.Password, req.ConfirmPassword)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]any{
		"message": "User registered successfully",
		"user":    user,
	})
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	res, err := h.AuthUsecase.Login(c.Request().Context(), req.Email, req.Password, c.RealIP(), c.Request().UserAgent())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, res)
}

func (h *AuthHandler) Logout(c echo.Context) error {
	sessionID := c.Request().Header.Get("X-Session-Id")
	message, err := h.AuthUsecase.Logout(c.Request().Context(), sessionID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": message})
}

func (h *AuthHandler) Validate(c echo.Context) error {
	// An absent or malformed header yields an empty token, which the
	// usecase reports as a validation failure.
	userID, err := h.AuthUsecase.ValidateSession(c.Request().Context(), bearerToken(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"valid": true, "userId": userID.String()})
}

func (h *AuthHandler) Profile(c echo.Context) error {
	token := bearerToken(c)
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	user, err := h.AuthUsecase.GetProfile(c.Request().Context(), token)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ProfileResponse{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	})
}

func (h *AuthHandler) LogoutAll(c echo.Context) error {
	userID, ok := c.Get("userID").(uuid.UUID)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "Unauthorized")
	}
	message, err := h.AuthUsecase.LogoutAllSessions(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]any{"success": true, "message": message})
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}
