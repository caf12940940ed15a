package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"main/domain/entity"
	metrics "main/internal/metrics"
	"main/internal/storage"
	"main/pkg/customerrors"
	"main/pkg/hasher"
	"main/pkg/token"

	"github.com/google/uuid"
)

// Error messages. Unknown email and wrong password deliberately share one
// text so a caller cannot probe which accounts exist.
const (
	msgInvalidCredentials = "Invalid credentials"
	msgAccountDisabled    = "User account is disabled"
	msgSessionNotFound    = "Session not found"
	msgSessionExpired     = "Session expired"
)

const (
	defaultIPAddress = "unknown"
	defaultUserAgent = "unknown"
	minPasswordLen   = 8
)

type UserRepo interface {
	Create(ctx context.Context, user entity.User) (entity.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (entity.User, error)
	FindByEmail(ctx context.Context, email string) (entity.User, error)
	Update(ctx context.Context, user entity.User) (entity.User, error)
}

type SessionRepo interface {
	Create(ctx context.Context, session entity.Session) (entity.Session, error)
	FindByID(ctx context.Context, id uuid.UUID) (entity.Session, error)
	FindByToken(ctx context.Context, token string) (entity.Session, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindByUserID(ctx context.Context, userID uuid.UUID) ([]entity.Session, error)
}

// UserInfo is the projection of a user returned to callers. It never carries
// the password hash.
type UserInfo struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	SessionID uuid.UUID `json:"sessionId"`
	Token     string    `json:"token"`
	User      UserInfo  `json:"user"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthUsecase holds all business rules: registration, login, logout, session
// validation, and bulk logout. Repositories are injected at construction; the
// usecase owns no global state.
type AuthUsecase struct {
	users      UserRepo
	sessions   SessionRepo
	hasher     *hasher.Hasher
	tokens     *token.Generator
	sessionTTL time.Duration
	logger     *slog.Logger
	metrics    *metrics.Metrics
}

func NewAuthUsecase(
	users UserRepo,
	sessions SessionRepo,
	hasher *hasher.Hasher,
	tokens *token.Generator,
	sessionTTL time.Duration,
	logger *slog.Logger,
	m *metrics.Metrics,
) *AuthUsecase {
	return &AuthUsecase{
		users:      users,
		sessions:   sessions,
		hasher:     hasher,
		tokens:     tokens,
		sessionTTL: sessionTTL,
		logger:     logger,
		metrics:    m,
	}
}

// RegisterUser creates a new account. The stored credential is the encoded
// password, never the plaintext.
func (u *AuthUsecase) RegisterUser(ctx context.Context, email, password, confirmPassword string) (UserInfo, error) {
	if email == "" || password == "" {
		return UserInfo{}, customerrors.NewValidation("Email and password are required")
	}
	if !strings.Contains(email, "@") {
		return UserInfo{}, customerrors.NewValidation("Invalid email format")
	}
	if len(password) < minPasswordLen {
		return UserInfo{}, customerrors.NewValidation(fmt.Sprintf("Password must be at least %d characters", minPasswordLen))
	}
	if password != confirmPassword {
		return UserInfo{}, customerrors.NewValidation("Passwords do not match")
	}

	now := time.Now()
	user, err := u.users.Create(ctx, entity.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: u.hasher.Hash(password),
		CreatedAt:    now,
		UpdatedAt:    now,
		IsActive:     true,
	})
	if err != nil {
		if errors.Is(err, storage.ErrEmailTaken) {
			return UserInfo{}, customerrors.NewValidation("Email already registered")
		}
		return UserInfo{}, err
	}

	u.logger.Info("user registered", slog.String("user_id", user.ID.String()))
	return UserInfo{ID: user.ID, Email: user.Email}, nil
}

// Login runs a single deterministic pass over input validation, user lookup,
// password check, and account-state check, then issues a session. Every
// successful call creates exactly one new session; concurrent sessions per
// user are unlimited.
func (u *AuthUsecase) Login(ctx context.Context, email, password, ipAddress, userAgent string) (LoginResult, error) {
	res, err := u.login(ctx, email, password, ipAddress, userAgent)

	status := "success"
	if err != nil {
		status = "failure"
	}
	u.metrics.LoginAttempts.WithLabelValues(status).Inc()

	return res, err
}

func (u *AuthUsecase) login(ctx context.Context, email, password, ipAddress, userAgent string) (LoginResult, error) {
	if email == "" || password == "" {
		return LoginResult{}, customerrors.NewValidation("Email and password are required")
	}
	if !strings.Contains(email, "@") {
		return LoginResult{}, customerrors.NewValidation("Invalid email format")
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return LoginResult{}, customerrors.NewAuthentication(msgInvalidCredentials)
		}
		return LoginResult{}, err
	}

	if !u.hasher.Compare(password, user.PasswordHash) {
		u.logger.Debug("password mismatch", slog.String("user_id", user.ID.String()))
		return LoginResult{}, customerrors.NewAuthentication(msgInvalidCredentials)
	}

	// Checked only after the credentials are confirmed valid, with a more
	// specific message than the credential-mismatch case.
	if !user.IsActive {
		return LoginResult{}, customerrors.NewAuthentication(msgAccountDisabled)
	}

	if ipAddress == "" {
		ipAddress = defaultIPAddress
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	session, err := u.sessions.Create(ctx, entity.Session{
		UserID:    user.ID,
		Token:     u.tokens.Generate(user.ID.String()),
		ExpiresAt: time.Now().Add(u.sessionTTL),
		IPAddress: ipAddress,
		UserAgent: userAgent,
	})
	if err != nil {
		return LoginResult{}, err
	}

	u.logger.Info("login successful",
		slog.String("user_id", user.ID.String()),
		slog.String("session_id", session.ID.String()),
	)

	return LoginResult{
		SessionID: session.ID,
		Token:     session.Token,
		User:      UserInfo{ID: user.ID, Email: user.Email},
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Logout deletes a single session by id. A second call with the same id
// reports NotFound, not success.
func (u *AuthUsecase) Logout(ctx context.Context, sessionID string) (string, error) {
	if sessionID == "" {
		return "", customerrors.NewValidation("Session ID is required")
	}

	id, err := uuid.Parse(sessionID)
	if err != nil {
		return "", customerrors.NewNotFound(msgSessionNotFound)
	}

	session, err := u.sessions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return "", customerrors.NewNotFound(msgSessionNotFound)
		}
		return "", err
	}

	if err := u.sessions.Delete(ctx, session.ID); err != nil {
		return "", err
	}

	u.logger.Info("logout", slog.String("session_id", session.ID.String()))
	return "Logged out successfully", nil
}

// ValidateSession resolves a bearer token to its owning user id. An expired
// session is deleted here as a side effect; expiry is reaped lazily, only on
// access, never by a background task.
func (u *AuthUsecase) ValidateSession(ctx context.Context, tokenStr string) (uuid.UUID, error) {
	if tokenStr == "" {
		return uuid.Nil, customerrors.NewValidation("Token is required")
	}

	session, err := u.sessions.FindByToken(ctx, tokenStr)
	if err != nil {
		if errors.Is(err, storage.ErrSessionNotFound) {
			return uuid.Nil, customerrors.NewAuthentication(msgSessionNotFound)
		}
		return uuid.Nil, err
	}

	if time.Now().After(session.ExpiresAt) {
		if err := u.sessions.Delete(ctx, session.ID); err != nil {
			return uuid.Nil, err
		}
		u.logger.Debug("expired session reaped", slog.String("session_id", session.ID.String()))
		return uuid.Nil, customerrors.NewAuthentication(msgSessionExpired)
	}

	return session.UserID, nil
}

// LogoutAllSessions deletes every session belonging to userID and reports
// the count. Zero sessions is a vacuous success, not an error.
func (u *AuthUsecase) LogoutAllSessions(ctx context.Context, userID uuid.UUID) (string, error) {
	sessions, err := u.sessions.FindByUserID(ctx, userID)
	if err != nil {
		return "", err
	}

	for _, s := range sessions {
		if err := u.sessions.Delete(ctx, s.ID); err != nil {
			return "", err
		}
	}

	u.logger.Info("bulk logout",
		slog.String("user_id", userID.String()),
		slog.Int("sessions", len(sessions)),
	)
	return fmt.Sprintf("Logged out from %d session(s)", len(sessions)), nil
}

// GetProfile validates the token and returns the owning user record. The
// delivery layer projects the fields it exposes.
func (u *AuthUsecase) GetProfile(ctx context.Context, tokenStr string) (entity.User, error) {
	userID, err := u.ValidateSession(ctx, tokenStr)
	if err != nil {
		return entity.User{}, err
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return entity.User{}, customerrors.NewNotFound("User not found")
		}
		return entity.User{}, err
	}
	return user, nil
}
