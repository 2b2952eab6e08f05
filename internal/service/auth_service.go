package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/inkwelldev/inkwell/internal/audit"
	"github.com/inkwelldev/inkwell/internal/models"
	"github.com/inkwelldev/inkwell/internal/repository"
	"github.com/inkwelldev/inkwell/internal/session"
	"github.com/inkwelldev/inkwell/internal/utils"
	"github.com/inkwelldev/inkwell/pkg/logger"
	"go.uber.org/zap"
)

var (
	// ErrDuplicateUser deliberately does not say whether the username or
	// the email collided. The log records which; the user-facing message
	// stays generic to avoid account enumeration.
	ErrDuplicateUser = errors.New("username or email unavailable")

	// ErrInvalidCredentials covers both unknown email and wrong password.
	// Callers surface one message for both.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrInvalidRole  = errors.New("unknown role")
	ErrUserNotFound = errors.New("user not found")

	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ValidationError marks an input problem whose text is safe to show to
// the end user. Anything else that comes out of a service is an
// infrastructure failure and gets a generic message at the boundary.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

type AuthService struct {
	userRepo *repository.UserRepository
	sessions *session.Manager
	trail    *audit.Trail
}

func NewAuthService(userRepo *repository.UserRepository, sessions *session.Manager, trail *audit.Trail) *AuthService {
	return &AuthService{
		userRepo: userRepo,
		sessions: sessions,
		trail:    trail,
	}
}

// Register creates a new account with the default role and starts a
// session for it. The user and its empty profile are written in one
// transaction; if either insert fails nothing is committed. The database
// unique indexes are the final authority on duplicates, so two racing
// registrations for the same email cannot both succeed.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*models.User, string, error) {
	start := time.Now()

	logger.Log.Debug("Processing user registration",
		zap.String("username", username),
		zap.String("email", email),
	)

	if err := s.validateRegisterInput(username, email, password); err != nil {
		logger.Log.Warn("Registration validation failed",
			zap.String("username", username),
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}

	// Pre-check for duplicates to give a fast answer on the common case.
	// This check alone is not race-safe; the insert below still relies on
	// the unique indexes.
	existingUser, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		logger.Log.Error("Failed to check email existence",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}
	if existingUser != nil {
		logger.Log.Warn("Registration rejected: email already exists",
			zap.String("email", email),
		)
		return nil, "", ErrDuplicateUser
	}

	existingUser, err = s.userRepo.GetUserByUsername(username)
	if err != nil {
		logger.Log.Error("Failed to check username existence",
			zap.String("username", username),
			zap.Error(err),
		)
		return nil, "", err
	}
	if existingUser != nil {
		logger.Log.Warn("Registration rejected: username already exists",
			zap.String("username", username),
		)
		return nil, "", ErrDuplicateUser
	}

	hashStart := time.Now()
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		logger.Log.Error("Failed to hash password",
			zap.Error(err),
		)
		return nil, "", err
	}
	hashDuration := time.Since(hashStart)

	user := &models.User{
		ID:           uuid.New(),
		Username:     username,
		Email:        email,
		PasswordHash: hashedPassword,
		Role:         models.RoleUser, // Default role
	}

	if err := s.userRepo.CreateUserWithProfile(user, &models.Profile{ID: uuid.New()}); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// Lost the race against a concurrent registration.
			logger.Log.Warn("Registration rejected: unique constraint",
				zap.String("username", username),
				zap.String("email", email),
			)
			return nil, "", ErrDuplicateUser
		}
		logger.Log.Error("Failed to create user in database",
			zap.String("username", username),
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}

	token, err := s.sessions.Issue(ctx, user)
	if err != nil {
		logger.Log.Error("Failed to issue session",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, "", err
	}

	s.record(audit.Entry{
		Event:  audit.EventRegister,
		UserID: user.ID.String(),
		Email:  email,
	})

	logger.Log.Info("User registered successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("username", username),
		zap.String("email", email),
		zap.Duration("hash_duration", hashDuration),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, token, nil
}

// Login verifies the credentials and starts a session. An unknown email
// and a wrong password both come back as ErrInvalidCredentials; nothing
// in the return value distinguishes them.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	start := time.Now()

	logger.Log.Debug("Processing user login",
		zap.String("email", email),
	)

	user, err := s.userRepo.GetUserByEmail(email)
	if err != nil {
		logger.Log.Error("Failed to get user by email",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, "", err
	}
	if user == nil {
		logger.Log.Warn("Login failed: user not found",
			zap.String("email", email),
		)
		s.record(audit.Entry{Event: audit.EventLoginFailed, Email: email, Detail: "unknown email"})
		return nil, "", ErrInvalidCredentials
	}

	verifyStart := time.Now()
	valid, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		// A malformed stored hash is a mismatch from the caller's point
		// of view. Log it; never surface it.
		logger.Log.Error("Failed to verify password",
			zap.String("email", email),
			zap.Error(err),
		)
		valid = false
	}
	verifyDuration := time.Since(verifyStart)

	if !valid {
		logger.Log.Warn("Login failed: invalid password",
			zap.String("email", email),
			zap.String("user_id", user.ID.String()),
		)
		s.record(audit.Entry{Event: audit.EventLoginFailed, UserID: user.ID.String(), Email: email, Detail: "bad password"})
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.sessions.Issue(ctx, user)
	if err != nil {
		logger.Log.Error("Failed to issue session",
			zap.String("user_id", user.ID.String()),
			zap.Error(err),
		)
		return nil, "", err
	}

	s.record(audit.Entry{Event: audit.EventLoginOK, UserID: user.ID.String(), Email: email})

	logger.Log.Info("User logged in successfully",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.Duration("password_verify_duration", verifyDuration),
		zap.Duration("total_duration", time.Since(start)),
	)

	return user, token, nil
}

// Logout revokes the session named by the token. Logging out without an
// active session is a no-op.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil && !errors.Is(err, session.ErrNoSession) {
		return err
	}

	if err := s.sessions.Revoke(ctx, token); err != nil {
		logger.Log.Error("Failed to revoke session",
			zap.Error(err),
		)
		return err
	}

	if userID != uuid.Nil {
		s.record(audit.Entry{Event: audit.EventLogout, UserID: userID.String()})
		logger.Log.Info("User logged out",
			zap.String("user_id", userID.String()),
		)
	}

	return nil
}

// CurrentUser resolves the token to its user record. A session whose user
// no longer exists resolves to no session at all, so a stale token heals
// to anonymous instead of erroring forever.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// The account went away under a live session. Drop the session.
		_ = s.sessions.Revoke(ctx, token)
		logger.Log.Warn("Stale session for deleted user",
			zap.String("user_id", userID.String()),
		)
		return nil, session.ErrNoSession
	}

	return user, nil
}

// GetAllUsers returns all users (including soft-deleted ones)
func (s *AuthService) GetAllUsers() ([]*models.User, error) {
	logger.Log.Debug("Fetching all users (including deleted)")

	users, err := s.userRepo.GetAllUsers()
	if err != nil {
		logger.Log.Error("Failed to fetch all users",
			zap.Error(err),
		)
		return nil, err
	}

	logger.Log.Info("Fetched all users",
		zap.Int("count", len(users)),
	)

	return users, nil
}

// SetRole changes a user's role. Only values from the closed role set are
// accepted.
func (s *AuthService) SetRole(userID, adminID string, role models.Role) error {
	if !role.Valid() {
		return ErrInvalidRole
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return errors.New("invalid user ID format")
	}

	user, err := s.userRepo.GetUserByID(uid)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := s.userRepo.UpdateRole(uid, role); err != nil {
		logger.Log.Error("Failed to update role",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return err
	}

	s.record(audit.Entry{
		Event:  audit.EventRoleChange,
		UserID: userID,
		Detail: string(user.Role) + " -> " + string(role) + " by " + adminID,
	})

	logger.Log.Info("User role changed",
		zap.String("user_id", userID),
		zap.String("admin_id", adminID),
		zap.String("role", string(role)),
	)

	return nil
}

// BanUser soft deletes a user. Their sessions stop resolving on the next
// request because CurrentUser no longer finds the record.
func (s *AuthService) BanUser(userID, adminID, reason string) error {
	logger.Log.Info("Banning user",
		zap.String("user_id", userID),
		zap.String("admin_id", adminID),
		zap.String("reason", reason),
	)

	uid, err := uuid.Parse(userID)
	if err != nil {
		logger.Log.Warn("Invalid user ID format",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return errors.New("invalid user ID format")
	}

	if err := s.userRepo.SoftDeleteUser(uid); err != nil {
		logger.Log.Error("Failed to ban user",
			zap.String("user_id", userID),
			zap.Error(err),
		)
		return err
	}

	s.record(audit.Entry{
		Event:  audit.EventUserDisabled,
		UserID: userID,
		Detail: "banned by " + adminID + ": " + reason,
	})

	return nil
}

// record writes an audit entry best-effort. The trail is advisory; a
// write failure is logged but never fails the operation that produced it.
func (s *AuthService) record(entry audit.Entry) {
	if s.trail == nil {
		return
	}
	if err := s.trail.Record(entry); err != nil {
		logger.Log.Error("Failed to write audit entry",
			zap.String("event", entry.Event),
			zap.Error(err),
		)
	}
}

func (s *AuthService) validateRegisterInput(username, email, password string) error {
	// Username validation
	if len(username) < 3 {
		return &ValidationError{Reason: "username must be at least 3 characters"}
	}
	if len(username) > 50 {
		return &ValidationError{Reason: "username must be at most 50 characters"}
	}

	// Email validation (regex)
	if !emailRegex.MatchString(email) {
		return &ValidationError{Reason: "invalid email format"}
	}
	if len(email) > 100 {
		return &ValidationError{Reason: "email too long"}
	}

	// Password validation
	if len(password) < 8 {
		return &ValidationError{Reason: "password must be at least 8 characters"}
	}
	if len(password) > 128 {
		return &ValidationError{Reason: "password too long"}
	}

	return nil
}
