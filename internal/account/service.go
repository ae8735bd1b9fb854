// Package account provides the credential lifecycle: registration,
// login, password reset/change and account deletion.
package account

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"tastyoulu/api/internal/store"
)

const idAssignAttempts = 3

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// UserStore defines the storage interface for accounts
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (store.User, error)
	MaxUserID(ctx context.Context) (int64, error)
	InsertUser(ctx context.Context, user store.User) error
	UpdateUserPassword(ctx context.Context, email, passwordHash string) error
	DeleteUserByEmail(ctx context.Context, email string) error
}

// Mailer sends account-related notification mail.
type Mailer interface {
	IsConfigured() bool
	Send(to []string, subject, body string) error
}

type Service struct {
	store  UserStore
	mailer Mailer
	log    *logrus.Logger
}

func NewService(userStore UserStore, mailer Mailer, log *logrus.Logger) *Service {
	return &Service{store: userStore, mailer: mailer, log: log}
}

// RegisterRequest contains registration parameters
type RegisterRequest struct {
	Username string
	Email    string
	Password string
}

// Register creates a new user account. The user id is the current
// maximum plus one; the unique index backstops concurrent registration,
// and a collision is retried with a fresh max read.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (store.User, error) {
	username := strings.TrimSpace(req.Username)
	email := strings.TrimSpace(req.Email)
	if username == "" || email == "" || req.Password == "" {
		return store.User{}, errors.New("username, email, and password are required")
	}

	if _, err := s.store.GetUserByEmail(ctx, email); err == nil {
		return store.User{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return store.User{}, fmt.Errorf("lookup email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return store.User{}, fmt.Errorf("hash password: %w", err)
	}

	var user store.User
	for attempt := 0; attempt < idAssignAttempts; attempt++ {
		maxID, err := s.store.MaxUserID(ctx)
		if err != nil {
			return store.User{}, err
		}
		user = store.User{
			UserID:       maxID + 1,
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
			Avatar:       "https://api.dicebear.com/7.x/pixel-art/png?seed=" + username,
		}
		err = s.store.InsertUser(ctx, user)
		if err == nil {
			return user, nil
		}
		if errors.Is(err, store.ErrDuplicateID) {
			s.log.WithField("user_id", user.UserID).Warn("user id collision, retrying with fresh max")
			continue
		}
		return store.User{}, err
	}
	return store.User{}, store.ErrDuplicateID
}

// Login authenticates by email and password.
func (s *Service) Login(ctx context.Context, email, password string) (store.User, error) {
	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.User{}, ErrInvalidCredentials
		}
		return store.User{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return store.User{}, ErrInvalidCredentials
	}
	return user, nil
}

// ResetPassword replaces the password with a random one and mails it
// to the account's address. The mail must go out: without it the new
// password is lost, so a send failure fails the whole operation.
func (s *Service) ResetPassword(ctx context.Context, email string) error {
	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return err
	}

	raw := make([]byte, 10)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("generate password: %w", err)
	}
	newPassword := base64.StdEncoding.EncodeToString(raw)

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdateUserPassword(ctx, user.Email, string(hash)); err != nil {
		return err
	}

	if !s.mailer.IsConfigured() {
		return errors.New("email not configured")
	}
	body := fmt.Sprintf("Your new password is: %s\nUse it to login.", newPassword)
	if err := s.mailer.Send([]string{user.Email}, "Password has been reset.", body); err != nil {
		return fmt.Errorf("send reset mail: %w", err)
	}
	return nil
}

// ChangePassword verifies the old password before replacing it.
func (s *Service) ChangePassword(ctx context.Context, email, oldPassword, newPassword string) error {
	user, err := s.store.GetUserByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.store.UpdateUserPassword(ctx, user.Email, string(hash)); err != nil {
		return err
	}

	if s.mailer.IsConfigured() {
		if err := s.mailer.Send([]string{user.Email}, "Password Changed", "Your password has been successfully changed."); err != nil {
			s.log.WithError(err).Warn("password-changed mail failed")
		}
	}
	return nil
}

// DeleteAccount hard-deletes the user document. Content the user
// authored is intentionally left in place.
func (s *Service) DeleteAccount(ctx context.Context, email string) error {
	return s.store.DeleteUserByEmail(ctx, strings.TrimSpace(email))
}
