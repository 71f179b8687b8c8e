// Package auth resolves credentials into authenticated users and owns the
// password-recovery flow. Password and Google validation both re-fetch
// the user with role and permissions loaded because the caller
// immediately snapshots them into a session token.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dariomolina/intranet-auth/apperr"
	"github.com/dariomolina/intranet-auth/mail"
	"github.com/dariomolina/intranet-auth/models"
	"github.com/dariomolina/intranet-auth/store"
	"github.com/dariomolina/intranet-auth/token"
)

type Service struct {
	users    store.UserStore
	roles    store.RoleStore
	issuer   *token.Issuer
	mailer   mail.Mailer
	logger   *slog.Logger
	resetTTL time.Duration
}

func NewService(users store.UserStore, roles store.RoleStore, issuer *token.Issuer, mailer mail.Mailer, logger *slog.Logger, resetTTL time.Duration) *Service {
	return &Service{
		users:    users,
		roles:    roles,
		issuer:   issuer,
		mailer:   mailer,
		logger:   logger,
		resetTTL: resetTTL,
	}
}

// UserView is the public-facing shape of a signed-in user. Password and
// recovery fields never appear here.
type UserView struct {
	ID              uint     `json:"id"`
	Email           string   `json:"email"`
	Role            *string  `json:"role"`
	Permissions     []string `json:"permissions"`
	Name            string   `json:"name"`
	ProfileComplete bool     `json:"profileComplete"`
}

// LoginResponse is returned by every flow that ends in a session.
type LoginResponse struct {
	Token        string   `json:"token"`
	RefreshToken string   `json:"refreshToken"`
	User         UserView `json:"user"`
}

// ValidateByPassword checks email+password against the store. A missing
// user, a federated-only account or a wrong password all return
// (nil, nil): a failed match is a predictable outcome, not a fault, and
// the caller responds uniformly without learning which part was wrong.
func (s *Service) ValidateByPassword(email, password string) (*models.User, error) {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if user.Password == nil {
		return nil, nil
	}
	if bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(password)) != nil {
		return nil, nil
	}

	user.Password = nil
	return user, nil
}

// Login issues the session and refresh tokens for a validated user.
func (s *Service) Login(user *models.User) (*LoginResponse, error) {
	accessToken, err := s.issuer.Issue(user)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.issuer.IssueRefresh(user)
	if err != nil {
		return nil, err
	}

	view := UserView{
		ID:              user.ID,
		Email:           user.Email,
		Permissions:     user.PermissionNames(),
		Name:            user.Name,
		ProfileComplete: user.ProfileComplete,
	}
	if user.Role != nil {
		name := user.Role.Name
		view.Role = &name
	}

	return &LoginResponse{
		Token:        accessToken,
		RefreshToken: refreshToken,
		User:         view,
	}, nil
}

// Register creates a password account with the default employee role and
// signs it in. The role is resolved by name at call time; when it does
// not exist the account is created roleless.
func (s *Service) Register(email, password, name string) (*LoginResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashed := string(hash)

	user := models.User{
		Email:    email,
		Password: &hashed,
		Name:     name,
	}
	if role, err := s.roles.FindByName(models.RoleEmpleado); err == nil {
		user.RoleID = &role.ID
	}

	if err := s.users.Create(&user); err != nil {
		return nil, err
	}

	full, err := s.users.FindByID(user.ID)
	if err != nil {
		return nil, err
	}
	return s.Login(full)
}

// GoogleLogin signs in a federated identity the upstream provider already
// verified. Unknown emails become new employee accounts without a
// password; known ones get their name and Google id refreshed in place.
func (s *Service) GoogleLogin(email, name, googleID string) (*LoginResponse, error) {
	if email == "" {
		return nil, apperr.Unauthenticated("Email is required")
	}

	existing, err := s.users.FindByEmail(email)
	if err != nil && !apperr.IsNotFound(err) {
		return nil, err
	}

	if existing == nil {
		user := models.User{
			Email:    email,
			Name:     name,
			GoogleID: &googleID,
		}
		if role, err := s.roles.FindByName(models.RoleEmpleado); err == nil {
			user.RoleID = &role.ID
		}
		if err := s.users.Create(&user); err != nil {
			return nil, err
		}
	} else {
		existing.Name = name
		existing.GoogleID = &googleID
		if err := s.users.Save(existing); err != nil {
			return nil, err
		}
	}

	user, err := s.users.FindByEmail(email)
	if err != nil {
		return nil, err
	}
	return s.Login(user)
}

// Refresh verifies a refresh token and mints a new access token from the
// user's current role and permissions.
func (s *Service) Refresh(refreshToken string) (string, error) {
	snap, err := s.issuer.Verify(refreshToken)
	if err != nil {
		return "", err
	}

	user, err := s.users.FindByID(snap.UserID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return "", apperr.Unauthenticated("Invalid refresh token")
		}
		return "", err
	}
	return s.issuer.Issue(user)
}

// Me returns the public view plus profile fields for the signed-in user.
func (s *Service) Me(userID uint) (*models.User, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, apperr.Unauthenticated("User not found")
		}
		return nil, err
	}
	user.Password = nil
	return user, nil
}

// RequestReset stores a fresh recovery token on the account and hands it
// to the mailer. Unknown emails are a BadRequest and never reach the
// mailer.
func (s *Service) RequestReset(email string) error {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.BadRequest("This email is not registered")
		}
		return err
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return err
	}
	resetToken := hex.EncodeToString(buf)
	expiry := time.Now().Add(s.resetTTL)

	user.ResetToken = &resetToken
	user.ResetTokenExpiry = &expiry
	if err := s.users.Save(user); err != nil {
		return err
	}

	if err := s.mailer.SendPasswordReset(email, resetToken); err != nil {
		s.logger.Error("failed to send password reset email", "error", err)
		return err
	}
	return nil
}

// RedeemReset exchanges a valid recovery token for a new password and
// clears the token so it can never succeed twice.
func (s *Service) RedeemReset(resetToken, newPassword string) error {
	user, err := s.users.FindByResetToken(resetToken)
	if err != nil {
		if apperr.IsNotFound(err) {
			return apperr.BadRequest("Invalid or expired token")
		}
		return err
	}
	if user.ResetTokenExpiry == nil || user.ResetTokenExpiry.Before(time.Now()) {
		return apperr.BadRequest("Invalid or expired token")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	hashed := string(hash)

	user.Password = &hashed
	user.ResetToken = nil
	user.ResetTokenExpiry = nil
	return s.users.Save(user)
}
