package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkravets/auth-service/internal/apperror"
	"github.com/mkravets/auth-service/internal/events"
	"github.com/mkravets/auth-service/internal/hash"
	"github.com/mkravets/auth-service/internal/logging"
	"github.com/mkravets/auth-service/internal/mail"
	"github.com/mkravets/auth-service/internal/models"
	"github.com/mkravets/auth-service/internal/repo"
	"github.com/mkravets/auth-service/internal/token"
	"github.com/mkravets/auth-service/internal/transport"
)

// UsersService orchestrates registration, login, logout, refresh and
// activation over the user directory, token service and mail sender.
type UsersService struct {
	Repo     *repo.GormRepo
	Tokens   *token.Service
	Mail     mail.Sender
	Producer events.Publisher
	APIURL   string
}

// Registration creates an inactive user, mails the activation link and
// opens a session. The user record survives a failed mail dispatch: the
// error is surfaced, but the account stays and can be logged into and
// activated once the letter finally arrives.
func (s *UsersService) Registration(ctx context.Context, email, password string) (*transport.AuthResponse, error) {
	l := logging.FromContext(ctx).With("svc", "users.registration")

	candidate, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if candidate != nil {
		return nil, apperror.BadRequest(fmt.Sprintf("User with email %s already exists", email))
	}

	passwordHash, err := hash.HashPassword(password)
	if err != nil {
		return nil, err
	}
	activationLink := uuid.NewString()

	user := models.User{
		Email:          email,
		PasswordHash:   passwordHash,
		ActivationLink: activationLink,
	}
	if err := s.Repo.CreateUser(ctx, &user); err != nil {
		return nil, err
	}

	if err := s.Mail.SendActivationMail(email, fmt.Sprintf("%s/api/activate/%s", s.APIURL, activationLink)); err != nil {
		l.Error("activation mail failed", "email", email, "error", err)
		return nil, err
	}

	res, err := s.issueSession(ctx, &user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "user_registered", &user)
	l.Info("user registered", "user_id", user.ID)

	return res, nil
}

func (s *UsersService) Login(ctx context.Context, email, password string) (*transport.AuthResponse, error) {
	l := logging.FromContext(ctx).With("svc", "users.login")

	user, err := s.Repo.UserByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.BadRequest("User not found")
	}

	if !hash.CheckPassword(user.PasswordHash, password) {
		return nil, apperror.BadRequest("Incorrect password")
	}

	res, err := s.issueSession(ctx, user)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, "user_logged_in", user)
	l.Info("user logged in", "user_id", user.ID)

	return res, nil
}

// Logout drops the stored refresh token. Unknown tokens are a no-op.
func (s *UsersService) Logout(ctx context.Context, refreshToken string) error {
	return s.Tokens.Remove(ctx, refreshToken)
}

// Refresh exchanges a live refresh token for a fresh pair. The token
// must both verify against the refresh secret and still be the stored
// one: a rotated or logged-out token passes the first check and fails
// the second.
func (s *UsersService) Refresh(ctx context.Context, refreshToken string) (*transport.AuthResponse, error) {
	if refreshToken == "" {
		return nil, apperror.Unauthorized()
	}

	claims, err := s.Tokens.ValidateRefresh(refreshToken)
	if err != nil {
		return nil, apperror.Unauthorized()
	}

	stored, err := s.Tokens.Find(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, apperror.Unauthorized()
	}

	user, err := s.Repo.UserByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperror.Unauthorized()
	}

	return s.issueSession(ctx, user)
}

// Activate flips the user behind the link to activated. The link stays
// on the record, so repeating the call is harmless.
func (s *UsersService) Activate(ctx context.Context, activationLink string) error {
	user, err := s.Repo.UserByActivationLink(ctx, activationLink)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.BadRequest("Activation link isn't valid")
	}

	user.IsActivated = true
	if err := s.Repo.SaveUser(ctx, user); err != nil {
		return err
	}

	s.publish(ctx, "user_activated", user)

	return nil
}

// AllUsers dumps the whole directory. Debug surface, no pagination.
func (s *UsersService) AllUsers(ctx context.Context) ([]transport.UserDTO, error) {
	users, err := s.Repo.AllUsers(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]transport.UserDTO, 0, len(users))
	for i := range users {
		dtos = append(dtos, transport.NewUserDTO(&users[i]))
	}
	return dtos, nil
}

// issueSession mints a pair for the user and persists its refresh half,
// replacing whatever session the user had.
func (s *UsersService) issueSession(ctx context.Context, user *models.User) (*transport.AuthResponse, error) {
	dto := transport.NewUserDTO(user)

	pair, err := s.Tokens.Generate(dto)
	if err != nil {
		return nil, err
	}

	if err := s.Tokens.Save(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, err
	}

	return &transport.AuthResponse{TokenPair: pair, User: dto}, nil
}

func (s *UsersService) publish(ctx context.Context, eventType string, user *models.User) {
	if s.Producer == nil {
		return
	}

	event := map[string]any{
		"type":    eventType,
		"user_id": user.ID,
		"email":   user.Email,
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := s.Producer.PublishEvent(pubCtx, events.UserTopic, fmt.Sprint(user.ID), event); err != nil {
		logging.FromContext(ctx).Error("kafka publish error", "type", eventType, "error", err)
	}
}
