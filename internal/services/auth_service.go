package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"mercadito/internal/domain"
	"mercadito/internal/repos"
)

var (
	ErrBadCreds      = errors.New("invalid username or password")
	ErrUsernameTaken = errors.New("username already exists")
)

type AuthService struct {
	Users *repos.UserRepo
}

func (s *AuthService) Login(sid, username, password string) (*domain.User, error) {
	u, err := s.Users.ByUsername(username)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.Users.BindSession(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// Register creates a standard user. Role is always USER at registration;
// promotions happen through the admin panel.
func (s *AuthService) Register(name, username, password, avatar string) (*domain.User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if existing, _ := s.Users.ByUsername(username); existing != nil {
		return nil, ErrUsernameTaken
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	u := domain.User{
		ID:       uuid.NewString(),
		Name:     name,
		Username: username,
		Hash:     string(h),
		Role:     "USER",
		Avatar:   avatar,
	}
	if u.Avatar == "" {
		u.Avatar = domain.DefaultAvatar
	}
	if err := s.Users.Create(u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *AuthService) Logout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}
