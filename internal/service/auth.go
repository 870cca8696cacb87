package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/aisclub/clubevents/internal/domain"
	"github.com/aisclub/clubevents/internal/repository"
)

var (
	ErrUserEmailExists = repository.ErrUserEmailExists
	ErrWrongPassword   = errors.New("wrong password")
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	SetOfficer(ctx context.Context, id string, isOfficer bool) error
}

type AuthService struct {
	repo AuthUserRepository

	mu            sync.RWMutex
	officerEmails []string
}

func NewAuthService(repo AuthUserRepository, officerEmails []string) *AuthService {
	s := &AuthService{
		repo: repo,
	}
	s.SetOfficerEmails(officerEmails)

	return s
}

// SetOfficerEmails replaces the addresses that hold the officer role. Signup
// and login bring the stored flag in line with it. Safe to call while requests are being served.
func (s *AuthService) SetOfficerEmails(emails []string) {
	normalized := make([]string, 0, len(emails))
	for _, e := range emails {
		normalized = append(normalized, normalizeEmail(e))
	}

	s.mu.Lock()
	s.officerEmails = normalized
	s.mu.Unlock()
}

func (s *AuthService) Signup(ctx context.Context, user domain.User) (domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}
	user.Password = string(hash)
	user.Email = normalizeEmail(user.Email)
	user.IsOfficer = s.isOfficerEmail(user.Email)

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return domain.User{}, ErrUserNotFound
		}

		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	if err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return domain.User{}, ErrWrongPassword
	}

	// officer_emails is the source of truth for the role; it is synced here.
	if isOfficer := s.isOfficerEmail(user.Email); isOfficer != user.IsOfficer {
		if err = s.repo.SetOfficer(ctx, user.ID, isOfficer); err != nil {
			return domain.User{}, fmt.Errorf("s.repo.SetOfficer -> %w", err)
		}
		user.IsOfficer = isOfficer
		if isOfficer {
			zap.L().Info("user promoted to officer", zap.String("user_id", user.ID))
		} else {
			zap.L().Info("user demoted from officer", zap.String("user_id", user.ID))
		}
	}

	return user, nil
}

func (s *AuthService) isOfficerEmail(email string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Contains(s.officerEmails, email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
