package auth

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/mx-space/sitecms/internal/database"
	"github.com/mx-space/sitecms/internal/models"
	jwtpkg "github.com/mx-space/sitecms/internal/pkg/jwt"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service struct {
	db               *gorm.DB
	signer           *jwtpkg.Signer
	log              *zap.Logger
	allowAdminSignup bool
	cost             int

	dummyOnce sync.Once
	dummyHash []byte
}

type Option func(*Service)

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithAdminSignup controls whether register accepts role=admin.
func WithAdminSignup(allow bool) Option {
	return func(s *Service) { s.allowAdminSignup = allow }
}

// WithBcryptCost overrides the hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

func NewService(db *gorm.DB, signer *jwtpkg.Signer, opts ...Option) *Service {
	s := &Service{
		db:               db,
		signer:           signer,
		log:              zap.NewNop(),
		allowAdminSignup: true,
		cost:             bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("AuthService")
	return s
}

func (s *Service) Register(ctx context.Context, dto *RegisterDTO) (*Result, error) {
	email := normalizeEmail(dto.Email)
	username := strings.TrimSpace(dto.Username)
	role := dto.Role
	if role == "" {
		role = models.RoleAuthor
	}
	if role == models.RoleAdmin && !s.allowAdminSignup {
		return nil, ErrAdminSignupDisabled
	}

	db := s.db.WithContext(ctx)
	var count int64
	if err := db.Model(&models.UserModel{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}
	if err := db.Model(&models.UserModel{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateUsername
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), s.cost)
	if err != nil {
		return nil, err
	}
	u := models.UserModel{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
	}
	if err := db.Create(&u).Error; err != nil {
		if database.IsDuplicateKey(err) {
			// lost a race with a concurrent registration
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	s.log.Info("user registered", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return s.issue(&u)
}

func (s *Service) Login(ctx context.Context, dto *LoginDTO) (*Result, error) {
	var u models.UserModel
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(dto.Email)).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// burn the same time as a real comparison
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(dto.Password))
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(dto.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(&u)
}

func (s *Service) Me(ctx context.Context, userID string) (*models.UserModel, error) {
	var u models.UserModel
	if err := s.db.WithContext(ctx).Where("id = ?", userID).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (s *Service) issue(u *models.UserModel) (*Result, error) {
	token, err := s.signer.Sign(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}
	return &Result{Token: token, User: u.Public()}, nil
}

func (s *Service) dummy() []byte {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("timing-equaliser"), s.cost)
	})
	return s.dummyHash
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
