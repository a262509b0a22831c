package admin

import (
	"context"
	"errors"

	"github.com/mx-space/sitecms/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrCannotDeleteSelf = errors.New("cannot delete yourself")
	ErrUserNotFound     = errors.New("user not found")
)

// AssetCleaner collects the stored files of a user's sites.
type AssetCleaner interface {
	UserAssets(ctx context.Context, userID string) ([]string, error)
	Enqueue(ctx context.Context, paths []string) error
}

type Service struct {
	db     *gorm.DB
	assets AssetCleaner
	log    *zap.Logger
}

func NewService(db *gorm.DB, assets AssetCleaner, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, assets: assets, log: log.Named("AdminService")}
}

func (s *Service) ListUsers(ctx context.Context) ([]models.PublicUser, error) {
	var users []models.UserModel
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	out := make([]models.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out, nil
}

// DeleteUser removes a user other than the caller. Their sites, pages,
// media and comments cascade.
func (s *Service) DeleteUser(ctx context.Context, callerID, id string) error {
	if id == callerID {
		return ErrCannotDeleteSelf
	}
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&models.UserModel{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrUserNotFound
	}

	var paths []string
	if s.assets != nil {
		var err error
		if paths, err = s.assets.UserAssets(ctx, id); err != nil {
			return err
		}
	}
	if err := db.Where("id = ?", id).Delete(&models.UserModel{}).Error; err != nil {
		return err
	}
	s.log.Info("user deleted", zap.String("user_id", id), zap.String("by", callerID))

	if s.assets != nil {
		if err := s.assets.Enqueue(ctx, paths); err != nil {
			s.log.Error("queue user assets failed", zap.String("user_id", id), zap.Error(err))
		}
	}
	return nil
}
