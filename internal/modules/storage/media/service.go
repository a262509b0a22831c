package media

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mx-space/sitecms/internal/models"
	"github.com/mx-space/sitecms/internal/pkg/assetstore"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const sweepBatchSize = 100

type Service struct {
	db      *gorm.DB
	store   assetstore.Store
	log     *zap.Logger
	prefix  string
	maxSize int64
}

type Option func(*Service)

func WithLogger(log *zap.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithKeyPrefix sets the first segment of every object key.
func WithKeyPrefix(prefix string) Option {
	return func(s *Service) { s.prefix = strings.Trim(prefix, "/") }
}

// WithMaxSize caps upload size in bytes; zero disables the check.
func WithMaxSize(n int64) Option {
	return func(s *Service) { s.maxSize = n }
}

func NewService(db *gorm.DB, store assetstore.Store, opts ...Option) *Service {
	if store == nil {
		store = assetstore.Disabled()
	}
	s := &Service{db: db, store: store, log: zap.NewNop(), prefix: "media"}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.Named("MediaService")
	return s
}

func (s *Service) MaxSize() int64 { return s.maxSize }

func (s *Service) ListBySite(ctx context.Context, siteID string) ([]models.MediaModel, error) {
	items := make([]models.MediaModel, 0)
	err := s.db.WithContext(ctx).
		Where("site_id = ? AND state = ?", siteID, models.MediaActive).
		Order("created_at DESC").
		Find(&items).Error
	return items, err
}

func (s *Service) Get(ctx context.Context, id string) (*models.MediaModel, error) {
	var m models.MediaModel
	err := s.db.WithContext(ctx).Where("id = ? AND state = ?", id, models.MediaActive).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMediaNotFound
		}
		return nil, err
	}
	return &m, nil
}

// SiteOwner returns the owner id of siteID.
func (s *Service) SiteOwner(ctx context.Context, siteID string) (string, error) {
	var site models.SiteModel
	err := s.db.WithContext(ctx).Select("id", "owner_id").Where("id = ?", siteID).First(&site).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrSiteNotFound
		}
		return "", err
	}
	return site.OwnerID, nil
}

// Upload sends the payload to the asset store and records it. If the row
// cannot be written the stored object is removed again.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*models.MediaModel, error) {
	if s.maxSize > 0 && in.Size > s.maxSize {
		return nil, ErrFileTooLarge
	}

	key := assetstore.ObjectKey(s.prefix, in.SiteID, in.Filename)
	url, err := s.store.Put(ctx, key, in.Body, in.Size, in.ContentType)
	if err != nil {
		s.log.Error("asset upload failed", zap.String("key", key), zap.Error(err))
		return nil, &UpstreamError{Err: err}
	}

	m := models.MediaModel{
		SiteID:     in.SiteID,
		UploadedBy: in.UploaderID,
		Filename:   in.Filename,
		FilePath:   url,
		MimeType:   in.ContentType,
		Size:       in.Size,
		State:      models.MediaActive,
	}
	if err := s.db.WithContext(ctx).Create(&m).Error; err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil && !errors.Is(delErr, assetstore.ErrNotFound) {
			s.log.Warn("orphaned asset after failed insert", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}
	s.log.Info("media uploaded", zap.String("media_id", m.ID), zap.String("site_id", m.SiteID), zap.Int64("size", m.Size))
	return &m, nil
}

// Delete hides the row, removes the external object, then drops the row.
// When the store fails the row stays pending_delete for the sweeper.
func (s *Service) Delete(ctx context.Context, m *models.MediaModel) error {
	db := s.db.WithContext(ctx)
	if err := db.Model(&models.MediaModel{}).Where("id = ?", m.ID).
		Update("state", models.MediaPendingDelete).Error; err != nil {
		return err
	}
	m.State = models.MediaPendingDelete

	if err := s.purge(ctx, m.FilePath); err != nil {
		s.log.Warn("asset delete failed, left for sweeper", zap.String("media_id", m.ID), zap.Error(err))
		return &UpstreamError{Err: err}
	}
	if err := db.Where("id = ?", m.ID).Delete(&models.MediaModel{}).Error; err != nil {
		return err
	}
	s.log.Info("media deleted", zap.String("media_id", m.ID))
	return nil
}

func (s *Service) purge(ctx context.Context, filePath string) error {
	key, ok := s.store.KeyFromURL(filePath)
	if !ok {
		s.log.Warn("cannot derive object key, skipping external delete", zap.String("file_path", filePath))
		return nil
	}
	if err := s.store.Delete(ctx, key); err != nil && !errors.Is(err, assetstore.ErrNotFound) {
		return err
	}
	return nil
}

// SiteAssets lists every stored file of a site, whatever its state.
func (s *Service) SiteAssets(ctx context.Context, siteID string) ([]string, error) {
	var paths []string
	err := s.db.WithContext(ctx).Model(&models.MediaModel{}).
		Where("site_id = ?", siteID).
		Pluck("file_path", &paths).Error
	return paths, err
}

// UserAssets lists files that disappear with a user: their uploads and
// everything on sites they own.
func (s *Service) UserAssets(ctx context.Context, userID string) ([]string, error) {
	db := s.db.WithContext(ctx)
	owned := db.Model(&models.SiteModel{}).Select("id").Where("owner_id = ?", userID)
	var paths []string
	err := db.Model(&models.MediaModel{}).
		Where("uploaded_by = ? OR site_id IN (?)", userID, owned).
		Distinct().
		Pluck("file_path", &paths).Error
	return paths, err
}

// Enqueue records files whose rows are about to vanish through a cascade.
func (s *Service) Enqueue(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	rows := make([]models.AssetDeletionModel, 0, len(paths))
	for _, p := range paths {
		rows = append(rows, models.AssetDeletionModel{FilePath: p})
	}
	if err := s.db.WithContext(ctx).CreateInBatches(&rows, sweepBatchSize).Error; err != nil {
		return fmt.Errorf("queue asset deletion: %w", err)
	}
	s.log.Info("queued asset deletions", zap.Int("count", len(rows)))
	return nil
}

// Sweep retries pending media deletions and drains the asset queue. Rows
// that fail are rotated behind untried ones so a stuck object cannot
// starve the rest of the batch.
func (s *Service) Sweep(ctx context.Context) (SweepResult, error) {
	var result SweepResult
	db := s.db.WithContext(ctx)

	var pending []models.MediaModel
	if err := db.Where("state = ?", models.MediaPendingDelete).
		Order("updated_at ASC").Limit(sweepBatchSize).Find(&pending).Error; err != nil {
		return result, err
	}
	for i := range pending {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		if err := s.purge(ctx, pending[i].FilePath); err != nil {
			result.Failed++
			s.log.Warn("sweep: asset delete failed", zap.String("media_id", pending[i].ID), zap.Error(err))
			// Move the row to the back of the line for the next pass.
			if err := db.Model(&pending[i]).UpdateColumn("updated_at", time.Now()).Error; err != nil {
				return result, err
			}
			continue
		}
		if err := db.Where("id = ?", pending[i].ID).Delete(&models.MediaModel{}).Error; err != nil {
			return result, err
		}
		result.Purged++
	}

	var queued []models.AssetDeletionModel
	if err := db.Order("attempts ASC").Order("created_at ASC").Limit(sweepBatchSize).Find(&queued).Error; err != nil {
		return result, err
	}
	for i := range queued {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}
		row := &queued[i]
		if purgeErr := s.purge(ctx, row.FilePath); purgeErr != nil {
			result.Failed++
			s.log.Warn("sweep: queued asset delete failed", zap.String("file_path", row.FilePath), zap.Error(purgeErr))
			if err := db.Model(row).Updates(map[string]interface{}{
				"attempts":   gorm.Expr("attempts + 1"),
				"last_error": purgeErr.Error(),
			}).Error; err != nil {
				return result, err
			}
			continue
		}
		if err := db.Delete(row).Error; err != nil {
			return result, err
		}
		result.Purged++
	}

	if result.Purged > 0 || result.Failed > 0 {
		s.log.Info("media sweep finished", zap.Int("purged", result.Purged), zap.Int("failed", result.Failed))
	}
	return result, nil
}
