package site

import (
	"context"
	"errors"
	"strings"

	"github.com/mx-space/sitecms/internal/database"
	"github.com/mx-space/sitecms/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db     *gorm.DB
	assets AssetCleaner
	log    *zap.Logger
}

func NewService(db *gorm.DB, assets AssetCleaner, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, assets: assets, log: log.Named("SiteService")}
}

// withOwner selects sites joined with the owner's username.
func (s *Service) withOwner(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).
		Model(&models.SiteModel{}).
		Select("sites.*, users.username AS owner_name").
		Joins("LEFT JOIN users ON users.id = sites.owner_id")
}

func (s *Service) List(ctx context.Context) ([]models.SiteWithOwner, error) {
	sites := make([]models.SiteWithOwner, 0)
	err := s.withOwner(ctx).Order("sites.created_at DESC").Scan(&sites).Error
	return sites, err
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (*models.SiteWithOwner, error) {
	var rows []models.SiteWithOwner
	if err := s.withOwner(ctx).Where("sites.slug = ?", strings.ToLower(strings.TrimSpace(slug))).
		Limit(1).Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrSiteNotFound
	}
	return &rows[0], nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.SiteModel, error) {
	var site models.SiteModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSiteNotFound
		}
		return nil, err
	}
	return &site, nil
}

// Create stores a new site owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, dto *CreateSiteDTO) (*models.SiteModel, error) {
	name := strings.TrimSpace(dto.Name)
	if name == "" {
		return nil, ErrEmptyName
	}
	slug, err := normalizeSlug(dto.Slug)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, slug, ""); err != nil {
		return nil, err
	}
	template := strings.TrimSpace(dto.Template)
	if template == "" {
		template = defaultTemplate
	}

	site := models.SiteModel{
		OwnerID:  ownerID,
		Name:     name,
		Slug:     slug,
		Template: template,
	}
	if err := s.db.WithContext(ctx).Create(&site).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	s.log.Info("site created", zap.String("site_id", site.ID), zap.String("owner_id", ownerID), zap.String("slug", slug))
	return &site, nil
}

// Update applies the supplied fields to site.
func (s *Service) Update(ctx context.Context, site *models.SiteModel, dto *UpdateSiteDTO) (*models.SiteModel, error) {
	updates := map[string]interface{}{}
	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		updates["name"] = name
	}
	if dto.Slug != nil {
		slug, err := normalizeSlug(*dto.Slug)
		if err != nil {
			return nil, err
		}
		if slug != site.Slug {
			if err := s.ensureSlugFree(ctx, slug, site.ID); err != nil {
				return nil, err
			}
		}
		updates["slug"] = slug
	}
	if dto.Template != nil {
		template := strings.TrimSpace(*dto.Template)
		if template == "" {
			template = defaultTemplate
		}
		updates["template"] = template
	}
	if len(updates) == 0 {
		return site, nil
	}

	db := s.db.WithContext(ctx)
	if err := db.Model(site).Updates(updates).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	return s.GetByID(ctx, site.ID)
}

// Delete removes the site; pages, media and comments go with it through
// the foreign keys. Stored files are queued for the sweeper.
func (s *Service) Delete(ctx context.Context, site *models.SiteModel) error {
	var paths []string
	if s.assets != nil {
		var err error
		if paths, err = s.assets.SiteAssets(ctx, site.ID); err != nil {
			return err
		}
	}

	if err := s.db.WithContext(ctx).Where("id = ?", site.ID).Delete(&models.SiteModel{}).Error; err != nil {
		return err
	}
	s.log.Info("site deleted", zap.String("site_id", site.ID))

	if s.assets != nil {
		if err := s.assets.Enqueue(ctx, paths); err != nil {
			s.log.Error("queue site assets failed", zap.String("site_id", site.ID), zap.Error(err))
		}
	}
	return nil
}

func (s *Service) ensureSlugFree(ctx context.Context, slug, exceptID string) error {
	q := s.db.WithContext(ctx).Model(&models.SiteModel{}).Where("slug = ?", slug)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrSlugTaken
	}
	return nil
}

func normalizeSlug(raw string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(raw))
	if !slugPattern.MatchString(slug) {
		return "", ErrInvalidSlug
	}
	return slug, nil
}
