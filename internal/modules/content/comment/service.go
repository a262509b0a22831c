package comment

import (
	"context"
	"errors"
	"strings"

	"github.com/mx-space/sitecms/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, log: log.Named("CommentService")}
}

func (s *Service) ListByPage(ctx context.Context, pageID string) ([]models.CommentModel, error) {
	comments := make([]models.CommentModel, 0)
	err := s.db.WithContext(ctx).Where("page_id = ?", pageID).
		Order("created_at DESC").Find(&comments).Error
	return comments, err
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.CommentModel, error) {
	var cm models.CommentModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&cm).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommentNotFound
		}
		return nil, err
	}
	return &cm, nil
}

// Create stores a visitor comment with markup removed from every field.
func (s *Service) Create(ctx context.Context, dto *CreateCommentDTO) (*models.CommentModel, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.PageModel{}).
		Where("id = ?", dto.PageID).Count(&count).Error; err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrPageNotFound
	}

	cm := models.CommentModel{
		PageID:      dto.PageID,
		AuthorName:  sanitizeText(dto.AuthorName),
		AuthorEmail: strings.ToLower(strings.TrimSpace(dto.AuthorEmail)),
		Content:     sanitizeText(dto.Content),
	}
	if cm.AuthorName == "" || cm.Content == "" {
		return nil, ErrEmptyComment
	}
	if err := s.db.WithContext(ctx).Create(&cm).Error; err != nil {
		return nil, err
	}
	s.log.Info("comment created", zap.String("comment_id", cm.ID), zap.String("page_id", cm.PageID))
	return &cm, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.CommentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrCommentNotFound
	}
	s.log.Info("comment deleted", zap.String("comment_id", id))
	return nil
}
