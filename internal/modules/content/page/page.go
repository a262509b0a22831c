package page

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/sitecms/internal/database"
	"github.com/mx-space/sitecms/internal/middleware"
	"github.com/mx-space/sitecms/internal/models"
	"github.com/mx-space/sitecms/internal/pkg/response"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreatePageDTO struct {
	SiteID    string            `json:"site_id"    binding:"required"`
	Title     string            `json:"title"      binding:"required,max=200"`
	Slug      string            `json:"slug"       binding:"required,max=100"`
	Content   string            `json:"content"`
	DraftData string            `json:"draft_data"`
	Status    models.PageStatus `json:"status"     binding:"omitempty,oneof=draft published"`
	PageType  string            `json:"page_type"  binding:"max=30"`
}

type UpdatePageDTO struct {
	Title     *string            `json:"title"      binding:"omitempty,min=1,max=200"`
	Slug      *string            `json:"slug"       binding:"omitempty,min=1,max=100"`
	Content   *string            `json:"content"`
	DraftData *string            `json:"draft_data"`
	Status    *models.PageStatus `json:"status"     binding:"omitempty,oneof=draft published"`
	PageType  *string            `json:"page_type"  binding:"omitempty,max=30"`
}

var (
	errPageNotFound = errors.New("page not found")
	errSiteNotFound = errors.New("site not found")
	errSlugTaken    = errors.New("page slug already exists in this site")
	errInvalidSlug  = errors.New("slug may only contain lowercase letters, digits and single dashes")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

type Service struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewService(db *gorm.DB, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{db: db, log: log.Named("PageService")}
}

func (s *Service) site(ctx context.Context, id string) (*models.SiteModel, error) {
	var site models.SiteModel
	if err := s.db.WithContext(ctx).Where("id = ?", id).First(&site).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errSiteNotFound
		}
		return nil, err
	}
	return &site, nil
}

// ListBySite returns every page of a site, drafts included.
func (s *Service) ListBySite(ctx context.Context, siteID string) ([]models.PageModel, error) {
	pages := make([]models.PageModel, 0)
	err := s.db.WithContext(ctx).Where("site_id = ?", siteID).
		Order("created_at DESC").Find(&pages).Error
	return pages, err
}

// ListPublished returns the published pages of the site with the given slug.
// An unknown slug yields an empty list.
func (s *Service) ListPublished(ctx context.Context, siteSlug string) ([]models.PageModel, error) {
	pages := make([]models.PageModel, 0)
	err := s.db.WithContext(ctx).
		Joins("JOIN sites ON sites.id = pages.site_id").
		Where("sites.slug = ? AND pages.status = ?", siteSlug, models.PagePublished).
		Order("pages.created_at DESC").
		Find(&pages).Error
	return pages, err
}

func (s *Service) GetPublished(ctx context.Context, siteSlug, pageSlug string) (*models.PageModel, error) {
	var page models.PageModel
	err := s.db.WithContext(ctx).
		Joins("JOIN sites ON sites.id = pages.site_id").
		Where("sites.slug = ? AND pages.slug = ? AND pages.status = ?", siteSlug, pageSlug, models.PagePublished).
		First(&page).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errPageNotFound
	}
	if err != nil {
		return nil, err
	}
	return &page, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*models.PageModel, error) {
	var page models.PageModel
	if err := s.db.WithContext(ctx).Preload("Site").Where("id = ?", id).First(&page).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errPageNotFound
		}
		return nil, err
	}
	return &page, nil
}

func (s *Service) Create(ctx context.Context, creatorID string, dto *CreatePageDTO) (*models.PageModel, error) {
	slug, err := normalizeSlug(dto.Slug)
	if err != nil {
		return nil, err
	}
	if err := s.ensureSlugFree(ctx, dto.SiteID, slug, ""); err != nil {
		return nil, err
	}
	status := dto.Status
	if status == "" {
		status = models.PageDraft
	}
	pageType := strings.TrimSpace(dto.PageType)
	if pageType == "" {
		pageType = models.DefaultPageType
	}

	page := models.PageModel{
		SiteID:    dto.SiteID,
		CreatedBy: creatorID,
		Title:     strings.TrimSpace(dto.Title),
		Slug:      slug,
		Content:   dto.Content,
		DraftData: dto.DraftData,
		Status:    status,
		PageType:  pageType,
	}
	if err := s.db.WithContext(ctx).Create(&page).Error; err != nil {
		if database.IsDuplicateKey(err) {
			return nil, errSlugTaken
		}
		return nil, err
	}
	s.log.Info("page created", zap.String("page_id", page.ID), zap.String("site_id", page.SiteID))
	return &page, nil
}

// Update applies the supplied fields. Setting status back to draft is how a
// page gets unpublished.
func (s *Service) Update(ctx context.Context, page *models.PageModel, dto *UpdatePageDTO) (*models.PageModel, error) {
	updates := map[string]interface{}{}
	if dto.Title != nil {
		updates["title"] = strings.TrimSpace(*dto.Title)
	}
	if dto.Slug != nil {
		slug, err := normalizeSlug(*dto.Slug)
		if err != nil {
			return nil, err
		}
		if slug != page.Slug {
			if err := s.ensureSlugFree(ctx, page.SiteID, slug, page.ID); err != nil {
				return nil, err
			}
		}
		updates["slug"] = slug
	}
	if dto.Content != nil {
		updates["content"] = *dto.Content
	}
	if dto.DraftData != nil {
		updates["draft_data"] = *dto.DraftData
	}
	if dto.Status != nil {
		updates["status"] = *dto.Status
	}
	if dto.PageType != nil {
		pageType := strings.TrimSpace(*dto.PageType)
		if pageType == "" {
			pageType = models.DefaultPageType
		}
		updates["page_type"] = pageType
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(&models.PageModel{}).Where("id = ?", page.ID).
			Updates(updates).Error; err != nil {
			if database.IsDuplicateKey(err) {
				return nil, errSlugTaken
			}
			return nil, err
		}
	}
	return s.GetByID(ctx, page.ID)
}

// Publish marks the page published. Publishing twice is a no-op.
func (s *Service) Publish(ctx context.Context, page *models.PageModel) (*models.PageModel, error) {
	if page.Status != models.PagePublished {
		if err := s.db.WithContext(ctx).Model(&models.PageModel{}).Where("id = ?", page.ID).
			Update("status", models.PagePublished).Error; err != nil {
			return nil, err
		}
		s.log.Info("page published", zap.String("page_id", page.ID))
	}
	return s.GetByID(ctx, page.ID)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.PageModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errPageNotFound
	}
	s.log.Info("page deleted", zap.String("page_id", id))
	return nil
}

func (s *Service) ensureSlugFree(ctx context.Context, siteID, slug, exceptID string) error {
	q := s.db.WithContext(ctx).Model(&models.PageModel{}).Where("site_id = ? AND slug = ?", siteID, slug)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return errSlugTaken
	}
	return nil
}

func normalizeSlug(raw string) (string, error) {
	slug := strings.ToLower(strings.TrimSpace(raw))
	if !slugPattern.MatchString(slug) {
		return "", errInvalidSlug
	}
	return slug, nil
}

// siteOwner returns the owner of the page's site, or "" when it was not loaded.
func siteOwner(p *models.PageModel) string {
	if p.Site == nil {
		return ""
	}
	return p.Site.OwnerID
}

// Handler

type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/pages")
	g.GET("/site/:siteId", authMW, h.listBySite)
	g.GET("/public/:siteSlug", h.listPublished)
	g.GET("/:id", authMW, h.get)
	// ":id" holds the site slug here; gin requires one wildcard name per segment.
	g.GET("/:id/:pageSlug", h.getPublished)
	g.POST("", authMW, h.create)
	g.PUT("/:id", authMW, h.update)
	g.DELETE("/:id", authMW, h.delete)
	g.POST("/:id/publish", authMW, h.publish)
}

func (h *Handler) listBySite(c *gin.Context) {
	ctx := c.Request.Context()
	site, err := h.svc.site(ctx, c.Param("siteId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !middleware.CanModify(c, site.OwnerID) {
		response.Forbidden(c, "Not authorized to view pages of this site")
		return
	}
	pages, err := h.svc.ListBySite(ctx, site.ID)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, pages)
}

func (h *Handler) listPublished(c *gin.Context) {
	pages, err := h.svc.ListPublished(c.Request.Context(), c.Param("siteSlug"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, pages)
}

func (h *Handler) getPublished(c *gin.Context) {
	page, err := h.svc.GetPublished(c.Request.Context(), c.Param("id"), c.Param("pageSlug"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, page)
}

func (h *Handler) get(c *gin.Context) {
	page, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	if !middleware.CanModify(c, page.CreatedBy, siteOwner(page)) {
		response.Forbidden(c, "Not authorized to view this page")
		return
	}
	response.OK(c, page)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreatePageDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ctx := c.Request.Context()
	site, err := h.svc.site(ctx, dto.SiteID)
	if err != nil {
		h.fail(c, err)
		return
	}
	if !middleware.CanModify(c, site.OwnerID) {
		response.Forbidden(c, "Not authorized to add pages to this site")
		return
	}
	page, err := h.svc.Create(ctx, middleware.CurrentUserID(c), &dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Created(c, page)
}

// owned loads the page and checks that the caller created it or is an admin.
func (h *Handler) owned(c *gin.Context, action string) (*models.PageModel, bool) {
	page, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return nil, false
	}
	if !middleware.CanModify(c, page.CreatedBy) {
		response.Forbidden(c, "Not authorized to "+action+" this page")
		return nil, false
	}
	return page, true
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdatePageDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	page, ok := h.owned(c, "update")
	if !ok {
		return
	}
	updated, err := h.svc.Update(c.Request.Context(), page, &dto)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, updated)
}

func (h *Handler) delete(c *gin.Context) {
	page, ok := h.owned(c, "delete")
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), page.ID); err != nil {
		h.fail(c, err)
		return
	}
	response.Message(c, "Page deleted")
}

func (h *Handler) publish(c *gin.Context) {
	page, ok := h.owned(c, "publish")
	if !ok {
		return
	}
	published, err := h.svc.Publish(c.Request.Context(), page)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.OK(c, published)
}

func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errPageNotFound):
		response.NotFound(c, "Page not found")
	case errors.Is(err, errSiteNotFound):
		response.NotFound(c, "Site not found")
	case errors.Is(err, errSlugTaken):
		response.BadRequest(c, "Page slug already exists in this site")
	case errors.Is(err, errInvalidSlug):
		response.BadRequest(c, errInvalidSlug.Error())
	default:
		response.InternalError(c, err)
	}
}
