package site

import (
	"context"
	"errors"
	"regexp"
)

type CreateSiteDTO struct {
	Name     string `json:"name"     binding:"required,max=100"`
	Slug     string `json:"slug"     binding:"required,max=50"`
	Template string `json:"template" binding:"max=30"`
}

type UpdateSiteDTO struct {
	Name     *string `json:"name"     binding:"omitempty,min=1,max=100"`
	Slug     *string `json:"slug"     binding:"omitempty,min=1,max=50"`
	Template *string `json:"template" binding:"omitempty,max=30"`
}

// AssetCleaner collects the stored files of a site so they can be purged
// after the cascade removes their rows.
type AssetCleaner interface {
	SiteAssets(ctx context.Context, siteID string) ([]string, error)
	Enqueue(ctx context.Context, paths []string) error
}

const defaultTemplate = "blog"

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

var (
	ErrSiteNotFound = errors.New("site not found")
	ErrSlugTaken    = errors.New("site slug already exists")
	ErrInvalidSlug  = errors.New("slug may only contain lowercase letters, digits and single dashes")
	ErrEmptyName    = errors.New("site name cannot be blank")
)
