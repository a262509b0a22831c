package models

// PageStatus is the publication state of a page.
type PageStatus string

const (
	PageDraft     PageStatus = "draft"
	PagePublished PageStatus = "published"
)

// Valid reports whether s is a known status.
func (s PageStatus) Valid() bool {
	return s == PageDraft || s == PagePublished
}

// DefaultPageType is used when a page is created without a type.
const DefaultPageType = "post"

// PageModel is one content document within a site.
// DraftData holds the page builder's serialized state and is never interpreted.
type PageModel struct {
	Base
	SiteID    string     `json:"site_id"    gorm:"type:char(36);not null;uniqueIndex:idx_pages_site_slug,priority:1"`
	Site      *SiteModel `json:"-"          gorm:"foreignKey:SiteID;constraint:OnDelete:CASCADE"`
	CreatedBy string     `json:"created_by" gorm:"type:char(36);index;not null"`
	Creator   *UserModel `json:"-"          gorm:"foreignKey:CreatedBy;constraint:OnDelete:CASCADE"`
	Title     string     `json:"title"      gorm:"type:varchar(200);not null"`
	Slug      string     `json:"slug"       gorm:"type:varchar(100);not null;uniqueIndex:idx_pages_site_slug,priority:2"`
	Content   string     `json:"content"    gorm:"type:longtext"`
	DraftData string     `json:"draft_data" gorm:"type:longtext"`
	Status    PageStatus `json:"status"     gorm:"type:varchar(20);not null;default:draft;index"`
	PageType  string     `json:"page_type"  gorm:"type:varchar(30);not null;default:post"`
}

func (PageModel) TableName() string { return "pages" }
