package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MediaState tracks whether the external asset still needs removal.
type MediaState string

const (
	MediaActive        MediaState = "active"
	MediaPendingDelete MediaState = "pending_delete"
)

// MediaModel references an asset hosted in the external object store.
type MediaModel struct {
	Base
	SiteID     string     `json:"site_id"     gorm:"type:char(36);index;not null"`
	Site       *SiteModel `json:"-"           gorm:"foreignKey:SiteID;constraint:OnDelete:CASCADE"`
	UploadedBy string     `json:"uploaded_by" gorm:"type:char(36);index;not null"`
	Uploader   *UserModel `json:"-"           gorm:"foreignKey:UploadedBy;constraint:OnDelete:CASCADE"`
	Filename   string     `json:"filename"    gorm:"type:varchar(255);not null"`
	FilePath   string     `json:"file_path"   gorm:"type:varchar(1024);not null"`
	MimeType   string     `json:"mime_type"   gorm:"type:varchar(100)"`
	Size       int64      `json:"size"`
	State      MediaState `json:"-"           gorm:"type:varchar(20);not null;default:active;index"`
}

func (MediaModel) TableName() string { return "media" }

// AssetDeletionModel queues an external object whose media row was removed
// by a cascade (site or user deletion) and still has to be purged.
type AssetDeletionModel struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	FilePath  string    `json:"file_path"  gorm:"type:varchar(1024);not null"`
	Attempts  int       `json:"attempts"   gorm:"not null;default:0"`
	LastError string    `json:"last_error" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" gorm:"index"`
}

func (AssetDeletionModel) TableName() string { return "asset_deletions" }

func (a *AssetDeletionModel) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}
