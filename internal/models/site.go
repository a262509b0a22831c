package models

// SiteModel is a tenant's named collection of pages.
type SiteModel struct {
	Base
	OwnerID  string     `json:"owner_id" gorm:"type:char(36);index;not null"`
	Owner    *UserModel `json:"-"        gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE"`
	Name     string     `json:"name"     gorm:"type:varchar(100);not null"`
	Slug     string     `json:"slug"     gorm:"type:varchar(50);uniqueIndex;not null"`
	Template string     `json:"template" gorm:"type:varchar(30);not null;default:blog"`
}

func (SiteModel) TableName() string { return "sites" }

// SiteWithOwner is a site row joined with its owner's username.
type SiteWithOwner struct {
	SiteModel
	OwnerName string `json:"owner_name"`
}
