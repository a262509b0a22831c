package models

// CommentModel is an unmoderated visitor comment on a page.
type CommentModel struct {
	Base
	PageID      string     `json:"page_id"      gorm:"type:char(36);index;not null"`
	Page        *PageModel `json:"-"            gorm:"foreignKey:PageID;constraint:OnDelete:CASCADE"`
	AuthorName  string     `json:"author_name"  gorm:"type:varchar(100);not null"`
	AuthorEmail string     `json:"author_email" gorm:"type:varchar(100)"`
	Content     string     `json:"content"      gorm:"type:text;not null"`
}

func (CommentModel) TableName() string { return "comments" }
