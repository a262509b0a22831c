package comment

import "errors"

type CreateCommentDTO struct {
	PageID      string `json:"page_id"      binding:"required"`
	AuthorName  string `json:"author_name"  binding:"required,max=100"`
	AuthorEmail string `json:"author_email" binding:"omitempty,email,max=100"`
	Content     string `json:"content"      binding:"required,max=5000"`
}

var (
	ErrCommentNotFound = errors.New("comment not found")
	ErrPageNotFound    = errors.New("page not found")
	ErrEmptyComment    = errors.New("author_name and content must contain text")
)
