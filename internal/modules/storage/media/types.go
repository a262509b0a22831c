package media

import (
	"errors"
	"io"
)

// UploadInput carries one multipart file through the service.
type UploadInput struct {
	SiteID      string
	UploaderID  string
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// SweepResult summarises one pass of the deletion sweeper.
type SweepResult struct {
	Purged int `json:"purged"`
	Failed int `json:"failed"`
}

// UpstreamError wraps a failure reported by the external asset store.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return "asset store: " + e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }

var (
	ErrMediaNotFound = errors.New("media not found")
	ErrSiteNotFound  = errors.New("site not found")
	ErrFileTooLarge  = errors.New("file too large")
)
