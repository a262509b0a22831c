package media

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/sitecms/internal/middleware"
	"github.com/mx-space/sitecms/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	g := rg.Group("/media")
	g.GET("/site/:siteId", h.listBySite)
	g.GET("/:id", h.get)
	g.POST("", authMW, h.upload)
	g.DELETE("/:id", authMW, h.delete)
}

func (h *Handler) listBySite(c *gin.Context) {
	items, err := h.svc.ListBySite(c.Request.Context(), c.Param("siteId"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, items)
}

func (h *Handler) get(c *gin.Context) {
	m, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrMediaNotFound) {
			response.NotFound(c, "Media not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	response.OK(c, m)
}

func (h *Handler) upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "No file uploaded")
		return
	}
	siteID := strings.TrimSpace(c.PostForm("siteId"))
	if siteID == "" {
		siteID = strings.TrimSpace(c.PostForm("site_id"))
	}
	if siteID == "" {
		response.BadRequest(c, "siteId is required")
		return
	}

	ctx := c.Request.Context()
	ownerID, err := h.svc.SiteOwner(ctx, siteID)
	if err != nil {
		if errors.Is(err, ErrSiteNotFound) {
			response.NotFound(c, "Site not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	if !middleware.CanModify(c, ownerID) {
		response.Forbidden(c, "Not authorized to upload to this site")
		return
	}
	if limit := h.svc.MaxSize(); limit > 0 && fh.Size > limit {
		response.BadRequest(c, fmt.Sprintf("File too large, limit is %d MB", limit>>20))
		return
	}

	file, err := fh.Open()
	if err != nil {
		response.BadRequest(c, "Unable to read uploaded file")
		return
	}
	defer file.Close()

	contentType, err := detectContentType(fh, file)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	m, err := h.svc.Upload(ctx, UploadInput{
		SiteID:      siteID,
		UploaderID:  middleware.CurrentUserID(c),
		Filename:    filepath.Base(fh.Filename),
		ContentType: contentType,
		Size:        fh.Size,
		Body:        file,
	})
	if err != nil {
		var up *UpstreamError
		switch {
		case errors.As(err, &up):
			response.Upstream(c, "upload failed", up.Err)
		case errors.Is(err, ErrFileTooLarge):
			response.BadRequest(c, "File too large")
		default:
			response.InternalError(c, err)
		}
		return
	}
	response.Created(c, m)
}

func (h *Handler) delete(c *gin.Context) {
	ctx := c.Request.Context()
	m, err := h.svc.Get(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrMediaNotFound) {
			response.NotFound(c, "Media not found")
			return
		}
		response.InternalError(c, err)
		return
	}
	ownerID, err := h.svc.SiteOwner(ctx, m.SiteID)
	if err != nil && !errors.Is(err, ErrSiteNotFound) {
		response.InternalError(c, err)
		return
	}
	if !middleware.CanModify(c, m.UploadedBy, ownerID) {
		response.Forbidden(c, "Not authorized to delete this media")
		return
	}

	if err := h.svc.Delete(ctx, m); err != nil {
		var up *UpstreamError
		if errors.As(err, &up) {
			response.Upstream(c, "asset delete failed", up.Err)
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Message(c, "Media deleted")
}

// detectContentType prefers the part header, then the extension, then the
// first bytes of the payload. The file is rewound afterwards.
func detectContentType(fh *multipart.FileHeader, file multipart.File) (string, error) {
	if ct := strings.TrimSpace(fh.Header.Get("Content-Type")); ct != "" && ct != "application/octet-stream" {
		return ct, nil
	}
	if ext := strings.ToLower(filepath.Ext(fh.Filename)); ext != "" {
		if guessed := mime.TypeByExtension(ext); guessed != "" {
			return guessed, nil
		}
	}
	head := make([]byte, 512)
	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", err
	}
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return "", err
	}
	return http.DetectContentType(head[:n]), nil
}
