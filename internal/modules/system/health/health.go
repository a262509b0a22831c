package health

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	pkgredis "github.com/mx-space/sitecms/internal/pkg/redis"
	"github.com/mx-space/sitecms/internal/pkg/response"
	"gorm.io/gorm"
)

const pingTimeout = 2 * time.Second

type logItem struct {
	Filename string `json:"filename"`
	Size     string `json:"size"`
	Modified int64  `json:"modified"`
}

type Handler struct {
	db     *gorm.DB
	redis  *pkgredis.Client
	logDir string
}

// NewHandler reports on db and, when set, redis. logDir holds the daily log files.
func NewHandler(db *gorm.DB, redis *pkgredis.Client, logDir string) *Handler {
	return &Handler{db: db, redis: redis, logDir: logDir}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	rg.GET("/health", h.health)
	rg.GET("/admin/logs", authMW, adminMW, h.listLogs)
}

func (h *Handler) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), pingTimeout)
	defer cancel()

	body := gin.H{"status": "ok"}
	code := http.StatusOK

	dbOK := false
	if sqlDB, err := h.db.DB(); err == nil {
		dbOK = sqlDB.PingContext(ctx) == nil
	}
	body["database"] = dbOK
	if !dbOK {
		code = http.StatusServiceUnavailable
	}

	if h.redis != nil {
		redisOK := h.redis.Raw().Ping(ctx).Err() == nil
		body["redis"] = redisOK
		if !redisOK {
			code = http.StatusServiceUnavailable
		}
	}
	if code != http.StatusOK {
		body["status"] = "degraded"
	}
	c.JSON(code, body)
}

func (h *Handler) listLogs(c *gin.Context) {
	entries, err := os.ReadDir(h.logDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			response.OK(c, []logItem{})
			return
		}
		response.InternalError(c, err)
		return
	}

	items := make([]logItem, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		items = append(items, logItem{
			Filename: entry.Name(),
			Size:     formatByteSize(info.Size()),
			Modified: info.ModTime().UnixMilli(),
		})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Modified > items[j].Modified })
	response.OK(c, items)
}

func formatByteSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%d B", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(size)/float64(div), "KMGTPE"[exp])
}
