package dashboard

import (
	"context"
	"sort"
	"time"

	"github.com/mx-space/sitecms/internal/models"
	"gorm.io/gorm"
)

type Service struct {
	db  *gorm.DB
	loc *time.Location
	now func() time.Time
}

// NewService builds the aggregator. Month buckets follow loc; nil means UTC.
func NewService(db *gorm.DB, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{db: db, loc: loc, now: time.Now}
}

func (s *Service) ForUser(ctx context.Context, userID string) (*Stats, error) {
	db := s.db.WithContext(ctx)
	out := &Stats{}
	var err error

	if out.PagesBySite, err = s.pagesBySite(db, userID); err != nil {
		return nil, err
	}
	if out.PagesOverTime, err = s.pagesOverTime(db, userID); err != nil {
		return nil, err
	}
	if out.StatusBreakdown, err = s.statusBreakdown(db, userID); err != nil {
		return nil, err
	}
	if out.PageTypes, err = s.pageTypes(db, userID); err != nil {
		return nil, err
	}
	return out, nil
}

// pagesBySite counts pages for every site the user owns, empty sites included.
func (s *Service) pagesBySite(db *gorm.DB, userID string) ([]SitePageCount, error) {
	rows := make([]SitePageCount, 0)
	err := db.Model(&models.SiteModel{}).
		Select("sites.id AS site_id, sites.name AS site_name, COUNT(pages.id) AS page_count").
		Joins("LEFT JOIN pages ON pages.site_id = sites.id").
		Where("sites.owner_id = ?", userID).
		Group("sites.id, sites.name").
		Order("page_count DESC, sites.name ASC").
		Scan(&rows).Error
	return rows, err
}

// pagesOverTime buckets the user's recent pages per calendar month. Months
// without pages are left out.
func (s *Service) pagesOverTime(db *gorm.DB, userID string) ([]MonthCount, error) {
	now := s.now().In(s.loc)
	start := time.Date(now.Year(), now.Month()-(trailingMonths-1), 1, 0, 0, 0, 0, s.loc)

	var created []time.Time
	if err := db.Model(&models.PageModel{}).
		Where("created_by = ? AND created_at >= ?", userID, start).
		Pluck("created_at", &created).Error; err != nil {
		return nil, err
	}

	counts := make(map[monthKey]int64)
	for _, ts := range created {
		ts = ts.In(s.loc)
		counts[monthKey{ts.Year(), ts.Month()}]++
	}

	out := make([]MonthCount, 0, len(counts))
	for i := 0; i < trailingMonths; i++ {
		m := start.AddDate(0, i, 0)
		if n := counts[monthKey{m.Year(), m.Month()}]; n > 0 {
			out = append(out, MonthCount{Month: m.Format(monthLabelLayout), Count: n})
		}
	}
	return out, nil
}

func (s *Service) statusBreakdown(db *gorm.DB, userID string) (StatusBreakdown, error) {
	var rows []struct {
		Status models.PageStatus
		Count  int64
	}
	var out StatusBreakdown
	if err := db.Model(&models.PageModel{}).
		Select("status, COUNT(*) AS count").
		Where("created_by = ?", userID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return out, err
	}
	for _, r := range rows {
		switch r.Status {
		case models.PageDraft:
			out.Draft = r.Count
		case models.PagePublished:
			out.Published = r.Count
		}
	}
	return out, nil
}

func (s *Service) pageTypes(db *gorm.DB, userID string) ([]PageTypeCount, error) {
	rows := make([]PageTypeCount, 0)
	if err := db.Model(&models.PageModel{}).
		Select("page_type, COUNT(*) AS count").
		Where("created_by = ?", userID).
		Group("page_type").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].PageType < rows[j].PageType
	})
	return rows, nil
}
