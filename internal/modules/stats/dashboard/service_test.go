package dashboard

import (
	"context"
	"testing"
	"time"

	"github.com/mx-space/sitecms/internal/models"
	"github.com/mx-space/sitecms/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForUser(t *testing.T) {
	db := testutil.NewDB(t)
	alice := testutil.CreateUser(t, db, "alice", models.RoleAuthor)
	bob := testutil.CreateUser(t, db, "bob", models.RoleAuthor)
	blog := testutil.CreateSite(t, db, alice.ID, "blog")
	testutil.CreateSite(t, db, alice.ID, "empty")
	testutil.CreateSite(t, db, bob.ID, "bobs")

	at := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 12, 0, 0, 0, time.UTC) }
	pages := []struct {
		slug    string
		created time.Time
		status  models.PageStatus
		kind    string
	}{
		{"a", at(2026, time.March, 1), models.PagePublished, "post"},
		{"b", at(2026, time.March, 10), models.PageDraft, "post"},
		{"c", at(2026, time.January, 5), models.PageDraft, "landing"},
		{"d", at(2025, time.October, 1), models.PagePublished, "post"},
		{"e", at(2025, time.September, 30), models.PageDraft, "post"},
	}
	for _, p := range pages {
		require.NoError(t, db.Create(&models.PageModel{
			Base:      models.Base{CreatedAt: p.created},
			SiteID:    blog.ID,
			CreatedBy: alice.ID,
			Title:     p.slug,
			Slug:      p.slug,
			Status:    p.status,
			PageType:  p.kind,
		}).Error)
	}

	svc := NewService(db, time.UTC)
	svc.now = func() time.Time { return at(2026, time.March, 15) }

	stats, err := svc.ForUser(context.Background(), alice.ID)
	require.NoError(t, err)

	require.Len(t, stats.PagesBySite, 2)
	assert.Equal(t, blog.ID, stats.PagesBySite[0].SiteID)
	assert.EqualValues(t, 5, stats.PagesBySite[0].PageCount)
	assert.EqualValues(t, 0, stats.PagesBySite[1].PageCount)

	assert.Equal(t, []MonthCount{
		{Month: "Oct 2025", Count: 1},
		{Month: "Jan 2026", Count: 1},
		{Month: "Mar 2026", Count: 2},
	}, stats.PagesOverTime)

	assert.Equal(t, StatusBreakdown{Draft: 3, Published: 2}, stats.StatusBreakdown)
	assert.Equal(t, []PageTypeCount{{PageType: "post", Count: 4}, {PageType: "landing", Count: 1}}, stats.PageTypes)

	empty, err := svc.ForUser(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Empty(t, empty.PagesOverTime)
	assert.Empty(t, empty.PageTypes)
	require.Len(t, empty.PagesBySite, 1)
}
