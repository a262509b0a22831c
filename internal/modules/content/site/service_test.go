package site

import (
	"context"
	"testing"

	"github.com/mx-space/sitecms/internal/models"
	"github.com/mx-space/sitecms/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingCleaner struct {
	assets []string
	queued []string
}

func (r *recordingCleaner) SiteAssets(context.Context, string) ([]string, error) {
	return r.assets, nil
}

func (r *recordingCleaner) Enqueue(_ context.Context, paths []string) error {
	r.queued = append(r.queued, paths...)
	return nil
}

func TestCreateNormalizesSlug(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "alice", models.RoleAuthor)
	svc := NewService(db, nil, nil)
	ctx := context.Background()

	site, err := svc.Create(ctx, owner.ID, &CreateSiteDTO{Name: " Blog ", Slug: " My-Blog "})
	require.NoError(t, err)
	assert.Equal(t, "my-blog", site.Slug)
	assert.Equal(t, "Blog", site.Name)

	_, err = svc.Create(ctx, owner.ID, &CreateSiteDTO{Name: "x", Slug: "MY-BLOG"})
	assert.ErrorIs(t, err, ErrSlugTaken)
	for _, bad := range []string{"a--b", "-a", "a b", "ü"} {
		_, err = svc.Create(ctx, owner.ID, &CreateSiteDTO{Name: "x", Slug: bad})
		assert.ErrorIs(t, err, ErrInvalidSlug, bad)
	}

	other, err := svc.Create(ctx, owner.ID, &CreateSiteDTO{Name: "Other", Slug: "other"})
	require.NoError(t, err)
	taken := "my-blog"
	_, err = svc.Update(ctx, other, &UpdateSiteDTO{Slug: &taken})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestBlankNameRejected(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "alice", models.RoleAuthor)
	svc := NewService(db, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, owner.ID, &CreateSiteDTO{Name: "   ", Slug: "blank"})
	assert.ErrorIs(t, err, ErrEmptyName)

	site, err := svc.Create(ctx, owner.ID, &CreateSiteDTO{Name: "Kept", Slug: "kept"})
	require.NoError(t, err)
	blank := " \t "
	_, err = svc.Update(ctx, site, &UpdateSiteDTO{Name: &blank})
	assert.ErrorIs(t, err, ErrEmptyName)

	got, err := svc.GetByID(ctx, site.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kept", got.Name)
}

func TestListJoinsOwnerNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "alice", models.RoleAuthor)
	svc := NewService(db, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, owner.ID, &CreateSiteDTO{Name: "One", Slug: "one"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, owner.ID, &CreateSiteDTO{Name: "Two", Slug: "two"})
	require.NoError(t, err)
	require.NoError(t, db.Model(second).Update("created_at", second.CreatedAt.Add(1e9)).Error)

	sites, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, sites, 2)
	assert.Equal(t, "two", sites[0].Slug)
	assert.Equal(t, "alice", sites[0].OwnerName)
}

func TestDeleteQueuesAssets(t *testing.T) {
	db := testutil.NewDB(t)
	owner := testutil.CreateUser(t, db, "alice", models.RoleAuthor)
	cleaner := &recordingCleaner{assets: []string{"https://assets.test/media/x/1.png"}}
	svc := NewService(db, cleaner, nil)
	ctx := context.Background()

	site := testutil.CreateSite(t, db, owner.ID, "blog")
	page := testutil.CreatePage(t, db, site.ID, owner.ID, "hello", models.PageDraft)

	require.NoError(t, svc.Delete(ctx, site))
	assert.Equal(t, cleaner.assets, cleaner.queued)

	_, err := svc.GetByID(ctx, site.ID)
	assert.ErrorIs(t, err, ErrSiteNotFound)
	var count int64
	require.NoError(t, db.Model(&models.PageModel{}).Where("id = ?", page.ID).Count(&count).Error)
	assert.Zero(t, count)
}
