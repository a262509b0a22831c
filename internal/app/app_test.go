package app

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mx-space/sitecms/internal/config"
	"github.com/mx-space/sitecms/internal/models"
	"github.com/mx-space/sitecms/internal/pkg/jwt"
	"github.com/mx-space/sitecms/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	t     *testing.T
	app   *App
	db    *gorm.DB
	store *testutil.Store
}

func newTestEnv(t *testing.T, mutate ...func(*config.AppConfig)) *testEnv {
	t.Helper()
	cfg := testutil.Config()
	for _, m := range mutate {
		m(cfg)
	}
	db := testutil.OpenDB(t, cfg)
	store := testutil.NewStore()
	a, err := NewWithDeps(zap.NewNop(), cfg, Deps{DB: db, Store: store})
	require.NoError(t, err)
	return &testEnv{t: t, app: a, db: db, store: store}
}

func (e *testEnv) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	e.t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(e.t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.app.Router().ServeHTTP(w, req)
	return w
}

func (e *testEnv) upload(token, siteID, filename string, content []byte) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if siteID != "" {
		require.NoError(e.t, mw.WriteField("siteId", siteID))
	}
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(e.t, err)
		_, err = fw.Write(content)
		require.NoError(e.t, err)
	}
	require.NoError(e.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/media", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	e.app.Router().ServeHTTP(w, req)
	return w
}

// register signs up through the API and returns the token and user id.
func (e *testEnv) register(username string, role models.Role) (string, string) {
	e.t.Helper()
	w := e.do(http.MethodPost, "/api/auth/register", "", gin.H{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
		"role":     role,
	})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decode(e.t, w, &out)
	return out.Token, out.User.ID
}

func (e *testEnv) createSite(token, slug string) map[string]interface{} {
	e.t.Helper()
	w := e.do(http.MethodPost, "/api/sites", token, gin.H{"name": "Site " + slug, "slug": slug})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	var out map[string]interface{}
	decode(e.t, w, &out)
	return out
}

func (e *testEnv) createPage(token, siteID, slug string) map[string]interface{} {
	e.t.Helper()
	w := e.do(http.MethodPost, "/api/pages", token, gin.H{
		"site_id": siteID,
		"title":   "Page " + slug,
		"slug":    slug,
		"content": "<p>hello</p>",
	})
	require.Equal(e.t, http.StatusCreated, w.Code, w.Body.String())
	var out map[string]interface{}
	decode(e.t, w, &out)
	return out
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func slugs(t *testing.T, w *httptest.ResponseRecorder) []string {
	t.Helper()
	var rows []struct {
		Slug string `json:"slug"`
	}
	decode(t, w, &rows)
	out := make([]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.Slug)
	}
	return out
}

func TestServiceInfoAndFallbacks(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "CMS Backend API is running!")

	w = e.do(http.MethodGet, "/api/ping", "", nil)
	assert.JSONEq(t, `{"data":"pong"}`, w.Body.String())

	w = e.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"database":true`)

	w = e.do(http.MethodGet, "/api-docs/openapi.json", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/api/pages/{id}/publish"`)
	w = e.do(http.MethodGet, "/api", "", nil)
	assert.Contains(t, w.Body.String(), `"docs":"/api-docs"`)

	w = e.do(http.MethodGet, "/api/nope", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Endpoint not found"}`, w.Body.String())

	w = e.do(http.MethodPatch, "/api/sites", "", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}

func TestAuthFlow(t *testing.T) {
	e := newTestEnv(t)
	token, id := e.register("alice", "")

	t.Run("duplicate email is rejected whatever the username", func(t *testing.T) {
		w := e.do(http.MethodPost, "/api/auth/register", "", gin.H{
			"username": "someone-else",
			"email":    "alice@example.com",
			"password": "secret123",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("login returns a token for the stored identity", func(t *testing.T) {
		w := e.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "secret123"})
		require.Equal(t, http.StatusOK, w.Code)
		var out struct {
			Token string `json:"token"`
		}
		decode(t, w, &out)

		claims, err := jwt.NewSigner(testutil.Secret, time.Hour).Parse(out.Token)
		require.NoError(t, err)
		assert.Equal(t, id, claims.UserID)
		assert.Equal(t, "author", claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		w := e.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": "alice@example.com", "password": "nope-nope"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("me requires a valid token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, "/api/auth/me", "", nil).Code)
		assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, "/api/auth/me", token+"x", nil).Code)

		w := e.do(http.MethodGet, "/api/auth/me", token, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"username":"alice"`)
		assert.NotContains(t, w.Body.String(), "password")
	})
}

func TestSiteOwnership(t *testing.T) {
	e := newTestEnv(t)
	alice, aliceID := e.register("alice", "")
	bob, _ := e.register("bob", "")
	admin, _ := e.register("root", models.RoleAdmin)

	w := e.do(http.MethodPost, "/api/sites", "", gin.H{"name": "x", "slug": "x"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = e.do(http.MethodPost, "/api/sites", alice, gin.H{"name": "Blog", "slug": "blog", "owner_id": "someone"})
	require.Equal(t, http.StatusCreated, w.Code)
	var site models.SiteModel
	decode(t, w, &site)
	assert.Equal(t, aliceID, site.OwnerID)
	assert.Equal(t, "blog", site.Template)

	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/api/sites", bob, gin.H{"name": "Dup", "slug": "blog"}).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(http.MethodPost, "/api/sites", bob, gin.H{"name": "Bad", "slug": "no spaces"}).Code)

	w = e.do(http.MethodGet, "/api/sites/blog", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"owner_name":"alice"`)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/api/sites/missing", "", nil).Code)

	w = e.do(http.MethodPut, "/api/sites/"+site.ID, bob, gin.H{"name": "Hijack"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"Not authorized to update this site"}`, w.Body.String())

	w = e.do(http.MethodPut, "/api/sites/"+site.ID, alice, gin.H{"name": "Renamed"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"Renamed"`)
	assert.Contains(t, w.Body.String(), `"slug":"blog"`)

	assert.Equal(t, http.StatusOK, e.do(http.MethodPut, "/api/sites/"+site.ID, admin, gin.H{"template": "portfolio"}).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodPut, "/api/sites/missing", alice, gin.H{"name": "x"}).Code)

	w = e.do(http.MethodDelete, "/api/sites/"+site.ID, bob, nil)
	assert.JSONEq(t, `{"error":"Not authorized to delete this site"}`, w.Body.String())

	w = e.do(http.MethodDelete, "/api/sites/"+site.ID, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Site deleted"}`, w.Body.String())
}

func TestPublishScenario(t *testing.T) {
	e := newTestEnv(t)
	alice, _ := e.register("alice", "")
	site := e.createSite(alice, "journal")
	page := e.createPage(alice, site["id"].(string), "first-post")
	assert.Equal(t, "draft", page["status"])
	pageID := page["id"].(string)

	w := e.do(http.MethodGet, "/api/pages/public/journal", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, slugs(t, w))
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/api/pages/journal/first-post", "", nil).Code)

	for i := 0; i < 2; i++ {
		w = e.do(http.MethodPost, "/api/pages/"+pageID+"/publish", alice, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"published"`)
	}

	w = e.do(http.MethodGet, "/api/pages/public/journal", "", nil)
	assert.Equal(t, []string{"first-post"}, slugs(t, w))
	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/api/pages/journal/first-post", "", nil).Code)

	w = e.do(http.MethodPut, "/api/pages/"+pageID, alice, gin.H{"status": "draft"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, slugs(t, e.do(http.MethodGet, "/api/pages/public/journal", "", nil)))

	assert.Empty(t, slugs(t, e.do(http.MethodGet, "/api/pages/public/unknown", "", nil)))
}

func TestPageRules(t *testing.T) {
	e := newTestEnv(t)
	alice, _ := e.register("alice", "")
	bob, _ := e.register("bob", "")
	admin, _ := e.register("root", models.RoleAdmin)
	site := e.createSite(alice, "journal")
	siteID := site["id"].(string)
	page := e.createPage(alice, siteID, "hello")
	pageID := page["id"].(string)

	t.Run("create validates input and ownership", func(t *testing.T) {
		w := e.do(http.MethodPost, "/api/pages", alice, gin.H{"site_id": siteID, "title": "Again", "slug": "hello"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		w = e.do(http.MethodPost, "/api/pages", alice, gin.H{"site_id": siteID, "title": "Bad", "slug": "x", "status": "archived"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		w = e.do(http.MethodPost, "/api/pages", alice, gin.H{"site_id": "missing", "title": "x", "slug": "x"})
		assert.Equal(t, http.StatusNotFound, w.Code)
		w = e.do(http.MethodPost, "/api/pages", bob, gin.H{"site_id": siteID, "title": "x", "slug": "x"})
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("same slug on another site is fine", func(t *testing.T) {
		other := e.createSite(bob, "other")
		e.createPage(bob, other["id"].(string), "hello")
	})

	t.Run("only creator or admin may modify", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, e.do(http.MethodPut, "/api/pages/"+pageID, bob, gin.H{"title": "x"}).Code)
		assert.Equal(t, http.StatusForbidden, e.do(http.MethodPost, "/api/pages/"+pageID+"/publish", bob, nil).Code)
		assert.Equal(t, http.StatusForbidden, e.do(http.MethodDelete, "/api/pages/"+pageID, bob, nil).Code)
		assert.Equal(t, http.StatusForbidden, e.do(http.MethodGet, "/api/pages/"+pageID, bob, nil).Code)
		assert.Equal(t, http.StatusForbidden, e.do(http.MethodGet, "/api/pages/site/"+siteID, bob, nil).Code)

		w := e.do(http.MethodPut, "/api/pages/"+pageID, admin, gin.H{"draft_data": `{"blocks":[]}`, "page_type": "landing"})
		require.Equal(t, http.StatusOK, w.Code)
		var p models.PageModel
		decode(t, w, &p)
		assert.Equal(t, `{"blocks":[]}`, p.DraftData)
		assert.Equal(t, "landing", p.PageType)
		assert.Equal(t, "Page hello", p.Title)
	})

	t.Run("owner sees drafts of the site", func(t *testing.T) {
		w := e.do(http.MethodGet, "/api/pages/site/"+siteID, alice, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"hello"}, slugs(t, w))
		assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/api/pages/site/missing", alice, nil).Code)
	})

	t.Run("delete", func(t *testing.T) {
		w := e.do(http.MethodDelete, "/api/pages/"+pageID, alice, nil)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"message":"Page deleted"}`, w.Body.String())
		assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/api/pages/"+pageID, alice, nil).Code)
	})
}

func TestSiteDeleteCascades(t *testing.T) {
	e := newTestEnv(t)
	alice, _ := e.register("alice", "")
	site := e.createSite(alice, "journal")
	siteID := site["id"].(string)
	page := e.createPage(alice, siteID, "hello")
	pageID := page["id"].(string)

	w := e.do(http.MethodPost, "/api/comments", "", gin.H{"page_id": pageID, "author_name": "Ann", "content": "Nice"})
	require.Equal(t, http.StatusCreated, w.Code)
	w = e.upload(alice, siteID, "cat.png", []byte("\x89PNG\r\n\x1a\n"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	require.Equal(t, http.StatusOK, e.do(http.MethodDelete, "/api/sites/"+siteID, alice, nil).Code)

	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/api/pages/"+pageID, alice, nil).Code)
	var count int64
	require.NoError(t, e.db.Model(&models.CommentModel{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, e.db.Model(&models.MediaModel{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, e.db.Model(&models.AssetDeletionModel{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	w = e.do(http.MethodPost, "/api/admin/jobs/media_sweeper/run", alice, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	admin, _ := e.register("root", models.RoleAdmin)
	w = e.do(http.MethodPost, "/api/admin/jobs/media_sweeper/run", admin, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Zero(t, e.store.Len())
	require.NoError(t, e.db.Model(&models.AssetDeletionModel{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestMediaEndpoints(t *testing.T) {
	e := newTestEnv(t)
	alice, aliceID := e.register("alice", "")
	bob, _ := e.register("bob", "")
	site := e.createSite(alice, "gallery")
	siteID := site["id"].(string)

	assert.Equal(t, http.StatusBadRequest, e.upload(alice, siteID, "", nil).Code)
	assert.Equal(t, http.StatusBadRequest, e.upload(alice, "", "a.txt", []byte("x")).Code)
	assert.Equal(t, http.StatusNotFound, e.upload(alice, "missing", "a.txt", []byte("x")).Code)
	assert.Equal(t, http.StatusForbidden, e.upload(bob, siteID, "a.txt", []byte("x")).Code)
	assert.Equal(t, http.StatusBadRequest, e.upload(alice, siteID, "big.bin", make([]byte, 2<<20)).Code)

	w := e.upload(alice, siteID, "notes.txt", []byte("plain text body"))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var m models.MediaModel
	decode(t, w, &m)
	assert.Equal(t, aliceID, m.UploadedBy)
	assert.Equal(t, "notes.txt", m.Filename)
	assert.Contains(t, m.MimeType, "text/plain")
	assert.EqualValues(t, 15, m.Size)
	assert.Equal(t, 1, e.store.Len())

	w = e.do(http.MethodGet, "/api/media/site/"+siteID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), m.ID)

	assert.Equal(t, http.StatusForbidden, e.do(http.MethodDelete, "/api/media/"+m.ID, bob, nil).Code)

	e.store.SetFailures(false, true)
	w = e.do(http.MethodDelete, "/api/media/"+m.ID, alice, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "asset delete failed")
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/api/media/"+m.ID, "", nil).Code)

	e.store.SetFailures(false, false)
	admin, _ := e.register("root", models.RoleAdmin)
	require.Equal(t, http.StatusOK, e.do(http.MethodPost, "/api/admin/jobs/media_sweeper/run", admin, nil).Code)
	assert.Zero(t, e.store.Len())

	e.store.SetFailures(true, false)
	w = e.upload(alice, siteID, "again.txt", []byte("x"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "upload failed")
}

func TestComments(t *testing.T) {
	e := newTestEnv(t)
	alice, _ := e.register("alice", "")
	admin, _ := e.register("root", models.RoleAdmin)
	site := e.createSite(alice, "journal")
	page := e.createPage(alice, site["id"].(string), "hello")
	pageID := page["id"].(string)

	w := e.do(http.MethodPost, "/api/comments", "", gin.H{"page_id": "missing", "author_name": "Ann", "content": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	w = e.do(http.MethodPost, "/api/comments", "", gin.H{"page_id": pageID, "author_name": "Ann", "author_email": "nope", "content": "hi"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = e.do(http.MethodPost, "/api/comments", "", gin.H{
		"page_id":     pageID,
		"author_name": "<b>Ann</b>",
		"content":     `Great<script>alert(1)</script> post`,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var cm models.CommentModel
	decode(t, w, &cm)
	assert.Equal(t, "Ann", cm.AuthorName)
	assert.Equal(t, "Great post", cm.Content)

	w = e.do(http.MethodGet, "/api/comments/page/"+pageID, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), cm.ID)
	assert.Equal(t, http.StatusOK, e.do(http.MethodGet, "/api/comments/"+cm.ID, "", nil).Code)

	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodDelete, "/api/comments/"+cm.ID, "", nil).Code)
	assert.Equal(t, http.StatusForbidden, e.do(http.MethodDelete, "/api/comments/"+cm.ID, alice, nil).Code)
	w = e.do(http.MethodDelete, "/api/comments/"+cm.ID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Comment deleted"}`, w.Body.String())
	w = e.do(http.MethodGet, "/api/comments/"+cm.ID, "", nil)
	assert.JSONEq(t, `{"error":"Comment not found"}`, w.Body.String())
}

func TestCommentRateLimit(t *testing.T) {
	e := newTestEnv(t, func(cfg *config.AppConfig) {
		cfg.RateLimit = config.RateLimitConfig{Requests: 1, Window: time.Minute}
	})
	body := gin.H{"page_id": "missing", "author_name": "Ann", "content": "hi"}
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodPost, "/api/comments", "", body).Code)
	w := e.do(http.MethodPost, "/api/comments", "", body)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestAdmin(t *testing.T) {
	e := newTestEnv(t)
	admin, adminID := e.register("root", models.RoleAdmin)
	alice, aliceID := e.register("alice", "")
	site := e.createSite(alice, "journal")

	assert.Equal(t, http.StatusForbidden, e.do(http.MethodGet, "/api/admin/users", alice, nil).Code)

	w := e.do(http.MethodGet, "/api/admin/users", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"username":"alice"`)
	assert.NotContains(t, w.Body.String(), "password")

	w = e.do(http.MethodGet, "/api/admin/sites", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"owner_name":"alice"`)

	w = e.do(http.MethodDelete, "/api/admin/users/"+adminID, admin, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Cannot delete yourself"}`, w.Body.String())
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodDelete, "/api/admin/users/missing", admin, nil).Code)

	w = e.do(http.MethodDelete, "/api/admin/users/"+aliceID, admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"User deleted successfully"}`, w.Body.String())
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodGet, "/api/sites/journal", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodDelete, "/api/admin/sites/"+site["id"].(string), admin, nil).Code)

	w = e.do(http.MethodGet, "/api/admin/jobs", admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "media_sweeper")
	assert.Contains(t, w.Body.String(), "prune_logs")
	assert.Equal(t, http.StatusNotFound, e.do(http.MethodPost, "/api/admin/jobs/nope/run", admin, nil).Code)
}

func TestAdminDeletesAnySite(t *testing.T) {
	e := newTestEnv(t)
	admin, _ := e.register("root", models.RoleAdmin)
	alice, _ := e.register("alice", "")
	site := e.createSite(alice, "journal")

	w := e.do(http.MethodDelete, "/api/admin/sites/"+site["id"].(string), admin, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Site deleted successfully"}`, w.Body.String())
}

func TestStatsEndpoint(t *testing.T) {
	e := newTestEnv(t)
	alice, _ := e.register("alice", "")
	site := e.createSite(alice, "journal")
	e.createSite(alice, "empty")
	page := e.createPage(alice, site["id"].(string), "one")
	e.createPage(alice, site["id"].(string), "two")
	e.do(http.MethodPost, "/api/pages/"+page["id"].(string)+"/publish", alice, nil)

	assert.Equal(t, http.StatusUnauthorized, e.do(http.MethodGet, "/api/stats", "", nil).Code)

	w := e.do(http.MethodGet, "/api/stats", alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		PagesBySite []struct {
			SiteID    string `json:"site_id"`
			PageCount int64  `json:"page_count"`
		} `json:"pagesBySite"`
		PagesOverTime []struct {
			Count int64 `json:"count"`
		} `json:"pagesOverTime"`
		StatusBreakdown struct {
			Draft     int64 `json:"draft"`
			Published int64 `json:"published"`
		} `json:"statusBreakdown"`
	}
	decode(t, w, &out)
	require.Len(t, out.PagesBySite, 2)
	assert.EqualValues(t, 2, out.PagesBySite[0].PageCount)
	assert.EqualValues(t, 0, out.PagesBySite[1].PageCount)
	require.Len(t, out.PagesOverTime, 1)
	assert.EqualValues(t, 2, out.PagesOverTime[0].Count)
	assert.EqualValues(t, 1, out.StatusBreakdown.Draft)
	assert.EqualValues(t, 1, out.StatusBreakdown.Published)
}

func TestCORS(t *testing.T) {
	e := newTestEnv(t, func(cfg *config.AppConfig) {
		cfg.AllowedOrigins = []string{"https://cms.example.com", "*.example.org"}
	})

	check := func(origin string) string {
		req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
		req.Header.Set("Origin", origin)
		w := httptest.NewRecorder()
		e.app.Router().ServeHTTP(w, req)
		return w.Header().Get("Access-Control-Allow-Origin")
	}
	assert.Equal(t, "https://cms.example.com", check("https://cms.example.com"))
	assert.Equal(t, "https://blog.example.org", check("https://blog.example.org"))
	assert.Empty(t, check("https://evil.test"))
}
