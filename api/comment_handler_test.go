package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComments_ModerationFlow(t *testing.T) {
	env := newTestEnv(t, nil)
	a := createArticle(t, env, map[string]any{"title": i18n("Post"), "content": i18n("Body"), "status": "published"})
	base := "/api/articles/" + a.ID + "/comments"

	rec := env.do(t, http.MethodPost, base, map[string]any{
		"name":    "<b>Ann</b>",
		"email":   "ann@example.com",
		"content": "Great <script>alert(1)</script>post",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeEnvelope(t, rec)
	assert.Equal(t, "Comment submitted for review", created.Message)

	var comment struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Content  string `json:"content"`
		Approved bool   `json:"approved"`
	}
	decodeData(t, created, &comment)
	assert.Equal(t, "Ann", comment.Name)
	assert.Equal(t, "Great post", comment.Content)
	assert.False(t, comment.Approved)

	rec = env.do(t, http.MethodGet, base, nil)
	public := decodeEnvelope(t, rec)
	require.NotNil(t, public.Count)
	assert.Equal(t, 0, *public.Count)

	rec = env.do(t, http.MethodGet, base+"/admin", nil, env.admin())
	all := decodeEnvelope(t, rec)
	require.NotNil(t, all.Count)
	assert.Equal(t, 1, *all.Count)

	rec = env.do(t, http.MethodPatch, "/api/articles/comments/"+comment.ID+"/approve", nil, env.admin())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, base, nil)
	public = decodeEnvelope(t, rec)
	assert.Equal(t, 1, *public.Count)
	assert.NotContains(t, string(public.Data), "ann@example.com")

	rec = env.do(t, http.MethodDelete, "/api/articles/comments/"+comment.ID, nil, env.admin())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Comment deleted successfully", decodeEnvelope(t, rec).Message)
}

func TestComments_DisabledArticleIsForbidden(t *testing.T) {
	env := newTestEnv(t, nil)
	a := createArticle(t, env, map[string]any{
		"title":           i18n("Quiet"),
		"content":         i18n("Body"),
		"status":          "published",
		"commentsEnabled": false,
	})

	rec := env.do(t, http.MethodPost, "/api/articles/"+a.ID+"/comments", map[string]any{
		"name":    "Ann",
		"content": "hello",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Comments are disabled for this article", decodeEnvelope(t, rec).Message)
}

func TestComments_Validation(t *testing.T) {
	env := newTestEnv(t, nil)
	a := createArticle(t, env, map[string]any{"title": i18n("Post"), "content": i18n("Body")})

	long := make([]byte, 51)
	for i := range long {
		long[i] = 'a'
	}
	rec := env.do(t, http.MethodPost, "/api/articles/"+a.ID+"/comments", map[string]any{
		"name":    string(long),
		"email":   "not-an-email",
		"content": "",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	fields := map[string]string{}
	for _, e := range decodeEnvelope(t, rec).Errors {
		fields[e["field"]] = e["message"]
	}
	assert.Equal(t, "Name cannot exceed 50 characters", fields["name"])
	assert.Equal(t, "Comment content is required", fields["content"])
	assert.Contains(t, fields, "email")
}

func TestComments_MissingArticle(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(t, http.MethodPost, "/api/articles/not-a-uuid/comments", map[string]any{"name": "Ann", "content": "hi"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Article not found", decodeEnvelope(t, rec).Message)

	rec = env.do(t, http.MethodPost, "/api/articles/5f0c3a1e-8d8e-4c47-9d55-0e7b1f3c2a10/comments", map[string]any{"name": "Ann", "content": "hi"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestComments_KeepsTextAsTyped(t *testing.T) {
	env := newTestEnv(t, nil)
	a := createArticle(t, env, map[string]any{"title": i18n("Post"), "content": i18n("Body"), "status": "published"})
	base := "/api/articles/" + a.ID + "/comments"

	content := strings.Repeat("a", 990) + strings.Repeat("&", 10)
	rec := env.do(t, http.MethodPost, base, map[string]any{
		"name":    "Tom & O'Brien",
		"email":   "tom@example.com",
		"content": content,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var comment struct {
		Name    string `json:"name"`
		Content string `json:"content"`
	}
	decodeData(t, decodeEnvelope(t, rec), &comment)
	assert.Equal(t, "Tom & O'Brien", comment.Name)
	assert.Equal(t, content, comment.Content)

	rec = env.do(t, http.MethodPost, base, map[string]any{
		"name":    "Tom",
		"email":   "tom@example.com",
		"content": content + "&",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
