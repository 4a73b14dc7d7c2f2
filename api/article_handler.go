package api

import (
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/rpupo63/portfolio-backend/database"
	"github.com/rpupo63/portfolio-backend/errs"
	"github.com/rpupo63/portfolio-backend/models"
	"github.com/rpupo63/portfolio-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
)

type articleHandler struct {
	responder   Responder
	logger      zerolog.Logger
	articleRepo *database.ArticleRepo
	feed        *services.FeedBuilder
	engagement  *services.EngagementTracker
	images      services.ImageStore
}

func newArticleHandler(db database.Database, images services.ImageStore) articleHandler {
	logger := log.With().Str("handlerName", "articleHandler").Logger()

	return articleHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		articleRepo: db.ArticleRepo(),
		feed:        services.NewFeedBuilder(db),
		engagement:  services.NewEngagementTracker(db),
		images:      images,
	}
}

// articleRequest carries create and update input. Absent fields are left unchanged on update.
type articleRequest struct {
	Title           *models.I18n `json:"title"`
	Content         *models.I18n `json:"content"`
	Image           *string      `json:"image"`
	Tags            []string     `json:"tags"`
	CommentsEnabled *bool        `json:"commentsEnabled"`
	Status          *string      `json:"status"`
	Order           *int         `json:"order"`
}

func (req articleRequest) validate(create bool) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Title, validation.When(create, validation.NotNil), completeI18n),
		validation.Field(&req.Content, validation.When(create, validation.NotNil), completeI18n),
		validation.Field(&req.Status, validation.In(models.StatusDraft, models.StatusPublished).Error("must be draft or published")),
		validation.Field(&req.Order, validation.Min(0)),
	)
	return errs.FromValidation("", err)
}

func (req articleRequest) apply(a *models.Article) {
	if req.Title != nil {
		a.Title = datatypes.NewJSONType(req.Title.Trimmed())
	}
	if req.Content != nil {
		a.Content = datatypes.NewJSONType(req.Content.Trimmed())
	}
	if req.Image != nil {
		a.Image = *req.Image
	}
	if req.Tags != nil {
		a.SetTags(cleanList(req.Tags))
	}
	if req.CommentsEnabled != nil {
		a.CommentsEnabled = *req.CommentsEnabled
	}
	if req.Status != nil {
		a.Status = *req.Status
	}
	if req.Order != nil {
		a.Order = *req.Order
	}
}

// getArticles lists published articles one page at a time
// @Summary List published articles
// @Tags Articles
// @Param page query int false "Page, from 1"
// @Param limit query int false "Page size"
// @Param tag query string false "Exact tag, case-insensitive"
// @Router /api/articles [get]
func (h articleHandler) getArticles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := h.feed.ListPublished(r.Context(),
			queryInt(r, "page"), queryInt(r, "limit"), r.URL.Query().Get("tag"), clientAddress(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		body := ok(page.Items).withCount(page.Count)
		body.Total = &page.Total
		body.Pagination = &Pagination{Page: page.Page, Limit: page.Limit, TotalPages: page.TotalPages}
		h.responder.WriteJSON(w, body)
	}
}

// getAllArticles lists every article with comment counts
// @Summary List all articles (admin)
// @Tags Articles
// @Router /api/articles/admin/all [get]
func (h articleHandler) getAllArticles() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		views, err := h.feed.ListAllForAdmin(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ok(views).withCount(len(views)))
	}
}

// getArticle returns one article with its approved comments
// @Summary Get article
// @Tags Articles
// @Param id path string true "Article ID" format(uuid)
// @Router /api/articles/{id} [get]
func (h articleHandler) getArticle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("article"))
			return
		}

		view, err := h.feed.GetDetail(r.Context(), id, clientAddress(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ok(view))
	}
}

func (h articleHandler) recordView() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("article"))
			return
		}

		views, err := h.engagement.RecordView(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ok(map[string]int64{"views": views}))
	}
}

func (h articleHandler) toggleLike() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("article"))
			return
		}

		state, err := h.engagement.ToggleLike(r.Context(), id, clientAddress(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		body := ok(state)
		body.Message = "Like removed"
		if state.Liked {
			body.Message = "Article liked"
		}
		h.responder.WriteJSON(w, body)
	}
}

func (h articleHandler) getLikeStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("article"))
			return
		}

		state, err := h.engagement.GetLikeStatus(r.Context(), id, clientAddress(r))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ok(state))
	}
}

// createArticle creates a new article. Comments are enabled unless the request says otherwise.
// @Summary Create article
// @Tags Articles
// @Accept json
// @Produce json
// @Router /api/articles [post]
func (h articleHandler) createArticle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req articleRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := req.validate(true); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		article := &models.Article{CommentsEnabled: true, Status: models.StatusDraft}
		req.apply(article)

		if err := h.articleRepo.Add(r.Context(), article); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.logger.Info().Str("articleId", article.ID.String()).Msg("Article created")
		h.responder.WriteCreated(w, ok(models.NewArticleView(article, 0)))
	}
}

// updateArticle applies the supplied fields. A replaced image is removed from the store.
// @Summary Update article
// @Tags Articles
// @Param id path string true "Article ID" format(uuid)
// @Router /api/articles/{id} [put]
func (h articleHandler) updateArticle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("article"))
			return
		}

		var req articleRequest
		if err := decodeJSON(w, r, &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := req.validate(false); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		article, err := h.articleRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		oldImage := article.Image
		req.apply(article)

		if err := h.articleRepo.Update(r.Context(), article); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if oldImage != article.Image {
			services.RemoveImage(r.Context(), h.images, oldImage)
		}

		likes, err := h.articleRepo.CountLikes(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, ok(models.NewArticleView(article, likes)))
	}
}

// deleteArticle removes an article with its comments, likes and image
// @Summary Delete article
// @Tags Articles
// @Param id path string true "Article ID" format(uuid)
// @Router /api/articles/{id} [delete]
func (h articleHandler) deleteArticle() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := urlID(r, "id")
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("article"))
			return
		}

		article, err := h.articleRepo.FindByID(r.Context(), id)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.articleRepo.Delete(r.Context(), id); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		services.RemoveImage(r.Context(), h.images, article.Image)

		h.logger.Info().Str("articleId", id.String()).Msg("Article deleted")
		h.responder.WriteJSON(w, okMessage("Article deleted successfully"))
	}
}
