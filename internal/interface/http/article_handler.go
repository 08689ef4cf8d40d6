package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-timezone/internal/application"
	"github.com/oksasatya/go-user-timezone/internal/domain/entity"
	"github.com/oksasatya/go-user-timezone/pkg/response"
	"github.com/oksasatya/go-user-timezone/pkg/utz"
	"github.com/oksasatya/go-user-timezone/pkg/validation"
)

type ArticleHandler struct {
	Svc      *application.ArticleService
	Logger   *logrus.Logger
	articles *utz.Serializer
	comments *utz.Serializer
}

// NewArticleHandler wires localization serializers for articles and comments.
// Both models must be registered with the registry before the handler is built.
func NewArticleHandler(svc *application.ArticleService, reg *utz.Registry, format string, logger *logrus.Logger) (*ArticleHandler, error) {
	articleAcc, ok := reg.Accessors(&entity.Article{})
	if !ok {
		return nil, utz.ErrConfiguration("article model is not registered")
	}
	commentAcc, ok := reg.Accessors(&entity.Comment{})
	if !ok {
		return nil, utz.ErrConfiguration("comment model is not registered")
	}
	return &ArticleHandler{
		Svc:      svc,
		Logger:   logger,
		articles: utz.NewSerializer(articleAcc, format),
		comments: utz.NewSerializer(commentAcc, format),
	}, nil
}

type createArticleRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

type createCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

func (h *ArticleHandler) articlePayload(c *gin.Context, a *entity.Article) (gin.H, error) {
	localized, err := h.articles.Localize(c.Request.Context(), a)
	if err != nil {
		return nil, err
	}
	payload := gin.H{
		"id":        a.ID,
		"title":     a.Title,
		"body":      a.Body,
		"author_id": a.AuthorID,
	}
	if a.Author != nil {
		payload["author"] = gin.H{"id": a.Author.ID, "name": a.Author.Name}
	}
	for k, v := range localized {
		payload[k] = v
	}
	return payload, nil
}

func (h *ArticleHandler) commentPayload(c *gin.Context, cm *entity.Comment) (gin.H, error) {
	localized, err := h.comments.Localize(c.Request.Context(), cm)
	if err != nil {
		return nil, err
	}
	payload := gin.H{
		"id":         cm.ID,
		"body":       cm.Body,
		"article_id": cm.ArticleID,
	}
	for k, v := range localized {
		payload[k] = v
	}
	return payload, nil
}

func (h *ArticleHandler) List(c *gin.Context) {
	articles, err := h.Svc.List(c.Request.Context())
	if err != nil {
		resp := response.Error[any](c, http.StatusInternalServerError, "failed to list articles", err.Error())
		resp.Send(c)
		return
	}
	out := make([]gin.H, 0, len(articles))
	for i := range articles {
		payload, err := h.articlePayload(c, &articles[i])
		if err != nil {
			resp := response.Error[any](c, http.StatusInternalServerError, "failed to localize article", err.Error())
			resp.Send(c)
			return
		}
		out = append(out, payload)
	}
	resp := response.Success(c, http.StatusOK, out, "articles", map[string]any{"count": len(out)})
	resp.Send(c)
}

func (h *ArticleHandler) Get(c *gin.Context) {
	a, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp := response.Error[any](c, http.StatusNotFound, "article not found", nil)
		resp.Send(c)
		return
	}
	payload, err := h.articlePayload(c, a)
	if err != nil {
		resp := response.Error[any](c, http.StatusInternalServerError, "failed to localize article", err.Error())
		resp.Send(c)
		return
	}
	resp := response.Success(c, http.StatusOK, payload, "article", nil)
	resp.Send(c)
}

func (h *ArticleHandler) Create(c *gin.Context) {
	var req createArticleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		resp.Send(c)
		return
	}
	a := &entity.Article{
		Title:    req.Title,
		Body:     req.Body,
		AuthorID: c.GetString("userID"),
	}
	if err := h.Svc.Create(c.Request.Context(), a); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "failed to create article", err.Error())
		resp.Send(c)
		return
	}
	resp := response.Success(c, http.StatusCreated, gin.H{"id": a.ID}, "article created", nil)
	resp.Send(c)
}

func (h *ArticleHandler) AddComment(c *gin.Context) {
	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		resp.Send(c)
		return
	}
	cm := &entity.Comment{
		Body:      req.Body,
		ArticleID: c.Param("id"),
	}
	if err := h.Svc.AddComment(c.Request.Context(), cm); err != nil {
		resp := response.Error[any](c, http.StatusBadRequest, "failed to add comment", err.Error())
		resp.Send(c)
		return
	}
	resp := response.Success(c, http.StatusCreated, gin.H{"id": cm.ID}, "comment added", nil)
	resp.Send(c)
}

func (h *ArticleHandler) ListComments(c *gin.Context) {
	comments, err := h.Svc.Comments(c.Request.Context(), c.Param("id"))
	if err != nil {
		resp := response.Error[any](c, http.StatusInternalServerError, "failed to list comments", err.Error())
		resp.Send(c)
		return
	}
	out := make([]gin.H, 0, len(comments))
	for i := range comments {
		payload, err := h.commentPayload(c, &comments[i])
		if err != nil {
			resp := response.Error[any](c, http.StatusInternalServerError, "failed to localize comment", err.Error())
			resp.Send(c)
			return
		}
		out = append(out, payload)
	}
	resp := response.Success(c, http.StatusOK, out, "comments", map[string]any{"count": len(out)})
	resp.Send(c)
}
