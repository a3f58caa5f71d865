package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/podtrail/podtrail-api/internal/application"
	"github.com/podtrail/podtrail-api/internal/domain/entity"
	"github.com/podtrail/podtrail-api/pkg/response"
	"github.com/podtrail/podtrail-api/pkg/validation"
)

type CatalogHandler struct {
	Svc    *application.CatalogService
	Logger *logrus.Logger
}

func NewCatalogHandler(svc *application.CatalogService, logger *logrus.Logger) *CatalogHandler {
	return &CatalogHandler{Svc: svc, Logger: logger}
}

type createPodcastRequest struct {
	Title    string `json:"title" binding:"required"`
	Category string `json:"category" binding:"required"`
}

type updatePodcastRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
	Rating   *int   `json:"rating"`
}

type createEpisodeRequest struct {
	Title    string `json:"title" binding:"required"`
	Category string `json:"category" binding:"required"`
}

type updateEpisodeRequest struct {
	Title    string `json:"title"`
	Category string `json:"category"`
}

func podcastJSON(p *entity.Podcast) gin.H {
	out := gin.H{
		"id":         p.ID,
		"title":      p.Title,
		"category":   p.Category,
		"cover_url":  p.CoverURL,
		"created_at": p.CreatedAt,
		"updated_at": p.UpdatedAt,
	}
	if p.Rating != 0 {
		out["rating"] = p.Rating
	}
	return out
}

func episodeJSON(e *entity.Episode) gin.H {
	return gin.H{
		"id":         e.ID,
		"podcast_id": e.PodcastID,
		"title":      e.Title,
		"category":   e.Category,
		"created_at": e.CreatedAt,
		"updated_at": e.UpdatedAt,
	}
}

// fail maps catalog service failures onto the response envelope: not-found
// errors keep their id-bearing messages, rating validation is a 400, anything
// else is the fixed internal-error message with details logged server side.
func (h *CatalogHandler) fail(c *gin.Context, err error) {
	switch {
	case application.IsNotFound(err):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, application.ErrInvalidRating):
		response.Error[any](c, http.StatusBadRequest, err.Error(), nil)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).Warn("catalog operation failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal server error occurred", nil)
	}
}

func (h *CatalogHandler) ListPodcasts(c *gin.Context) {
	podcasts, err := h.Svc.ListPodcasts(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]gin.H, 0, len(podcasts))
	for _, p := range podcasts {
		out = append(out, podcastJSON(p))
	}
	response.Success(c, http.StatusOK, out, "podcasts", map[string]any{"count": len(out)})
}

func (h *CatalogHandler) CreatePodcast(c *gin.Context) {
	var req createPodcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	id, err := h.Svc.CreatePodcast(c.Request.Context(), req.Title, req.Category)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": id}, "podcast created", nil)
}

func (h *CatalogHandler) GetPodcast(c *gin.Context) {
	p, err := h.Svc.GetPodcast(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, podcastJSON(p), "podcast", nil)
}

func (h *CatalogHandler) UpdatePodcast(c *gin.Context) {
	var req updatePodcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.UpdatePodcast(c.Request.Context(), c.Param("id"), application.UpdatePodcastInput{
		Title:    req.Title,
		Category: req.Category,
		Rating:   req.Rating,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "podcast updated", nil)
}

func (h *CatalogHandler) DeletePodcast(c *gin.Context) {
	if err := h.Svc.DeletePodcast(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "podcast deleted", nil)
}

func (h *CatalogHandler) SearchPodcasts(c *gin.Context) {
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchPodcasts(c.Request.Context(), c.Query("q"), size)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", map[string]any{"count": len(hits)})
}

func (h *CatalogHandler) UploadCover(c *gin.Context) {
	file, header, err := c.Request.FormFile("cover")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cover file is required", nil)
		return
	}
	defer func() { _ = file.Close() }()

	url, err := h.Svc.UploadCover(c.Request.Context(), c.Param("id"), file, header.Filename, header.Header.Get("Content-Type"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cover_url": url}, "cover uploaded", nil)
}

func (h *CatalogHandler) ListEpisodes(c *gin.Context) {
	eps, err := h.Svc.ListEpisodes(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]gin.H, 0, len(eps))
	for _, e := range eps {
		out = append(out, episodeJSON(e))
	}
	response.Success(c, http.StatusOK, out, "episodes", map[string]any{"count": len(out)})
}

func (h *CatalogHandler) CreateEpisode(c *gin.Context) {
	var req createEpisodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	id, err := h.Svc.CreateEpisode(c.Request.Context(), c.Param("id"), req.Title, req.Category)
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"id": id}, "episode created", nil)
}

func (h *CatalogHandler) GetEpisode(c *gin.Context) {
	e, err := h.Svc.GetEpisode(c.Request.Context(), c.Param("id"), c.Param("episodeID"))
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success(c, http.StatusOK, episodeJSON(e), "episode", nil)
}

func (h *CatalogHandler) UpdateEpisode(c *gin.Context) {
	var req updateEpisodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	err := h.Svc.UpdateEpisode(c.Request.Context(), c.Param("id"), c.Param("episodeID"), application.UpdateEpisodeInput{
		Title:    req.Title,
		Category: req.Category,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "episode updated", nil)
}

func (h *CatalogHandler) DeleteEpisode(c *gin.Context) {
	if err := h.Svc.DeleteEpisode(c.Request.Context(), c.Param("id"), c.Param("episodeID")); err != nil {
		h.fail(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "episode deleted", nil)
}
