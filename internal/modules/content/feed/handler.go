package feed

import (
	"github.com/feedfolio/core/internal/models"
	"github.com/feedfolio/core/internal/pkg/response"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler handles content feed HTTP requests.
type Handler struct {
	svc    *Service
	logger *zap.Logger
}

func NewHandler(svc *Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes mounts content routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	content := rg.Group("/content")
	content.GET("", h.list)
	content.GET("/all", h.all)
	content.GET("/counts", h.counts)
}

// list GET /content
//
// A store failure is a 500 here: the client must be able to tell "no matches"
// apart from "could not fetch".
func (h *Handler) list(c *gin.Context) {
	opts := optionsFromQuery(c)

	corpus, err := h.svc.Corpus(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}

	result := List(corpus, opts)

	respType := opts.Category
	if respType == "" {
		respType = CategoryAll
	}
	response.OK(c, listResponse{
		Posts:  result.Items,
		Total:  result.Total,
		Offset: result.Offset,
		Limit:  result.Limit,
		Type:   respType,
	})
}

// all GET /content/all
//
// Always 200; success=false signals a degraded (unfetchable) corpus. Sitemap
// generation and category enumeration read this endpoint.
func (h *Handler) all(c *gin.Context) {
	corpus, err := h.svc.Corpus(c.Request.Context())
	if err != nil {
		h.logger.Warn("serving degraded all-content response", zap.Error(err))
		response.OK(c, allResponse{Posts: []models.ContentItem{}, Success: false})
		return
	}

	response.OK(c, allResponse{Posts: dedupeByID(corpus), Success: true})
}

// counts GET /content/counts
func (h *Handler) counts(c *gin.Context) {
	corpus, err := h.svc.Corpus(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}

	counts := CategoryCounts(corpus)
	total := 0
	for _, n := range counts {
		total += n
	}
	response.OK(c, countsResponse{Counts: counts, Total: total})
}
