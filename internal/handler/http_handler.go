package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/findora/search-api/internal/domain"
	"github.com/findora/search-api/internal/metrics"
	"github.com/findora/search-api/internal/repository"
	"github.com/findora/search-api/internal/service"
	"github.com/findora/search-api/pkg/log"
	"github.com/findora/search-api/pkg/response"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// ClusterHealthChecker reports Elasticsearch cluster status for the health
// endpoint. *repository.IndexManager satisfies it.
type ClusterHealthChecker interface {
	ClusterHealth(ctx context.Context) (string, error)
}

// Handler handles HTTP requests for the search API.
type Handler struct {
	searchService   service.SearchService
	indexingService service.IndexingService
	indexManager    ClusterHealthChecker
	collector       *metrics.Collector
	defaultLimit    gin.HandlerFunc
	searchLimit     gin.HandlerFunc
}

// NewHandler creates a new HTTP handler. The limit middlewares may be nil
// when rate limiting is disabled; searchLimit is the tighter bucket applied
// to the search route, defaultLimit covers the rest of the API. Health and
// metrics endpoints are never rate limited.
func NewHandler(
	searchService service.SearchService,
	indexingService service.IndexingService,
	indexManager ClusterHealthChecker,
	collector *metrics.Collector,
	defaultLimit, searchLimit gin.HandlerFunc,
) *Handler {
	return &Handler{
		searchService:   searchService,
		indexingService: indexingService,
		indexManager:    indexManager,
		collector:       collector,
		defaultLimit:    defaultLimit,
		searchLimit:     searchLimit,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/metrics/json", h.MetricsJSON)

	api := r.Group("/api/v1")
	{
		if h.searchLimit != nil {
			api.GET("/search", h.searchLimit, h.Search)
		} else {
			api.GET("/search", h.Search)
		}

		products := api.Group("/products")
		{
			if h.defaultLimit != nil {
				products.Use(h.defaultLimit)
			}
			products.POST("", h.CreateProduct)
			products.GET("/:id", h.GetProduct)
			products.PUT("/:id", h.UpdateProduct)
			products.DELETE("/:id", h.DeleteProduct)
			products.POST("/bulk", h.BulkIndexProducts)
			products.POST("/bulk/delete", h.BulkDeleteProducts)
		}

		admin := api.Group("/admin")
		{
			if h.defaultLimit != nil {
				admin.Use(h.defaultLimit)
			}
			admin.GET("/cache/stats", h.CacheStats)
			admin.POST("/cache/clear", h.ClearCache)
			admin.POST("/cache/reset-stats", h.ResetCacheStats)
		}
	}
}

// Health reports service status, Elasticsearch cluster health, and cache
// stats when caching is enabled.
func (h *Handler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	payload := gin.H{
		"status":  "healthy",
		"version": Version,
	}

	esStatus, err := h.indexManager.ClusterHealth(ctx)
	payload["elasticsearch"] = esStatus
	if err != nil {
		payload["status"] = "degraded"
	}

	if stats, ok := h.searchService.CacheStats(); ok {
		payload["cache"] = stats
	}

	c.JSON(http.StatusOK, payload)
}

// MetricsJSON serves the human-readable metrics snapshot.
func (h *Handler) MetricsJSON(c *gin.Context) {
	c.JSON(http.StatusOK, h.collector.Snapshot())
}

// Search handles full-text product search.
func (h *Handler) Search(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var req domain.SearchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		l.Warn().Err(err).Msg("invalid search request")
		response.BadRequest(c, err.Error())
		return
	}
	if !validSort(&req) {
		response.BadRequest(c, "invalid sort_by or sort_order")
		return
	}

	result, err := h.searchService.Search(ctx, &req)
	if err != nil {
		l.Error().Err(err).Str(log.FieldQuery, req.Query).Msg("search failed")
		if errors.Is(err, repository.ErrBackendUnavailable) {
			response.ServiceUnavailable(c, "search service temporarily unavailable")
			return
		}
		response.InternalError(c, "search failed")
		return
	}

	response.Success(c, result)
}

func validSort(req *domain.SearchRequest) bool {
	switch req.SortBy {
	case "", domain.SortRelevance, domain.SortPrice, domain.SortName:
	default:
		return false
	}
	switch req.SortOrder {
	case "", domain.OrderAsc, domain.OrderDesc:
	default:
		return false
	}
	return true
}

// CreateProduct indexes a new product with a generated ID.
func (h *Handler) CreateProduct(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var input domain.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		l.Warn().Err(err).Msg("invalid product payload")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.indexingService.Create(ctx, &input)
	if err != nil {
		l.Error().Err(err).Msg("create product failed")
		h.writeBackendError(c, err)
		return
	}

	response.Created(c, result)
}

// GetProduct fetches a product by ID.
func (h *Handler) GetProduct(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	id := c.Param("id")

	product, err := h.indexingService.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			response.NotFound(c, "product "+id+" not found")
			return
		}
		l.Error().Err(err).Str("product_id", id).Msg("get product failed")
		h.writeBackendError(c, err)
		return
	}

	response.Success(c, product)
}

// UpdateProduct reindexes a product under its existing ID.
func (h *Handler) UpdateProduct(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	id := c.Param("id")

	var input domain.ProductInput
	if err := c.ShouldBindJSON(&input); err != nil {
		l.Warn().Err(err).Msg("invalid product payload")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.indexingService.Update(ctx, id, &input)
	if err != nil {
		l.Error().Err(err).Str("product_id", id).Msg("update product failed")
		h.writeBackendError(c, err)
		return
	}

	response.Success(c, result)
}

// DeleteProduct removes a product by ID.
func (h *Handler) DeleteProduct(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	id := c.Param("id")

	if err := h.indexingService.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			response.NotFound(c, "product "+id+" not found")
			return
		}
		l.Error().Err(err).Str("product_id", id).Msg("delete product failed")
		h.writeBackendError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// BulkIndexProducts indexes a batch of products.
func (h *Handler) BulkIndexProducts(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var products []domain.Product
	if err := c.ShouldBindJSON(&products); err != nil {
		l.Warn().Err(err).Msg("invalid bulk payload")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.indexingService.BulkIndex(ctx, products)
	if err != nil {
		l.Error().Err(err).Int("count", len(products)).Msg("bulk index failed")
		h.writeBackendError(c, err)
		return
	}

	response.Success(c, result)
}

// BulkDeleteProducts deletes a batch of products by ID.
func (h *Handler) BulkDeleteProducts(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	var ids []string
	if err := c.ShouldBindJSON(&ids); err != nil {
		l.Warn().Err(err).Msg("invalid bulk delete payload")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.indexingService.BulkDelete(ctx, ids)
	if err != nil {
		l.Error().Err(err).Int("count", len(ids)).Msg("bulk delete failed")
		h.writeBackendError(c, err)
		return
	}

	response.Success(c, result)
}

// CacheStats exposes the result cache counters for operators.
func (h *Handler) CacheStats(c *gin.Context) {
	stats, ok := h.searchService.CacheStats()
	if !ok {
		response.Success(c, gin.H{"enabled": false})
		return
	}
	response.Success(c, gin.H{"enabled": true, "stats": stats})
}

// ClearCache empties the result cache. Hit/miss counters are preserved.
func (h *Handler) ClearCache(c *gin.Context) {
	h.searchService.ClearCache()
	response.Success(c, gin.H{"cleared": true})
}

// ResetCacheStats zeroes the hit/miss counters without touching entries.
func (h *Handler) ResetCacheStats(c *gin.Context) {
	h.searchService.ResetCacheStats()
	response.Success(c, gin.H{"reset": true})
}

func (h *Handler) writeBackendError(c *gin.Context, err error) {
	if errors.Is(err, repository.ErrBackendUnavailable) {
		response.ServiceUnavailable(c, "search service temporarily unavailable")
		return
	}
	response.InternalError(c, "operation failed")
}
