// Product listing handler: GET /products returns the normalized catalog as
// JSON. Useful for smoke-testing the commerce credentials and for other
// internal consumers that want the same projection the assistant sees.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tiendabot/go-shop-assistant/internal/domain"
)

// CatalogProvider fetches the normalized product list.
type CatalogProvider interface {
	FetchCatalog(ctx context.Context) ([]domain.CatalogItem, error)
}

// ProductsHandler serves GET /products.
type ProductsHandler struct {
	Catalog CatalogProvider
}

// ListProductsResponse is the JSON envelope for the catalog listing.
type ListProductsResponse struct {
	Products []domain.CatalogItem `json:"products"`
}

// List returns the full normalized catalog.
func (h *ProductsHandler) List(c *gin.Context) {
	items, err := h.Catalog.FetchCatalog(c.Request.Context())
	if err != nil {
		fail(c, http.StatusBadGateway, ErrCodeCatalogFailed, "failed to fetch products")
		return
	}
	c.JSON(http.StatusOK, ListProductsResponse{Products: items})
}
