package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"productapp/internal/entity"
	"productapp/internal/storage"
)

const maxProductImageSize = 10 << 20 // 10 MiB

// CreateProduct adds a catalog entry.
func (h *HTTPHandler) CreateProduct(c *gin.Context) {
	var req entity.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	product := &entity.DbProduct{
		Name:          strings.TrimSpace(req.Name),
		Description:   req.Description,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		Category:      strings.TrimSpace(req.Category),
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.CreateProduct(ctx, product); err != nil {
		logrus.WithError(err).Error("failed to create product")
		InternalError(c, "failed to create product")
		return
	}

	c.JSON(http.StatusCreated, h.productResponse(product))
}

// ListProducts returns the whole catalog.
func (h *HTTPHandler) ListProducts(c *gin.Context) {
	h.respondProductList(c, &entity.ProductQuery{})
}

// SearchProducts filters the catalog by any combination of name, category and
// price bounds. Absent parameters impose no constraint, so an empty query
// returns everything.
func (h *HTTPHandler) SearchProducts(c *gin.Context) {
	var query entity.ProductQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		BadRequest(c, ErrCodeInvalidRequest, "invalid search parameters")
		return
	}
	h.respondProductList(c, &query)
}

// SearchProductsByName is the single-filter convenience form of SearchProducts.
func (h *HTTPHandler) SearchProductsByName(c *gin.Context) {
	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		MissingField(c, "name")
		return
	}
	h.respondProductList(c, &entity.ProductQuery{Name: &name})
}

// ListProductsByCategory returns the products in a category.
func (h *HTTPHandler) ListProductsByCategory(c *gin.Context) {
	category := strings.TrimSpace(c.Param("category"))
	if category == "" {
		MissingField(c, "category")
		return
	}
	h.respondProductList(c, &entity.ProductQuery{Category: &category})
}

// GetProduct returns a single product by id.
func (h *HTTPHandler) GetProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	product, err := h.repo.GetProduct(ctx, id)
	if err != nil {
		h.respondProductError(c, id, err, "failed to load product")
		return
	}

	c.JSON(http.StatusOK, h.productResponse(product))
}

// UpdateProduct replaces the mutable fields of a product.
func (h *HTTPHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	var req entity.ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		InvalidPayload(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	product, err := h.repo.GetProduct(ctx, id)
	if err != nil {
		h.respondProductError(c, id, err, "failed to load product")
		return
	}

	product.Name = strings.TrimSpace(req.Name)
	product.Description = req.Description
	product.Price = req.Price
	product.StockQuantity = req.StockQuantity
	product.Category = strings.TrimSpace(req.Category)

	if err := h.repo.SaveProduct(ctx, product); err != nil {
		logrus.WithError(err).WithField("product_id", id).Error("failed to update product")
		InternalError(c, "failed to update product")
		return
	}

	c.JSON(http.StatusOK, h.productResponse(product))
}

// DeleteProduct removes a product.
func (h *HTTPHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseProductID(c)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	if err := h.repo.DeleteProduct(ctx, id); err != nil {
		h.respondProductError(c, id, err, "failed to delete product")
		return
	}

	c.Status(http.StatusNoContent)
}

// UploadProductImage attaches an image to a product. The file goes to the
// configured storage backend and the stored path replaces any previous image.
func (h *HTTPHandler) UploadProductImage(c *gin.Context) {
	if h.storage == nil {
		ServiceUnavailable(c, "file storage not available")
		return
	}

	id, ok := parseProductID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		MissingField(c, "image")
		return
	}
	if fileHeader.Size > maxProductImageSize {
		BadRequest(c, ErrCodeInvalidRequest, "image exceeds the 10 MiB limit")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
	defer cancel()

	product, err := h.repo.GetProduct(ctx, id)
	if err != nil {
		h.respondProductError(c, id, err, "failed to load product")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		logrus.WithError(err).Error("failed to open uploaded image")
		InternalError(c, "failed to read uploaded image")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		logrus.WithError(err).Error("failed to read uploaded image")
		InternalError(c, "failed to read uploaded image")
		return
	}

	ext := strings.TrimPrefix(filepath.Ext(fileHeader.Filename), ".")
	storedPath, err := h.storage.Save(ctx, data, storage.SaveOptions{
		Category:  "products",
		Extension: ext,
		BaseName:  uuid.NewString(),
	})
	if err != nil {
		logrus.WithError(err).WithField("product_id", id).Error("failed to store product image")
		InternalError(c, "failed to store image")
		return
	}

	product.ImagePath = storedPath
	if err := h.repo.SaveProduct(ctx, product); err != nil {
		logrus.WithError(err).WithField("product_id", id).Error("failed to save product image path")
		InternalError(c, "failed to update product")
		return
	}

	c.JSON(http.StatusOK, h.productResponse(product))
}

func (h *HTTPHandler) respondProductList(c *gin.Context, query *entity.ProductQuery) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	products, err := h.repo.SearchProducts(ctx, query)
	if err != nil {
		logrus.WithError(err).Error("failed to search products")
		InternalError(c, "failed to search products")
		return
	}

	out := make([]entity.ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, h.productResponse(&products[i]))
	}
	c.JSON(http.StatusOK, entity.ProductListResponse{Products: out})
}

func (h *HTTPHandler) respondProductError(c *gin.Context, id uint, err error, logMsg string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, ErrCodeProductNotFound, "product not found")
		return
	}
	logrus.WithError(err).WithField("product_id", id).Error(logMsg)
	InternalError(c, logMsg)
}

func (h *HTTPHandler) productResponse(product *entity.DbProduct) entity.ProductResponse {
	return entity.ProductResponse{
		ID:            product.ID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		StockQuantity: product.StockQuantity,
		Category:      product.Category,
		ImageURL:      h.publicURL(product.ImagePath),
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

func parseProductID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, strconv.IntSize)
	if err != nil || id == 0 {
		BadRequest(c, ErrCodeInvalidRequest, "invalid product id")
		return 0, false
	}
	return uint(id), true
}
