package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"productapp/internal/storage"
)

// Router builds the gin engine with the full middleware chain. Identity
// extraction runs before policy evaluation on every route, including
// unregistered paths, so unknown routes fall under the policy default.
func (h *HTTPHandler) Router() *gin.Engine {
	r := gin.New()

	r.Use(LoggingMiddleware())
	r.Use(CORSMiddleware())
	r.Use(gin.Recovery())
	r.Use(h.IdentityMiddleware())
	r.Use(h.PolicyMiddleware())

	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	authGroup := r.Group("/auth")
	authGroup.POST("/register", h.Register)
	authGroup.POST("/login", h.Login)
	authGroup.GET("/me", h.Me)

	products := r.Group("/api/products")
	products.POST("", h.CreateProduct)
	products.GET("", h.ListProducts)
	products.GET("/search", h.SearchProducts)
	products.GET("/search/name", h.SearchProductsByName)
	products.GET("/category/:category", h.ListProductsByCategory)
	products.GET("/:id", h.GetProduct)
	products.PUT("/:id", h.UpdateProduct)
	products.DELETE("/:id", h.DeleteProduct)
	products.POST("/:id/image", h.UploadProductImage)

	// Serve locally stored product images when the backend exposes a directory
	// and the public base is a path rather than a full URL.
	if localProvider, ok := h.storage.(storage.LocalBaseDirProvider); ok {
		publicPrefix := h.storagePublicBase
		if !strings.HasPrefix(publicPrefix, "http://") && !strings.HasPrefix(publicPrefix, "https://") {
			r.Static(publicPrefix, localProvider.LocalBaseDir())
		}
	}

	return r
}

// CORSMiddleware handles cross-origin requests.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// LoggingMiddleware records one access-log line per request.
func LoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)
		logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"duration":  duration.String(),
			"size":      c.Writer.Size(),
			"client_ip": c.ClientIP(),
		}).Info("http_request")
	}
}
