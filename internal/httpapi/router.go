package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

type RouterConfig struct {
	CartHandler *CartHandler
	Gatherer    prometheus.Gatherer
	Logger      *log.Entry
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(cfg.Logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	if cfg.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	if h := cfg.CartHandler; h != nil {
		carts := r.Group("/carts")
		carts.POST("", h.CreateCart)
		carts.GET("", h.ListCarts)
		carts.GET("/:id", h.GetCart)
		carts.DELETE("/:id", h.DeleteCart)
		carts.POST("/:id/items", h.AddItem)
		carts.DELETE("/:id/items", h.EmptyCart)
		carts.DELETE("/:id/items/:kind/:productID", h.RemoveItem)
		carts.POST("/:id/checkout", h.Checkout)
	}

	return r
}

func RequestLogger(logger *log.Entry) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if logger == nil {
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := c.Writer.Status()

		entry := logger.WithFields(log.Fields{
			"method":      c.Request.Method,
			"path":        path,
			"status":      status,
			"duration_ms": time.Since(start).Milliseconds(),
		})

		switch {
		case status >= 500:
			entry.Error("http request")
		case status >= 400:
			entry.Warn("http request")
		default:
			entry.Debug("http request")
		}
	}
}
