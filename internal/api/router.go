package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"visitor-kiosk/internal/mw"
)

// RouterOptions configures the non-handler parts of the gateway router.
type RouterOptions struct {
	RateLimit  rate.Limit
	RateBurst  int
	CacheTTL   time.Duration
	UploadsDir string
	MediaDir   string
	StaticDir  string
}

// NewRouter creates and configures the gateway router.
func NewRouter(h *Handler, opts RouterOptions, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(mw.Recovery(log), mw.RequestLogger(log), mw.CORS(), mw.ContentSecurityPolicy())

	rateLimiter := mw.RateLimiter(opts.RateLimit, opts.RateBurst)

	// Only slow-changing reads are cached; visitor lists and room status must
	// reflect check-ins on the next poll.
	cacheStore := cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	caching := mw.Cache(cacheStore, opts.CacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/visitors", h.GetVisitors)
		api.GET("/visitors/pending-checkin", h.GetPendingVisitors)
		api.POST("/visitors/accept-document/:id", h.AcceptDocument)
		api.POST("/visitors/checkin/:id", h.CheckIn)
		api.GET("/visitor-document", h.GetDocument)

		api.GET("/room-status", h.GetRoomStatus)
		api.GET("/room-bookings/today", caching, h.GetTodayBookings)
		api.GET("/media-list", caching, h.GetMediaList)
		api.GET("/health", h.Health)

		api.GET("/subscriptions", h.GetSubscription)
		api.PUT("/subscriptions", h.PutSubscription)
		api.DELETE("/subscriptions", h.DeleteSubscription)
		api.GET("/vapid_public_key", h.GetVAPIDPublicKey)
	}

	if opts.UploadsDir != "" {
		r.Static("/uploads", opts.UploadsDir)
	}
	if opts.MediaDir != "" {
		r.Static("/media", opts.MediaDir)
	}
	r.NoRoute(mw.SPAFallback(opts.StaticDir, "/api/"))

	return r
}
