package httpgin

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	redisrepo "github.com/kirinyoku/theatrego/internal/repository/redis"
	"github.com/kirinyoku/theatrego/internal/service"
	"github.com/kirinyoku/theatrego/internal/service/admin"
	"github.com/kirinyoku/theatrego/internal/service/availability"
	"github.com/kirinyoku/theatrego/internal/service/booking"
)

type Options struct {
	// Idempotency enables Idempotency-Key handling on booking creation.
	Idempotency *redisrepo.IdempotencyStore
	CORSOrigins []string
	// AdminMiddlewares run on the /api/admin group only.
	AdminMiddlewares []gin.HandlerFunc
	// Ready backs /readyz. Nil reports ready.
	Ready func(ctx context.Context) error
}

func NewRouter(svcs *service.Services, logger *slog.Logger, opts Options) *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery(), RequestIDMiddleware(), LoggingMiddleware(logger), CORS(opts.CORSOrigins...))

	// Swagger UI
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// health
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
	})
	r.GET("/readyz", handleReady(opts.Ready))

	api := r.Group("/api")
	{
		api.GET("/data", handleWebsiteData(svcs))
		api.GET("/slots/availability", handleSlotAvailability(svcs))
		api.POST("/bookings", handleCreateBooking(svcs, opts.Idempotency))
		api.POST("/contacts", handleCreateContact(svcs))
	}

	adm := api.Group("/admin")
	for _, m := range opts.AdminMiddlewares {
		if m != nil {
			adm.Use(m)
		}
	}
	{
		adm.GET("/bookings", handleListBookings(svcs))
		adm.PUT("/bookings/:id/status", handleUpdateBookingStatus(svcs))
		adm.GET("/contacts", handleListContacts(svcs))

		adm.GET("/theatres", handleListTheatres(svcs))
		adm.POST("/theatres", handleCreateTheatre(svcs))
		adm.PUT("/theatres/:id", handleUpdateTheatre(svcs))
		adm.DELETE("/theatres/:id", handleDeleteTheatre(svcs))

		adm.GET("/packages", handleListPackages(svcs))
		adm.POST("/packages", handleCreatePackage(svcs))
		adm.PUT("/packages/:id", handleUpdatePackage(svcs))
		adm.DELETE("/packages/:id", handleDeletePackage(svcs))

		adm.GET("/addons", handleListAddons(svcs))
		adm.POST("/addons", handleCreateAddon(svcs))
		adm.PUT("/addons/:id", handleUpdateAddon(svcs))
		adm.DELETE("/addons/:id", handleDeleteAddon(svcs))

		adm.GET("/gallery", handleListGallery(svcs))
		adm.DELETE("/gallery/:id", handleDeleteGalleryImage(svcs))
	}

	return r
}

// handleReady godoc
// @Summary  Readiness
// @Tags     health
// @Produce  json
// @Success  200 {object} StatusResponse
// @Failure  503 {object} StatusResponse
// @Router   /readyz [get]
func handleReady(ready func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ready != nil {
			if err := ready(c.Request.Context()); err != nil {
				_ = c.Error(err)
				c.JSON(http.StatusServiceUnavailable, StatusResponse{Status: "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, StatusResponse{Status: "ok"})
	}
}

// --- Helpers ---

func parseInt64Param(c *gin.Context, name string) (int64, bool) {
	s := c.Param(name)
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v <= 0 {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return v, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: msg})
}

// retryAfterSeconds rounds up so a client never retries too early.
func retryAfterSeconds(rl booking.RateLimitedError) string {
	sec := int(math.Ceil(rl.RetryAfter.Seconds()))
	if sec < 1 {
		sec = 1
	}
	return strconv.Itoa(sec)
}

func respondErr(c *gin.Context, err error) {
	if err == nil {
		c.Status(http.StatusNoContent)
		return
	}

	var rl booking.RateLimitedError

	switch {
	// availability service
	case errors.Is(err, availability.ErrInvalidInput):
		badRequest(c, errMessage(err, availability.ErrInvalidInput))
		return
	// booking service
	case errors.As(err, &rl):
		c.Header("Retry-After", retryAfterSeconds(rl))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "rate limited"})
		return
	case errors.Is(err, booking.ErrInvalidBooking):
		badRequest(c, errMessage(err, booking.ErrInvalidBooking))
		return
	case errors.Is(err, booking.ErrInvalidContact):
		badRequest(c, errMessage(err, booking.ErrInvalidContact))
		return
	case errors.Is(err, booking.ErrInvalidStatus):
		badRequest(c, "invalid status")
		return
	case errors.Is(err, booking.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "booking not found"})
		return
	// admin service
	case errors.Is(err, admin.ErrInvalidTheatre):
		badRequest(c, errMessage(err, admin.ErrInvalidTheatre))
		return
	case errors.Is(err, admin.ErrInvalidPackage):
		badRequest(c, errMessage(err, admin.ErrInvalidPackage))
		return
	case errors.Is(err, admin.ErrInvalidAddon):
		badRequest(c, errMessage(err, admin.ErrInvalidAddon))
		return
	case errors.Is(err, admin.ErrTheatreConflict):
		c.JSON(http.StatusConflict, ErrorResponse{Error: "theatre already exists"})
		return
	case errors.Is(err, admin.ErrTheatreNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "theatre not found"})
		return
	case errors.Is(err, admin.ErrPackageNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "package not found"})
		return
	case errors.Is(err, admin.ErrAddonNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "addon not found"})
		return
	case errors.Is(err, admin.ErrGalleryImageNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "gallery image not found"})
		return
	}

	// recorded on the context so the access log carries it
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "server error"})
}

// errMessage returns the detail that follows sentinel in err, or the
// sentinel text itself.
func errMessage(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}
