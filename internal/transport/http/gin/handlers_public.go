package httpgin

import (
	"net/http"

	"github.com/gin-gonic/gin"

	redisrepo "github.com/kirinyoku/theatrego/internal/repository/redis"
	"github.com/kirinyoku/theatrego/internal/service"
)

// @Summary  Website catalog
// @Description Active theatres, packages, addons and gallery images.
// @Success  200  {object}  domain.WebsiteData
// @Failure  500  {object}  ErrorResponse
// @Router   /api/data [get]
func handleWebsiteData(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		data, err := svcs.Website.Data(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		writeJSONWithCache(c, http.StatusOK, data, "public, max-age=60", true)
	}
}

// @Summary  Slot availability
// @Description Without theatre: free slot count of every active theatre. With
// @Description theatre: number of free slots of that theatre.
// @Param    date     query  string  true   "YYYY-MM-DD"
// @Param    theatre  query  string  false  "theatre name"
// @Success  200  {object}  AvailabilityResponse
// @Success  200  {object}  TheatreSlotsResponse
// @Failure  400  {object}  ErrorResponse
// @Failure  500  {object}  ErrorResponse
// @Router   /api/slots/availability [get]
func handleSlotAvailability(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		date := c.Query("date")

		// results carry a random draw and are never cached
		c.Header("Cache-Control", "no-store")

		if theatre, ok := c.GetQuery("theatre"); ok {
			res, err := svcs.Availability.ForTheatre(c.Request.Context(), date, theatre)
			if err != nil {
				respondErr(c, err)
				return
			}
			c.JSON(http.StatusOK, TheatreSlotsResponse{AvailableSlots: res.Count()})
			return
		}

		out, err := svcs.Availability.All(c.Request.Context(), date)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, AvailabilityResponse{Availability: out})
	}
}

// @Summary  Create booking (idempotent)
// @Param    req body  CreateBookingRequest true "payload"
// @Param    Idempotency-Key header string false "dedup key"
// @Success  201 {object} domain.Booking
// @Failure  400 {object} ErrorResponse
// @Failure  409 {object} ErrorResponse "idem in progress"
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /api/bookings [post]
func handleCreateBooking(svcs *service.Services, idem *redisrepo.IdempotencyStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateBookingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		in, err := req.toDomain()
		if err != nil {
			badRequest(c, "invalid datetime (RFC3339)")
			return
		}

		rlKey := "ip:" + c.ClientIP()

		withIdempotency(c, idem, redisrepo.KeyIdemBooking, http.StatusCreated, func() (any, error) {
			return svcs.Booking.Create(c.Request.Context(), in, rlKey)
		})
	}
}

// @Summary  Send contact message
// @Param    req body  CreateContactRequest true "payload"
// @Success  201 {object} domain.Contact
// @Failure  400 {object} ErrorResponse
// @Failure  429 {object} ErrorResponse "rate limited"
// @Router   /api/contacts [post]
func handleCreateContact(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateContactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}

		ct, err := svcs.Booking.CreateContact(
			c.Request.Context(),
			req.Name,
			req.Email,
			req.Message,
			"ip:"+c.ClientIP(),
		)
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, ct)
	}
}
