package httpgin

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kirinyoku/theatrego/internal/domain"
	"github.com/kirinyoku/theatrego/internal/service"
)

// @Summary  List bookings
// @Tags     admin
// @Success  200  {array}  domain.Booking
// @Router   /api/admin/bookings [get]
func handleListBookings(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Booking.List(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Update booking status
// @Tags     admin
// @Param    id  path  int  true  "Booking ID"
// @Param    req body  UpdateBookingStatusRequest true "payload"
// @Success  200  {object}  domain.Booking
// @Failure  400  {object}  ErrorResponse
// @Failure  404  {object}  ErrorResponse
// @Router   /api/admin/bookings/{id}/status [put]
func handleUpdateBookingStatus(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req UpdateBookingStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		b, err := svcs.Booking.UpdateStatus(c.Request.Context(), id, domain.BookingStatus(req.Status))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, b)
	}
}

// @Summary  List contact messages
// @Tags     admin
// @Success  200  {array}  domain.Contact
// @Router   /api/admin/contacts [get]
func handleListContacts(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Booking.ListContacts(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  List theatres
// @Tags     admin
// @Success  200  {array}  domain.Theatre
// @Router   /api/admin/theatres [get]
func handleListTheatres(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Admin.ListTheatres(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Create theatre
// @Tags     admin
// @Param    req body  TheatreRequest true "payload"
// @Success  201  {object}  domain.Theatre
// @Failure  409  {object}  ErrorResponse
// @Router   /api/admin/theatres [post]
func handleCreateTheatre(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req TheatreRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		t, err := svcs.Admin.CreateTheatre(c.Request.Context(), req.toDomain(0))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, t)
	}
}

// @Summary  Update theatre
// @Tags     admin
// @Param    id  path  int  true  "Theatre ID"
// @Param    req body  TheatreRequest true "payload"
// @Success  200  {object}  domain.Theatre
// @Failure  404  {object}  ErrorResponse
// @Failure  409  {object}  ErrorResponse
// @Router   /api/admin/theatres/{id} [put]
func handleUpdateTheatre(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req TheatreRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		t, err := svcs.Admin.UpdateTheatre(c.Request.Context(), req.toDomain(id))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, t)
	}
}

// @Summary  Delete theatre
// @Tags     admin
// @Param    id  path  int  true  "Theatre ID"
// @Success  204
// @Failure  404  {object}  ErrorResponse
// @Router   /api/admin/theatres/{id} [delete]
func handleDeleteTheatre(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		deleteByID(c, svcs.Admin.DeleteTheatre)
	}
}

// @Summary  List packages
// @Tags     admin
// @Success  200  {array}  domain.Package
// @Router   /api/admin/packages [get]
func handleListPackages(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Admin.ListPackages(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Create package
// @Tags     admin
// @Param    req body  PackageRequest true "payload"
// @Success  201  {object}  domain.Package
// @Router   /api/admin/packages [post]
func handleCreatePackage(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PackageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		p, err := svcs.Admin.CreatePackage(c.Request.Context(), req.toDomain(0))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, p)
	}
}

// @Summary  Update package
// @Tags     admin
// @Param    id  path  int  true  "Package ID"
// @Param    req body  PackageRequest true "payload"
// @Success  200  {object}  domain.Package
// @Failure  404  {object}  ErrorResponse
// @Router   /api/admin/packages/{id} [put]
func handleUpdatePackage(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req PackageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		p, err := svcs.Admin.UpdatePackage(c.Request.Context(), req.toDomain(id))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

// @Summary  Delete package
// @Tags     admin
// @Param    id  path  int  true  "Package ID"
// @Success  204
// @Router   /api/admin/packages/{id} [delete]
func handleDeletePackage(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		deleteByID(c, svcs.Admin.DeletePackage)
	}
}

// @Summary  List addons
// @Tags     admin
// @Success  200  {array}  domain.Addon
// @Router   /api/admin/addons [get]
func handleListAddons(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Admin.ListAddons(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Create addon
// @Tags     admin
// @Param    req body  AddonRequest true "payload"
// @Success  201  {object}  domain.Addon
// @Router   /api/admin/addons [post]
func handleCreateAddon(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddonRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		a, err := svcs.Admin.CreateAddon(c.Request.Context(), req.toDomain(0))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusCreated, a)
	}
}

// @Summary  Update addon
// @Tags     admin
// @Param    id  path  int  true  "Addon ID"
// @Param    req body  AddonRequest true "payload"
// @Success  200  {object}  domain.Addon
// @Router   /api/admin/addons/{id} [put]
func handleUpdateAddon(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseInt64Param(c, "id")
		if !ok {
			return
		}
		var req AddonRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, err.Error())
			return
		}
		a, err := svcs.Admin.UpdateAddon(c.Request.Context(), req.toDomain(id))
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, a)
	}
}

// @Summary  Delete addon
// @Tags     admin
// @Param    id  path  int  true  "Addon ID"
// @Success  204
// @Router   /api/admin/addons/{id} [delete]
func handleDeleteAddon(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		deleteByID(c, svcs.Admin.DeleteAddon)
	}
}

// @Summary  List gallery images
// @Tags     admin
// @Success  200  {array}  domain.GalleryImage
// @Router   /api/admin/gallery [get]
func handleListGallery(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := svcs.Admin.ListGalleryImages(c.Request.Context())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

// @Summary  Delete gallery image
// @Tags     admin
// @Param    id  path  int  true  "Image ID"
// @Success  204
// @Router   /api/admin/gallery/{id} [delete]
func handleDeleteGalleryImage(svcs *service.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		deleteByID(c, svcs.Admin.DeleteGalleryImage)
	}
}

func deleteByID(c *gin.Context, del func(ctx context.Context, id int64) error) {
	id, ok := parseInt64Param(c, "id")
	if !ok {
		return
	}
	if err := del(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
