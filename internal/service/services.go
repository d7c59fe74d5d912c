package service

import (
	"log/slog"

	postgres "github.com/kirinyoku/theatrego/internal/repository/postgres"
	redis "github.com/kirinyoku/theatrego/internal/repository/redis"
	"github.com/kirinyoku/theatrego/internal/service/admin"
	"github.com/kirinyoku/theatrego/internal/service/availability"
	"github.com/kirinyoku/theatrego/internal/service/booking"
	"github.com/kirinyoku/theatrego/internal/service/website"
)

type Services struct {
	Availability *availability.Service
	Website      *website.Service
	Booking      *booking.Service
	Admin        *admin.Service
}

type Config struct {
	Availability availability.Config
	Website      website.Config
}

func NewServices(
	store *postgres.Store,
	cache *redis.Cache,
	pubsub *redis.CatalogPubSub,
	limiter booking.Limiter,
	notifier booking.Notifier,
	logger *slog.Logger,
	cfg Config,
) *Services {
	return &Services{
		Availability: availability.New(store.Theatres(), store.Bookings(), cfg.Availability),
		Website:      website.New(store.Theatres(), store.Catalog(), cache, cfg.Website),
		Booking:      booking.New(store, limiter, notifier, logger),
		Admin:        admin.New(store, cache, pubsub, logger),
	}
}
