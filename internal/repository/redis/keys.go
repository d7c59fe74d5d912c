package redisrepo

import "fmt"

const ns = "theatrego:v1"

func KeyWebsiteData() string {
	return ns + ":website:data"
}

func KeyRateLimit(scope, id string) string {
	return fmt.Sprintf("%s:rl:%s:%s", ns, scope, id)
}

func KeyIdemBooking(idemKey string) string {
	return fmt.Sprintf("%s:idem:bookings:%s", ns, idemKey)
}

func ChannelCatalogChanged() string {
	return ns + ":catalog:changed"
}
