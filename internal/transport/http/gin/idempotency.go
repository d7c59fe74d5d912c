package httpgin

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	redisrepo "github.com/kirinyoku/theatrego/internal/repository/redis"
)

const idemLockTTL = 60 * time.Second

// withIdempotency runs create at most once per Idempotency-Key header and
// replays the stored body for repeats. Without a header or a store it just
// runs create.
func withIdempotency(
	c *gin.Context,
	idem *redisrepo.IdempotencyStore,
	storageKey func(idemKey string) string,
	status int,
	create func() (any, error),
) {
	idemKey := strings.TrimSpace(c.GetHeader("Idempotency-Key"))
	if idem == nil || idemKey == "" {
		v, err := create()
		if err != nil {
			respondErr(c, err)
			return
		}
		c.JSON(status, v)
		return
	}

	ctx := c.Request.Context()
	key := storageKey(idemKey)

	if replayStored(c, idem, key, idemKey, status) {
		return
	}

	locked, err := idem.AcquireLock(ctx, key, idemLockTTL)
	if err != nil {
		// redis unavailable: serve the request without dedup
		_ = c.Error(err)
		key = ""
	} else if !locked {
		if replayStored(c, idem, key, idemKey, status) {
			return
		}
		c.Header("Retry-After", "1")
		c.JSON(http.StatusConflict, ErrorResponse{Error: "idempotency key in progress"})
		return
	}

	v, err := create()
	if err != nil {
		if key != "" {
			_ = idem.Release(ctx, key)
		}
		respondErr(c, err)
		return
	}

	if key != "" {
		if b, err := json.Marshal(v); err == nil {
			_ = idem.SaveResult(ctx, key, string(b))
		}
	}

	c.Header("Idempotency-Key", idemKey)
	c.JSON(status, v)
}

func replayStored(c *gin.Context, idem *redisrepo.IdempotencyStore, key, idemKey string, status int) bool {
	payload, ok, _ := idem.GetResult(c.Request.Context(), key)
	if !ok {
		return false
	}

	c.Header("Idempotency-Key", idemKey)
	c.Data(status, "application/json; charset=utf-8", []byte(payload))
	return true
}
