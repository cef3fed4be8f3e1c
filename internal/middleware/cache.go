package middleware

import (
	"bytes"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/maxcrm/maxcrm-api/internal/config"
)

// cachedResponse is the redis value for one cached GET response.
type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// bodyRecorder duplicates the response body into a buffer, capped
// at limit bytes, while streaming it to the client. Size tracks
// the full body so oversized responses are skipped entirely.
type bodyRecorder struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int
	limit  int
}

func (w *bodyRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *bodyRecorder) Write(b []byte) (int, error) {
	w.size += len(b)
	if remain := w.limit - w.buf.Len(); remain > 0 {
		if len(b) <= remain {
			w.buf.Write(b)
		} else {
			w.buf.Write(b[:remain])
		}
	}
	return w.ResponseWriter.Write(b)
}

// ResponseCache caches successful GET responses in redis. The key
// includes the authenticated user's id: every response in this API
// is tenant-scoped, so entries must never be shared across users.
// With no redis client the middleware is a no-op.
func ResponseCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				// Mutations drop the user's cached pages so list
				// endpoints never serve rows that were just changed.
				err := next(c)
				if err == nil && c.Response().Status < http.StatusBadRequest {
					invalidateUser(c, cfg, rdb)
				}
				return err
			}
			key := cacheKey(cfg.Prefix, c)
			ctx := c.Request().Context()

			if raw, err := rdb.Get(ctx, key).Bytes(); err == nil {
				var cr cachedResponse
				if json.Unmarshal(raw, &cr) == nil {
					c.Response().Header().Set("X-Cache", "HIT")
					return c.Blob(cr.Status, cr.ContentType, cr.Body)
				}
			}

			rec := &bodyRecorder{
				ResponseWriter: c.Response().Writer,
				status:         http.StatusOK,
				limit:          cfg.MaxBodyBytes,
			}
			c.Response().Writer = rec
			c.Response().Header().Set("X-Cache", "MISS")

			if err := next(c); err != nil {
				return err
			}

			if rec.status == http.StatusOK && rec.size <= cfg.MaxBodyBytes {
				cr := cachedResponse{
					Status:      rec.status,
					ContentType: c.Response().Header().Get(echo.HeaderContentType),
					Body:        rec.buf.Bytes(),
				}
				if raw, err := json.Marshal(cr); err == nil {
					_ = rdb.Set(ctx, key, raw, cfg.TTL).Err()
				}
			}
			return nil
		}
	}
}

// invalidateUser drops every cache entry belonging to one user;
// the TTL bounds staleness if a SCAN pass ever fails part-way.
func invalidateUser(c echo.Context, cfg config.CacheConfig, rdb *redis.Client) {
	uid, ok := c.Get("user_id").(uint64)
	if !ok {
		return
	}
	ctx := c.Request().Context()
	pattern := fmt.Sprintf("%s:u%d:*", cfg.Prefix, uid)
	iter := rdb.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		_ = rdb.Del(ctx, iter.Val()).Err()
	}
}

func cacheKey(prefix string, c echo.Context) string {
	who := "guest"
	if uid, ok := c.Get("user_id").(uint64); ok {
		who = "u" + strconv.FormatUint(uid, 10)
	}
	sum := sha1.Sum([]byte(c.Path() + "?" + c.Request().URL.RawQuery))
	return fmt.Sprintf("%s:%s:%x", prefix, who, sum[:])
}
