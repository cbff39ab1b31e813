package middleware

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"topup/internal/repositories"
	"topup/internal/repositories/cache"
	"topup/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const (
	HeaderIdempotencyKey = "Idempotency-Key"
	HeaderIdempotencyHit = "X-Idempotency-Hit"

	maxIdempotencyKeyLen = 255
)

type storedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"contentType"`
	Body        []byte `json:"body"`
	// RequestHash is the SHA-256 of the request body the response answered.
	RequestHash string `json:"requestHash"`
}

// Idempotency replays the first successful response stored for the caller's
// Idempotency-Key on the same route. A key reused with a different body is
// rejected with 422. Requests without the header pass through. It must run
// after AuthMiddleware.Handler, since keys are scoped per user.
func Idempotency(store repositories.CacheRepository, ttl time.Duration, log *logrus.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := c.Get(HeaderIdempotencyKey)
		if key == "" {
			return c.Next()
		}
		if len(key) > maxIdempotencyKeyLen {
			return utils.BadRequest(c, "Idempotency-Key is too long")
		}

		user, err := utils.CurrentUser(c)
		if err != nil {
			return utils.Unauthorized(c, "Unauthorized")
		}
		cacheKey := cache.IdempotencyKey(user.ID, c.Method()+" "+c.Route().Path, key)
		requestHash := hashBody(c.Body())
		ctx := c.UserContext()

		var stored storedResponse
		found, err := store.Get(ctx, cacheKey, &stored)
		if err != nil {
			log.WithError(err).WithField("key", cacheKey).Warn("idempotency lookup failed")
		}
		if found {
			if stored.RequestHash != requestHash {
				return utils.Message(c, fiber.StatusUnprocessableEntity,
					"Idempotency-Key was already used with a different request")
			}
			c.Set(HeaderIdempotencyHit, "true")
			if stored.ContentType != "" {
				c.Set(fiber.HeaderContentType, stored.ContentType)
			}
			return c.Status(stored.Status).Send(stored.Body)
		}

		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
			return nil
		}
		stored = storedResponse{
			Status:      status,
			ContentType: string(c.Response().Header.ContentType()),
			Body:        append([]byte(nil), c.Response().Body()...),
			RequestHash: requestHash,
		}
		if err := store.Set(ctx, cacheKey, stored, ttl); err != nil {
			log.WithError(err).WithField("key", cacheKey).Warn("idempotency store failed")
		}
		return nil
	}
}

func hashBody(body []byte) string {
	sum := sha256.Sum256(body)
	return hex.EncodeToString(sum[:])
}
