package app

import (
	webhookRepository "github.com/brandwire/dispatch/internal/webhook/repository"
	webhookUseCase "github.com/brandwire/dispatch/internal/webhook/usecase"
)

// EventCache returns the connection-event cache: Redis-backed when
// REDIS_ADDR is set, in-process otherwise.
func (c *Container) EventCache() webhookUseCase.EventCache {
	c.eventCacheInit.Do(func() {
		if client := c.RedisClient(); client != nil {
			c.eventCache = webhookRepository.NewRedisEventCache(client, c.config.EventCacheTTL)
			return
		}
		c.eventCache = webhookRepository.NewMemoryEventCache(
			c.config.EventCacheTTL,
			c.config.EventCacheCapacity,
		)
	})
	return c.eventCache
}

// WebhookUseCase returns the connection-event ingestion use case.
func (c *Container) WebhookUseCase() (webhookUseCase.WebhookUseCase, error) {
	c.webhookUseCaseInit.Do(func() {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["webhookUseCase"] = err
			return
		}

		c.webhookUseCase = webhookUseCase.NewWebhookUseCaseWithMetrics(
			webhookUseCase.NewWebhookUseCase(c.EventCache(), c.Logger()),
			businessMetrics,
		)
	})
	if storedErr, exists := c.initErrors["webhookUseCase"]; exists {
		return nil, storedErr
	}
	return c.webhookUseCase, nil
}
