package app

import (
	"github.com/gin-gonic/gin"

	catalogHTTP "github.com/brandwire/dispatch/internal/catalog/http"
	dispatchDomain "github.com/brandwire/dispatch/internal/dispatch/domain"
	"github.com/brandwire/dispatch/internal/http"
	queueHTTP "github.com/brandwire/dispatch/internal/queue/http"
	ratelimitHTTP "github.com/brandwire/dispatch/internal/ratelimit/http"
	webhookHTTP "github.com/brandwire/dispatch/internal/webhook/http"
)

// registerRoutes attaches the v1 API. Everything under /v1 requires the
// internal service secret except the webhook receiver, which authenticates
// by HMAC signature and is rate limited per IP instead.
func (c *Container) registerRoutes(router *gin.Engine) error {
	logger := c.Logger()

	workItemUseCase, err := c.WorkItemUseCase()
	if err != nil {
		return err
	}
	dispatcher, err := c.Dispatcher()
	if err != nil {
		return err
	}
	connectionUseCase, err := c.ConnectionUseCase()
	if err != nil {
		return err
	}
	rateLimitUseCase, err := c.RateLimitUseCase()
	if err != nil {
		return err
	}
	webhookUC, err := c.WebhookUseCase()
	if err != nil {
		return err
	}

	workItemHandler := queueHTTP.NewWorkItemHandler(workItemUseCase, dispatcher, logger)
	connectionHandler := catalogHTTP.NewConnectionHandler(
		connectionUseCase,
		dispatchDomain.ConnectionKeywordsByPlatform(),
		logger,
	)
	rateLimitHandler := ratelimitHTTP.NewRateLimitHandler(rateLimitUseCase, logger)
	webhookHandler := webhookHTTP.NewWebhookHandler(webhookUC, c.config.WebhookSigningSecret, logger)

	v1 := router.Group("/v1")

	v1.POST("/webhooks/connection-status",
		http.IPRateLimitMiddleware(
			c.config.WebhookRateLimitRequestsPerSec,
			c.config.WebhookRateLimitBurst,
			logger,
		),
		webhookHandler.IngestHandler,
	)

	authenticated := v1.Group("")
	authenticated.Use(http.InternalAuthMiddleware(c.config.InternalServiceSecret, logger))
	{
		authenticated.POST("/work-items", workItemHandler.CreateHandler)
		authenticated.GET("/work-items", workItemHandler.ListHandler)
		authenticated.GET("/work-items/:id", workItemHandler.GetHandler)
		authenticated.POST("/work-items/:id/pause", workItemHandler.PauseHandler)
		authenticated.POST("/work-items/:id/resume", workItemHandler.ResumeHandler)
		authenticated.POST("/work-items/:id/cancel", workItemHandler.CancelHandler)
		authenticated.POST("/work-items/:id/dispatch", workItemHandler.DispatchHandler)

		authenticated.GET("/tenants/:tenantID/connections", connectionHandler.ListHandler)
		authenticated.DELETE("/tenants/:tenantID/connections/:connectionID", connectionHandler.DisconnectHandler)
		authenticated.GET("/tenants/:tenantID/rate-limits", rateLimitHandler.StatusHandler)

		authenticated.GET("/connection-events/:tenantKey", webhookHandler.LatestEventHandler)
	}

	return nil
}
