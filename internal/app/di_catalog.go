package app

import (
	catalogClient "github.com/brandwire/dispatch/internal/catalog/client"
	catalogUseCase "github.com/brandwire/dispatch/internal/catalog/usecase"
)

// CatalogClient returns the aggregator catalog client.
func (c *Container) CatalogClient() catalogUseCase.CatalogClient {
	c.catalogClientInit.Do(func() {
		c.catalogClient = catalogClient.NewClient(catalogClient.Config{
			BaseURL: c.config.CatalogBaseURL,
			APIKey:  c.config.CatalogAPIKey,
			Timeout: c.config.CatalogTimeout,
		}, c.Logger())
	})
	return c.catalogClient
}

// ConnectionResolver returns the platform connection resolver.
func (c *Container) ConnectionResolver() *catalogUseCase.ConnectionResolver {
	c.connectionResolverInit.Do(func() {
		c.connectionResolver = catalogUseCase.NewConnectionResolver(c.CatalogClient(), c.Logger())
	})
	return c.connectionResolver
}

// ToolResolver returns the catalog tool resolver.
func (c *Container) ToolResolver() *catalogUseCase.ToolResolver {
	c.toolResolverInit.Do(func() {
		c.toolResolver = catalogUseCase.NewToolResolver(c.CatalogClient(), c.Logger())
	})
	return c.toolResolver
}

// ConnectionUseCase returns the tenant connection use case.
func (c *Container) ConnectionUseCase() (catalogUseCase.ConnectionUseCase, error) {
	c.connectionUseCaseInit.Do(func() {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["connectionUseCase"] = err
			return
		}

		c.connectionUseCase = catalogUseCase.NewConnectionUseCaseWithMetrics(
			catalogUseCase.NewConnectionUseCase(c.CatalogClient(), c.Logger()),
			businessMetrics,
		)
	})
	if storedErr, exists := c.initErrors["connectionUseCase"]; exists {
		return nil, storedErr
	}
	return c.connectionUseCase, nil
}
