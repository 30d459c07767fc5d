package app

import (
	"fmt"

	ratelimitRepository "github.com/brandwire/dispatch/internal/ratelimit/repository"
	ratelimitUseCase "github.com/brandwire/dispatch/internal/ratelimit/usecase"
)

// RateBucketRepository returns the rate bucket repository for the configured driver.
func (c *Container) RateBucketRepository() (ratelimitUseCase.RateBucketRepository, error) {
	c.rateBucketRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["rateBucketRepo"] = fmt.Errorf("failed to get database for rate bucket repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.rateBucketRepo = ratelimitRepository.NewMySQLRateBucketRepository(db)
		case "postgres":
			c.rateBucketRepo = ratelimitRepository.NewPostgreSQLRateBucketRepository(db)
		default:
			c.initErrors["rateBucketRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["rateBucketRepo"]; exists {
		return nil, storedErr
	}
	return c.rateBucketRepo, nil
}

// RateLimitUseCase returns the admission control use case.
func (c *Container) RateLimitUseCase() (ratelimitUseCase.RateLimitUseCase, error) {
	c.rateLimitUseCaseInit.Do(func() {
		repo, err := c.RateBucketRepository()
		if err != nil {
			c.initErrors["rateLimitUseCase"] = err
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["rateLimitUseCase"] = err
			return
		}

		c.rateLimitUseCase = ratelimitUseCase.NewRateLimitUseCaseWithMetrics(
			ratelimitUseCase.NewRateLimitUseCase(ratelimitUseCase.Config{
				HourlyLimit: c.config.HourlyPostLimit,
				DailyLimit:  c.config.DailyPostLimit,
			}, repo, c.Logger()),
			businessMetrics,
		)
	})
	if storedErr, exists := c.initErrors["rateLimitUseCase"]; exists {
		return nil, storedErr
	}
	return c.rateLimitUseCase, nil
}
