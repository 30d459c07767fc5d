package app

import (
	"fmt"

	queueRepository "github.com/brandwire/dispatch/internal/queue/repository"
	queueUseCase "github.com/brandwire/dispatch/internal/queue/usecase"
)

// WorkItemRepository returns the work item repository for the configured driver.
func (c *Container) WorkItemRepository() (queueUseCase.WorkItemRepository, error) {
	c.workItemRepoInit.Do(func() {
		db, err := c.DB()
		if err != nil {
			c.initErrors["workItemRepo"] = fmt.Errorf("failed to get database for work item repository: %w", err)
			return
		}

		switch c.config.DBDriver {
		case "mysql":
			c.workItemRepo = queueRepository.NewMySQLWorkItemRepository(db)
		case "postgres":
			c.workItemRepo = queueRepository.NewPostgreSQLWorkItemRepository(db)
		default:
			c.initErrors["workItemRepo"] = fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
		}
	})
	if storedErr, exists := c.initErrors["workItemRepo"]; exists {
		return nil, storedErr
	}
	return c.workItemRepo, nil
}

// WorkItemUseCase returns the work item use case instance.
func (c *Container) WorkItemUseCase() (queueUseCase.WorkItemUseCase, error) {
	c.workItemUseCaseInit.Do(func() {
		repo, err := c.WorkItemRepository()
		if err != nil {
			c.initErrors["workItemUseCase"] = err
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["workItemUseCase"] = err
			return
		}

		c.workItemUseCase = queueUseCase.NewWorkItemUseCaseWithMetrics(
			queueUseCase.NewWorkItemUseCase(repo),
			businessMetrics,
		)
	})
	if storedErr, exists := c.initErrors["workItemUseCase"]; exists {
		return nil, storedErr
	}
	return c.workItemUseCase, nil
}

// Sweeper returns the posting-lease sweeper.
func (c *Container) Sweeper() (*queueUseCase.Sweeper, error) {
	c.sweeperInit.Do(func() {
		repo, err := c.WorkItemRepository()
		if err != nil {
			c.initErrors["sweeper"] = err
			return
		}

		c.sweeper = queueUseCase.NewSweeper(queueUseCase.SweeperConfig{
			Interval:      c.config.SweepInterval,
			LeaseDuration: c.config.PostingLeaseDuration,
		}, repo, c.Logger())
	})
	if storedErr, exists := c.initErrors["sweeper"]; exists {
		return nil, storedErr
	}
	return c.sweeper, nil
}
