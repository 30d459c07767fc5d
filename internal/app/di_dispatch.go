package app

import (
	"github.com/brandwire/dispatch/internal/dispatch/executor"
	dispatchUseCase "github.com/brandwire/dispatch/internal/dispatch/usecase"
)

// Executor returns the companion-service execution client.
func (c *Container) Executor() dispatchUseCase.Executor {
	c.executorInit.Do(func() {
		c.executor = executor.NewClient(executor.Config{
			BaseURL: c.config.ExecutorBaseURL,
			Secret:  c.config.ExecutorSecret,
			Timeout: c.config.ExecutorTimeout,
		}, c.Logger())
	})
	return c.executor
}

// Dispatcher returns the dispatch pipeline.
func (c *Container) Dispatcher() (*dispatchUseCase.Dispatcher, error) {
	c.dispatcherInit.Do(func() {
		repo, err := c.WorkItemRepository()
		if err != nil {
			c.initErrors["dispatcher"] = err
			return
		}

		admitter, err := c.RateLimitUseCase()
		if err != nil {
			c.initErrors["dispatcher"] = err
			return
		}

		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			c.initErrors["dispatcher"] = err
			return
		}

		c.dispatcher = dispatchUseCase.NewDispatcher(
			repo,
			admitter,
			c.ConnectionResolver(),
			c.ToolResolver(),
			c.Executor(),
			businessMetrics,
			c.Logger(),
		)
	})
	if storedErr, exists := c.initErrors["dispatcher"]; exists {
		return nil, storedErr
	}
	return c.dispatcher, nil
}

// Worker returns the queue polling worker.
func (c *Container) Worker() (*dispatchUseCase.Worker, error) {
	c.workerInit.Do(func() {
		repo, err := c.WorkItemRepository()
		if err != nil {
			c.initErrors["worker"] = err
			return
		}

		dispatcher, err := c.Dispatcher()
		if err != nil {
			c.initErrors["worker"] = err
			return
		}

		c.worker = dispatchUseCase.NewWorker(repo, dispatcher, dispatchUseCase.WorkerConfig{
			Interval:  c.config.WorkerInterval,
			BatchSize: c.config.WorkerBatchSize,
		}, c.Logger())
	})
	if storedErr, exists := c.initErrors["worker"]; exists {
		return nil, storedErr
	}
	return c.worker, nil
}
