package workers

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
)

type Worker interface {
	Name() string
	Start(ctx context.Context) error
}

type Group []Worker

// Start runs every worker until ctx is done or any of them returns, then
// waits for all of them to stop.
func (g Group) Start(ctx context.Context) error {
	runCtx, cancelFn := context.WithCancel(ctx)
	defer cancelFn()

	var wg sync.WaitGroup
	errCh := make(chan error, len(g))

	for _, w := range g {
		wg.Add(1)
		go func(w Worker) {
			defer wg.Done()
			if err := w.Start(runCtx); err != nil {
				errCh <- fmt.Errorf("%s: %w", w.Name(), err)
			}
			cancelFn()
		}(w)
	}

	wg.Wait()
	close(errCh)

	var err error
	for workerErr := range errCh {
		err = multierror.Append(err, workerErr)
	}
	return err
}
