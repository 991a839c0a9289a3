package cache

import (
	"sync"
	"time"
)

// sweeper runs fn on a fixed interval until stopped
type sweeper struct {
	done chan struct{}
	wg   sync.WaitGroup
}

func startSweeper(interval time.Duration, fn func()) *sweeper {
	s := &sweeper{done: make(chan struct{})}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-s.done:
				return
			case <-ticker.C:
				fn()
			}
		}
	}()
	return s
}

// stop must be called at most once
func (s *sweeper) stop() {
	close(s.done)
	s.wg.Wait()
}
