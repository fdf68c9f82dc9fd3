package main

import (
	"bufio"
	"fmt"
	"os"
	"sync"

	"kopi-orderflow/internal/geo"
	"kopi-orderflow/internal/location"
)

// stdinSource reads device fixes as "lat,lng" lines from stdin, one fix per
// line. Malformed lines are reported through onError and skipped.
type stdinSource struct {
	mu      sync.Mutex
	stopped bool
}

func newStdinSource() location.PositionSource {
	return &stdinSource{}
}

func (s *stdinSource) Watch(onFix func(geo.Coordinate), onError func(error)) (func(), error) {
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			s.mu.Lock()
			stopped := s.stopped
			s.mu.Unlock()
			if stopped {
				return
			}

			var c geo.Coordinate
			if _, err := fmt.Sscanf(scanner.Text(), "%f,%f", &c.Lat, &c.Lng); err != nil {
				onError(fmt.Errorf("bad fix %q: %w", scanner.Text(), err))
				continue
			}
			onFix(c)
		}
	}()

	return func() {
		s.mu.Lock()
		s.stopped = true
		s.mu.Unlock()
	}, nil
}
