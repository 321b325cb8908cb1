package main

import (
	"fmt"
	"sync"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// spinner renders a single-line terminal spinner with an updatable
// message. One goroutine per active spin; stop clears the line.
type spinner struct {
	mu     sync.Mutex
	msg    string
	stopCh chan struct{}
	doneCh chan struct{}
}

func newSpinner() *spinner {
	return &spinner{}
}

// start begins spinning with the given message. No-op if already active.
func (s *spinner) start(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopCh != nil {
		s.msg = msg
		return
	}

	s.msg = msg
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	go s.run(s.stopCh, s.doneCh)
}

// setMessage swaps the spinner text in place.
func (s *spinner) setMessage(msg string) {
	s.mu.Lock()
	s.msg = msg
	s.mu.Unlock()
}

// stop halts the spinner and clears its line. No-op if not active.
func (s *spinner) stop() {
	s.mu.Lock()
	stopCh, doneCh := s.stopCh, s.doneCh
	s.stopCh, s.doneCh = nil, nil
	s.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-doneCh
}

func (s *spinner) run(stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)

	ticker := time.NewTicker(80 * time.Millisecond)
	defer ticker.Stop()

	frame := 0
	for {
		select {
		case <-stopCh:
			fmt.Print("\r\033[K")
			return
		case <-ticker.C:
			s.mu.Lock()
			msg := s.msg
			s.mu.Unlock()

			fmt.Printf("\r\033[K%s %s", spinnerStyle.Render(spinnerFrames[frame]), spinnerStyle.Render(msg))
			frame = (frame + 1) % len(spinnerFrames)
		}
	}
}
