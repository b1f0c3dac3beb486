package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/cardstack/pkg/observability"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// stageSpinner animates a status line for a pipeline run. It is installed as
// the pipeline hooks for the duration of the run, so the line follows the
// stage being executed ("laying out", then "rendering").
type stageSpinner struct {
	observability.NoopPipelineHooks

	w      io.Writer
	parent context.Context
	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	message string
	width   int // widest line written, for clearing
	stages  []string

	prevHooks observability.PipelineHooks
	stopOnce  sync.Once
	stopped   chan struct{}
}

// newStageSpinner creates a spinner writing to w that stops when ctx ends.
func newStageSpinner(parent context.Context, w io.Writer, message string) *stageSpinner {
	ctx, cancel := context.WithCancel(parent)
	return &stageSpinner{
		w:       w,
		parent:  parent,
		ctx:     ctx,
		cancel:  cancel,
		message: message,
		stopped: make(chan struct{}),
	}
}

// Start begins the animation and routes pipeline events to the spinner until
// Stop is called.
func (s *stageSpinner) Start() {
	s.prevHooks = observability.Pipeline()
	observability.SetPipelineHooks(s)
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.draw(spinnerFrames[i%len(spinnerFrames)])
			}
		}
	}()
}

// Stop ends the animation, clears the line and detaches the hooks. It is
// safe to call more than once.
func (s *stageSpinner) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		<-s.stopped
		observability.SetPipelineHooks(s.prevHooks)
		s.clear()
	})
}

// StopWithError stops the spinner and prints msg as an error.
func (s *stageSpinner) StopWithError(msg string) {
	s.Stop()
	printError("%s", msg)
}

// Cancelled reports whether the context the spinner was created with ended.
func (s *stageSpinner) Cancelled() bool {
	return s.parent.Err() != nil
}

// Stages returns the stage messages seen so far, in order.
func (s *stageSpinner) Stages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.stages...)
}

func (s *stageSpinner) setMessage(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = msg
	s.stages = append(s.stages, msg)
}

func (s *stageSpinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line := styleIconSpinner.Render(frame) + " " + StyleDim.Render(s.message)
	s.width = max(s.width, len(s.message)+2)
	fmt.Fprintf(s.w, "\r%s", line)
}

func (s *stageSpinner) clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width == 0 {
		return
	}
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width+2))
}

func (s *stageSpinner) OnLayoutStart(_ context.Context, arrangement string, count int) {
	s.setMessage(fmt.Sprintf("Laying out %d cards (%s)...", count, arrangement))
}

func (s *stageSpinner) OnRenderStart(_ context.Context, formats []string) {
	s.setMessage(fmt.Sprintf("Rendering %s...", strings.Join(formats, ", ")))
}
