// Package telemetry records build activity as OpenTelemetry spans.
package telemetry

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultSizeLimit is the default buffer size (4KB) if not specified.
	DefaultSizeLimit = 4096
	// DefaultTimeLimit is the default flush interval (50ms) if not specified.
	DefaultTimeLimit = 50 * time.Millisecond
)

// ErrBatcherClosed is returned by Write after Close.
var ErrBatcherClosed = errors.New("line batcher is closed")

// LineBatcher buffers writes and hands complete lines to a callback once a size
// or time limit is reached. A trailing partial line is held until it is completed
// or the batcher is closed. It is safe for concurrent use.
type LineBatcher struct {
	sizeLimit int
	timeLimit time.Duration
	onFlush   func(lines []string)

	mu     sync.Mutex
	buffer *bytes.Buffer
	ticker *time.Ticker
	stopCh chan struct{}
	closed bool
}

// NewLineBatcher returns a started LineBatcher. Non-positive limits select the
// defaults. Call Close to stop the background ticker.
func NewLineBatcher(sizeLimit int, timeLimit time.Duration, onFlush func([]string)) *LineBatcher {
	if sizeLimit <= 0 {
		sizeLimit = DefaultSizeLimit
	}
	if timeLimit <= 0 {
		timeLimit = DefaultTimeLimit
	}

	lb := &LineBatcher{
		sizeLimit: sizeLimit,
		timeLimit: timeLimit,
		onFlush:   onFlush,
		buffer:    new(bytes.Buffer),
		stopCh:    make(chan struct{}),
	}

	lb.ticker = time.NewTicker(timeLimit)
	go lb.run()

	return lb
}

// Write appends p to the buffer, flushing complete lines once sizeLimit is reached.
func (lb *LineBatcher) Write(p []byte) (int, error) {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if lb.closed {
		return 0, ErrBatcherClosed
	}

	n, err := lb.buffer.Write(p)
	if err != nil {
		return n, err
	}

	if lb.buffer.Len() >= lb.sizeLimit {
		lb.flushLocked(false)
		lb.ticker.Reset(lb.timeLimit)
	}

	return n, nil
}

// Flush hands all complete lines to the callback.
func (lb *LineBatcher) Flush() {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	if lb.closed {
		return
	}
	lb.flushLocked(false)
}

// Close stops the background flusher and flushes everything, including a partial line.
func (lb *LineBatcher) Close() error {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	if lb.closed {
		return nil
	}

	lb.closed = true
	close(lb.stopCh)
	lb.flushLocked(true)
	return nil
}

func (lb *LineBatcher) run() {
	for {
		select {
		case <-lb.ticker.C:
			lb.Flush()
		case <-lb.stopCh:
			lb.ticker.Stop()
			return
		}
	}
}

// flushLocked must be called with mu held.
func (lb *LineBatcher) flushLocked(all bool) {
	data := lb.buffer.Bytes()
	end := bytes.LastIndexByte(data, '\n') + 1
	// A single oversized line is emitted whole rather than growing without bound.
	if all || (end == 0 && len(data) >= lb.sizeLimit) {
		end = len(data)
	}
	if end == 0 {
		return
	}

	chunk := string(data[:end])
	lb.buffer.Next(end)
	if lb.buffer.Len() == 0 {
		lb.buffer.Reset()
	}

	lines := splitLines(chunk)
	if len(lines) > 0 && lb.onFlush != nil {
		lb.onFlush(lines)
	}
}

func splitLines(chunk string) []string {
	var lines []string
	for line := range strings.Lines(chunk) {
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
