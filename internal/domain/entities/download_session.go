package entities

import (
	"bytes"
	"io"
	"sync/atomic"
)

// MaxCapacityHint bounds the buffer pre-sizing of a session. Larger archives
// still drain, the buffer just grows while reading.
const MaxCapacityHint = 64 * 1024 * 1024

// ProgressFunc is invoked once per received chunk with the chunk size and
// the running total.
type ProgressFunc func(chunk, total int64)

// DownloadSession is a single archive fetch. It exclusively owns its stream:
// Drain consumes it once, and Close releases it whether or not it was drained.
type DownloadSession struct {
	URL string

	body     io.ReadCloser
	capacity int64
	received atomic.Int64
	progress ProgressFunc
	consumed bool
}

// NewDownloadSession wraps an open response body. capacity pre-sizes the
// buffer Drain fills; it is a hint, not a limit, and is clamped to
// [0, MaxCapacityHint].
func NewDownloadSession(url string, body io.ReadCloser, capacity int64) *DownloadSession {
	capacity = min(max(capacity, 0), MaxCapacityHint)
	return &DownloadSession{URL: url, body: body, capacity: capacity}
}

// OnProgress registers a callback for every received chunk. It must be set
// before Drain.
func (s *DownloadSession) OnProgress(progress ProgressFunc) {
	s.progress = progress
}

// Received returns the number of bytes read from the stream so far.
// It is safe to call while Drain runs on another goroutine.
func (s *DownloadSession) Received() int64 {
	return s.received.Load()
}

// Drain reads the stream to completion and returns the accumulated bytes.
// Any read error aborts the download and the partial bytes are dropped.
func (s *DownloadSession) Drain() ([]byte, error) {
	if s.consumed {
		return nil, NewOperationError("download", s.URL, ErrSessionConsumed, nil)
	}
	s.consumed = true
	defer s.body.Close()

	buffer := bytes.NewBuffer(make([]byte, 0, s.capacity))
	reader := NewProgressReader(s.body, func(n int64) {
		total := s.received.Add(n)
		if s.progress != nil {
			s.progress(n, total)
		}
	})

	if _, err := buffer.ReadFrom(reader); err != nil {
		return nil, NewOperationError("download", s.URL, ErrTransport, err)
	}
	return buffer.Bytes(), nil
}

// Close releases the underlying connection. Closing an undrained session
// abandons the download.
func (s *DownloadSession) Close() error {
	s.consumed = true
	return s.body.Close()
}
