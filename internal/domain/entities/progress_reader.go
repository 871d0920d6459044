package entities

import "io"

// ProgressReader forwards reads from an inner reader and reports the size of
// every non-empty chunk to a callback.
type ProgressReader struct {
	inner  io.Reader
	onRead func(n int64)
}

// NewProgressReader decorates inner with a per-chunk callback.
func NewProgressReader(inner io.Reader, onRead func(n int64)) *ProgressReader {
	return &ProgressReader{inner: inner, onRead: onRead}
}

func (r *ProgressReader) Read(p []byte) (int, error) {
	n, err := r.inner.Read(p)
	if n > 0 && r.onRead != nil {
		r.onRead(int64(n))
	}
	return n, err
}
