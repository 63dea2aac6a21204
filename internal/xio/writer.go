package xio

import (
	"io"
)

// NewResponseWriteCloser wraps w so it satisfies io.WriteCloser even when the
// underlying writer has no Close method, e.g. an http.ResponseWriter handed to
// the QR image encoder.
func NewResponseWriteCloser(w io.Writer) io.WriteCloser {
	return &responseWriteCloser{
		Writer: w,
	}
}

type responseWriteCloser struct {
	io.Writer
}

func (rwc *responseWriteCloser) Close() error {
	if closer, ok := rwc.Writer.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
