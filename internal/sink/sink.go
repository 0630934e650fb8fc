// Package sink is the delivery boundary of every export. Encoders produce
// bytes; a Sink hands them to the host (a directory on disk, or an in-memory
// Recorder in tests). Printable documents are not delivered as files but
// presented in a new window through a Presenter.
package sink

import (
	"context"
	"errors"
)

// ErrEmptyFilename is returned when a delivery has no file name.
var ErrEmptyFilename = errors.New("sink: empty filename")

// Sink delivers final file contents.
type Sink interface {
	Deliver(ctx context.Context, content []byte, filename, mimeType string) error
}

// Presenter opens new top-level windows for printable documents.
type Presenter interface {
	// Open returns a new window, or nil when the host refuses to open one
	// (for example a blocked popup). A nil window is not an error.
	Open(ctx context.Context) Window
}

// Window is an opened document window.
type Window interface {
	Write(doc string) error
}
