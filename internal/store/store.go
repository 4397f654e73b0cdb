// Package store reads, writes and watches the published content document.
package store

import (
	"context"
	"fmt"

	"github.com/debemdeboas/denuo-web/internal/model"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

var storeLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	storeLogger = l
}

// Unsubscribe stops a subscription. Calling it more than once is a no-op.
type Unsubscribe func()

type DocumentStore interface {
	// Get returns ErrNotFound when no document exists under key.
	Get(ctx context.Context, key model.DocumentKey) (*model.SiteContent, error)
	Set(ctx context.Context, key model.DocumentKey, content *model.SiteContent) error

	// Subscribe calls onChange with the new document every time it changes after the call.
	Subscribe(key model.DocumentKey, onChange func(*model.SiteContent)) Unsubscribe

	Close() error
}

var ErrNotFound = errors.New("document not found")

// Error is returned by every backend for a failed read or write.
type Error struct {
	Op  string
	Key model.DocumentKey
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrap(op string, key model.DocumentKey, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Key: key, Err: errors.WithStack(err)}
}
