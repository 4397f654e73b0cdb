// Package save writes a draft back to the document store.
package save

import (
	"context"
	"sync/atomic"

	"github.com/debemdeboas/denuo-web/internal/model"
	"github.com/debemdeboas/denuo-web/internal/util"
	"github.com/rs/zerolog"
)

var saveLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	saveLogger = l
}

// Writer is the part of store.DocumentStore the controller needs.
type Writer interface {
	Set(ctx context.Context, key model.DocumentKey, content *model.SiteContent) error
}

type SaveError struct {
	Err error
}

func (e *SaveError) Error() string {
	return "save failed: " + e.Err.Error()
}

func (e *SaveError) Unwrap() error {
	return e.Err
}

// Controller issues one full overwrite per Save. Concurrent saves all write and the last to land wins.
type Controller struct {
	store    Writer
	key      model.DocumentKey
	inFlight atomic.Int32

	onSaved func(*model.SiteContent)
}

// NewController returns a controller writing to key. onSaved, if set, receives each committed document.
func NewController(store Writer, key model.DocumentKey, onSaved func(*model.SiteContent)) *Controller {
	return &Controller{
		store:   store,
		key:     key,
		onSaved: onSaved,
	}
}

// Save writes draft under the controller's key. The write is not aborted when ctx is cancelled.
func (c *Controller) Save(ctx context.Context, draft *model.SiteContent) error {
	c.inFlight.Add(1)
	defer c.inFlight.Add(-1)

	doc := draft.Clone()
	if doc == nil {
		doc = &model.SiteContent{}
	}

	if err := c.store.Set(context.WithoutCancel(ctx), c.key, doc); err != nil {
		saveLogger.Error().Err(err).Str("key", string(c.key)).Msg("Error saving content")
		return &SaveError{Err: err}
	}

	hash, err := util.DocumentHash(doc)
	if err != nil {
		saveLogger.Warn().Err(err).Msg("Error hashing saved content")
	}
	saveLogger.Info().Str("key", string(c.key)).Str("hash", util.ShortHash(hash)).Msg("Content saved")

	if c.onSaved != nil {
		c.onSaved(doc.Clone())
	}
	return nil
}

// Saving reports whether any write is in flight. The admin shell shows it next to the draft state;
// Save never blocks on it.
func (c *Controller) Saving() bool {
	return c.inFlight.Load() > 0
}
