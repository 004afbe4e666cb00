// Package archive persists booking intents once the traveller confirms them.
package archive

import (
	"context"
	"errors"
)

// Archiver stores a confirmed intent.
type Archiver interface {
	Archive(ctx context.Context, in Intent) error
}

// ArchiverFunc adapts a function to Archiver.
type ArchiverFunc func(ctx context.Context, in Intent) error

func (f ArchiverFunc) Archive(ctx context.Context, in Intent) error {
	return f(ctx, in)
}

// Multi fans an intent out to every archiver and joins their errors.
type Multi []Archiver

func (m Multi) Archive(ctx context.Context, in Intent) error {
	var errs []error
	for _, a := range m {
		if a == nil {
			continue
		}
		if err := a.Archive(ctx, in); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
