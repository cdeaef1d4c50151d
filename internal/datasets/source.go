package datasets

import (
	"context"
	"fmt"
	"iter"
	"net/url"

	"github.com/wpk-/aapi-versioned/internal/versioned"
)

// Fetcher reads every document of a remote collection.
type Fetcher interface {
	All(ctx context.Context, path string, params url.Values) iter.Seq2[versioned.Document, error]
}

// RemoteSource yields the records of one remote collection decoded into
// dataset rows.
type RemoteSource[T versioned.Model, PT versioned.ModelPtr[T]] struct {
	fetcher Fetcher
	path    string
	params  url.Values
	schema  versioned.Schema
}

// NewRemoteSource creates a source for the collection at path. params filter
// the collection on the remote side.
func NewRemoteSource[T versioned.Model, PT versioned.ModelPtr[T]](f Fetcher, path string, params url.Values, schema versioned.Schema) *RemoteSource[T, PT] {
	return &RemoteSource[T, PT]{fetcher: f, path: path, params: params, schema: schema}
}

// Fetch implements syncer.Source. Fetch errors pass through unchanged so
// transport failures keep their meaning; a record that cannot be decoded
// ends the fetch with a plain error.
func (s *RemoteSource[T, PT]) Fetch(ctx context.Context) iter.Seq2[T, error] {
	return func(yield func(T, error) bool) {
		var zero T
		for doc, err := range s.fetcher.All(ctx, s.path, s.params) {
			if err != nil {
				yield(zero, err)
				return
			}
			row, err := versioned.Decode[T, PT](s.schema, doc)
			if err != nil {
				yield(zero, fmt.Errorf("%s %s: %w", ErrMsgDecodeRecord, s.schema.Table, err))
				return
			}
			if !yield(row, nil) {
				return
			}
		}
	}
}
