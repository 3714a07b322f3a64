package job

import (
	"context"

	"github.com/kbukum/beer-inventory/internal/beer"
)

// Fetcher retrieves the complete catalog in one call.
type Fetcher interface {
	FetchAll(ctx context.Context) ([]beer.Beer, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context) ([]beer.Beer, error)

// FetchAll implements Fetcher.
func (f FetcherFunc) FetchAll(ctx context.Context) ([]beer.Beer, error) {
	return f(ctx)
}

// Reader yields catalog records one at a time. The first call to Next
// fetches the whole catalog; later calls walk the cached slice. A failed
// fetch is permanent: every later Next returns the same error without
// fetching again.
//
// Reader implements pipeline.Iterator[beer.Beer] and is not safe for
// concurrent use.
type Reader struct {
	source  Fetcher
	beers   []beer.Beer
	fetched bool
	next    int
	err     error
}

// NewReader creates a Reader over source. Nothing is fetched until Next.
func NewReader(source Fetcher) *Reader {
	return &Reader{source: source}
}

// Next returns the next record. (zero, false, nil) marks the end.
func (r *Reader) Next(ctx context.Context) (beer.Beer, bool, error) {
	if r.err != nil {
		return beer.Beer{}, false, r.err
	}
	if !r.fetched {
		beers, err := r.source.FetchAll(ctx)
		if err != nil {
			r.err = err
			return beer.Beer{}, false, err
		}
		r.beers = beers
		r.fetched = true
	}
	if r.next >= len(r.beers) {
		return beer.Beer{}, false, nil
	}
	b := r.beers[r.next]
	r.next++
	return b, true, nil
}

// Close implements pipeline.Iterator. The cached records are kept.
func (r *Reader) Close() error { return nil }
