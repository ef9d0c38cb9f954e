package flipbook

import (
	"context"
	"fmt"
)

// PagePath is the object-store location of one pre-rendered page image.
func PagePath(eposterID string, index int) string {
	return fmt.Sprintf("flipbook-pages/%s/%d.png", eposterID, index)
}

// RoutingFetcher sends HTTP(S) sources to one fetcher and everything else
// (object-store paths) to another.
type RoutingFetcher struct {
	HTTP  Fetcher
	Store Fetcher
}

func (f *RoutingFetcher) pick(src string) Fetcher {
	if isHTTPSource(src) {
		return f.HTTP
	}
	return f.Store
}

func (f *RoutingFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	return f.pick(src).Fetch(ctx, src)
}

func (f *RoutingFetcher) Exists(ctx context.Context, src string) (bool, error) {
	return f.pick(src).Exists(ctx, src)
}
