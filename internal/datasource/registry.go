package datasource

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// Options carries connector settings. Credentials are passed explicitly so
// nothing depends on ambient process environment.
type Options struct {
	Region    string
	Endpoint  string
	PathStyle bool

	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

// Factory opens a Store rooted at loc.
type Factory func(ctx context.Context, loc Location, opt Options) (Store, error)

var (
	regMu     sync.RWMutex
	factories = map[string]Factory{}
)

// Register installs (or replaces) the factory for a URI scheme. Backend
// packages call it from init.
func Register(scheme string, f Factory) {
	regMu.Lock()
	defer regMu.Unlock()
	factories[scheme] = f
}

// Schemes returns the registered schemes, sorted.
func Schemes() []string {
	regMu.RLock()
	defer regMu.RUnlock()
	out := make([]string, 0, len(factories))
	for s := range factories {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Open parses uri and opens a Store with the registered factory.
func Open(ctx context.Context, uri string, opt Options) (Store, error) {
	loc, err := ParseURI(uri)
	if err != nil {
		return nil, err
	}
	regMu.RLock()
	f, ok := factories[loc.Scheme]
	regMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("open %s: %w %q", uri, ErrUnsupportedScheme, loc.Scheme)
	}
	return f(ctx, loc, opt)
}
