package datasource

import (
	"context"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// Glob lists the objects of s whose keys match pattern. A single '*' never
// crosses a '/', so "song_data/*/*/*/*.json" selects exactly four levels
// below song_data, the same as a shell or Hadoop glob. '**' spans levels.
//
// Listing starts at the pattern's literal prefix. An empty result is an
// error wrapping ErrNoMatch.
func Glob(ctx context.Context, s Store, pattern string) ([]Object, error) {
	if !doublestar.ValidatePattern(pattern) {
		return nil, fmt.Errorf("glob %q: %w", pattern, doublestar.ErrBadPattern)
	}

	base, _ := doublestar.SplitPattern(pattern)
	prefix := ""
	if base != "." {
		prefix = base + "/"
	}

	objs, err := s.List(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("glob %q: list %q: %w", pattern, prefix, err)
	}

	out := objs[:0:0]
	for _, o := range objs {
		ok, err := doublestar.Match(pattern, o.Key)
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		if ok {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("glob %q under %s: %w", pattern, s.URI(), ErrNoMatch)
	}
	return out, nil
}
