package datasource

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Location is a parsed store URI.
//
//	s3://bucket/some/prefix -> {Scheme: "s3", Bucket: "bucket", Path: "some/prefix"}
//	s3a://bucket/           -> {Scheme: "s3", Bucket: "bucket"}
//	file:///tmp/lake        -> {Scheme: "file", Path: "/tmp/lake"}
//	./lake                  -> {Scheme: "file", Path: "./lake"}
type Location struct {
	Scheme string
	Bucket string
	Path   string
}

// ParseURI parses s into a Location. s3a is folded into s3.
func ParseURI(s string) (Location, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Location{}, fmt.Errorf("parse uri: empty")
	}

	scheme, rest, ok := strings.Cut(s, "://")
	if !ok {
		return Location{Scheme: "file", Path: filepath.Clean(s)}, nil
	}

	switch strings.ToLower(scheme) {
	case "s3", "s3a":
		bucket, prefix, _ := strings.Cut(rest, "/")
		if bucket == "" {
			return Location{}, fmt.Errorf("parse uri %q: missing bucket", s)
		}
		return Location{Scheme: "s3", Bucket: bucket, Path: strings.Trim(prefix, "/")}, nil
	case "file":
		if rest == "" {
			return Location{}, fmt.Errorf("parse uri %q: missing path", s)
		}
		return Location{Scheme: "file", Path: filepath.Clean(rest)}, nil
	default:
		return Location{}, fmt.Errorf("parse uri %q: %w %q", s, ErrUnsupportedScheme, scheme)
	}
}

// String renders the location back as a URI.
func (l Location) String() string {
	switch l.Scheme {
	case "s3":
		if l.Path == "" {
			return "s3://" + l.Bucket + "/"
		}
		return "s3://" + l.Bucket + "/" + l.Path + "/"
	default:
		if filepath.IsAbs(l.Path) {
			return "file://" + filepath.ToSlash(l.Path)
		}
		return filepath.ToSlash(l.Path)
	}
}

// JoinKey joins key segments with '/', ignoring empty ones and collapsing
// duplicate separators at the seams. A trailing '/' on the last segment is
// kept so directory-style prefixes stay unambiguous.
func JoinKey(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		p = strings.TrimLeft(p, "/")
		if p == "" {
			continue
		}
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "/") {
			b.WriteByte('/')
		}
		b.WriteString(p)
	}
	return b.String()
}
