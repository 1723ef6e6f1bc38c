package tutorial

import (
	"strings"

	"github.com/pkg/errors"
)

// URI schemes used by the tutorial.
const (
	SchemeBlob     = "blob"
	SchemeDocument = "document"
	SchemeSeries   = "series"
)

// Default repositories and locations, named as in the original tutorial.
const (
	BlobAuthority   = "tutorialBlob"
	DocAuthority    = "tutorialDoc"
	SeriesAuthority = "datacapture"

	RawCSVPath       = "introDataInbound"
	JSONDocumentPath = "introDataTranslated"
)

// URI addresses a blob, document or series: scheme://authority/path.
type URI struct {
	Scheme    string
	Authority string
	Path      string
}

// NewURI builds a URI. Leading and trailing slashes are trimmed from path.
func NewURI(scheme, authority, path string) URI {
	return URI{Scheme: scheme, Authority: authority, Path: strings.Trim(path, "/")}
}

// String renders the URI. A URI without a path renders with a trailing slash
// so that it can be used as a repository prefix.
func (u URI) String() string {
	return u.Scheme + "://" + u.Authority + "/" + u.Path
}

// Join returns a URI in the same repository with elems appended to the path.
func (u URI) Join(elems ...string) URI {
	parts := make([]string, 0, len(elems)+1)
	if u.Path != "" {
		parts = append(parts, u.Path)
	}
	for _, e := range elems {
		if e = strings.Trim(e, "/"); e != "" {
			parts = append(parts, e)
		}
	}
	return NewURI(u.Scheme, u.Authority, strings.Join(parts, "/"))
}

// Key is the authority and path without the scheme, which is how the storage
// backends key their entries.
func (u URI) Key() string {
	if u.Path == "" {
		return u.Authority
	}
	return u.Authority + "/" + u.Path
}

// ParseURI splits s into scheme, authority and path. A URI without a scheme
// ("//tutorialDoc/doc") gets defaultScheme.
func ParseURI(s, defaultScheme string) (URI, error) {
	scheme := defaultScheme
	rest := s
	if i := strings.Index(s, "://"); i >= 0 {
		scheme, rest = s[:i], s[i+3:]
	} else if strings.HasPrefix(s, "//") {
		rest = s[2:]
	} else {
		return URI{}, errors.Errorf("URI '%s' has no authority", s)
	}
	if scheme == "" {
		return URI{}, errors.Errorf("URI '%s' has no scheme", s)
	}
	authority, path := rest, ""
	if i := strings.Index(rest, "/"); i >= 0 {
		authority, path = rest[:i], rest[i+1:]
	}
	if authority == "" {
		return URI{}, errors.Errorf("URI '%s' has no authority", s)
	}
	return NewURI(scheme, authority, path), nil
}

// Key parses uri and returns its Key. It's a convenience for store
// implementations which receive URIs as strings. The scheme doesn't take part
// in the key so it may be omitted.
func Key(uri string) (string, error) {
	u, err := ParseURI(uri, "-")
	if err != nil {
		return "", err
	}
	return u.Key(), nil
}
