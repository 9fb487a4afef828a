package client

import "net/url"

// normalizeBaseURL appends a trailing slash if missing, then parses it.
// This is the difference between relative-path resolution treating the
// base as a directory versus replacing its final path segment — exactly
// the behavior tough/src/lib.rs's parse_url exists to force (spec.md
// §4.11).
func normalizeBaseURL(raw string) (*url.URL, error) {
	if len(raw) == 0 || raw[len(raw)-1] != '/' {
		raw += "/"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil, &ErrParseURL{URL: raw, Cause: err}
	}
	return u, nil
}

// joinURL resolves path against base the way metadata_base_url.join(path)
// does in the original implementation: relative to base's directory, not
// its last path segment.
func joinURL(base *url.URL, path string) (string, error) {
	rel, err := url.Parse(path)
	if err != nil {
		return "", &ErrJoinURL{Base: base.String(), Path: path, Cause: err}
	}
	return base.ResolveReference(rel).String(), nil
}
