package storage

import "strings"

// Rewriter swaps the internal storage origin for the public one. Only a
// leading origin is replaced; path and query stay as they are and URLs from
// any other origin pass through unchanged.
type Rewriter struct {
	internal string
	public   string
}

func NewRewriter(internalOrigin, publicOrigin string) Rewriter {
	return Rewriter{
		internal: strings.TrimRight(strings.TrimSpace(internalOrigin), "/"),
		public:   strings.TrimRight(strings.TrimSpace(publicOrigin), "/"),
	}
}

func (r Rewriter) Rewrite(url string) string {
	if r.internal == "" || r.public == "" || r.internal == r.public {
		return url
	}
	if !strings.HasPrefix(url, r.internal) {
		return url
	}
	return r.public + url[len(r.internal):]
}
