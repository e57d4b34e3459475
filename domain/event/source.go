package event

// Source is a feed that produces events.
type Source struct {
	id   int64
	name string
	url  string
	kind string
}

// NewSource creates a source that has not been persisted yet.
func NewSource(name, url, kind string) Source {
	return Source{name: name, url: url, kind: kind}
}

// ReconstructSource recreates a source from persistence.
func ReconstructSource(id int64, name, url, kind string) Source {
	return Source{id: id, name: name, url: url, kind: kind}
}

// ID returns the source identifier.
func (s Source) ID() int64 { return s.id }

// Name returns the unique source name.
func (s Source) Name() string { return s.name }

// URL returns the feed location.
func (s Source) URL() string { return s.url }

// Kind returns the feed format, e.g. rss or json.
func (s Source) Kind() string { return s.kind }
