// Package jsonapi provides JSON:API documents for API responses.
// See https://jsonapi.org/format/ for the document structure.
package jsonapi

// Document is a top-level JSON:API document. Exactly one of Data or Errors
// is set.
type Document struct {
	Data     any         `json:"data,omitempty"`
	Meta     Meta        `json:"meta,omitempty"`
	Included []*Resource `json:"included,omitempty"`
	Errors   []Error     `json:"errors,omitempty"`
}

// Meta holds non-standard information about a document or relationship.
type Meta map[string]any

// Resource is a JSON:API resource object.
type Resource struct {
	Type          string        `json:"type"`
	ID            string        `json:"id"`
	Attributes    any           `json:"attributes"`
	Relationships Relationships `json:"relationships,omitempty"`
}

// Relationships maps relationship names to their linkage.
type Relationships map[string]*Relationship

// Relationship carries resource linkage: a ResourceIdentifier, a slice of
// them, or nil.
type Relationship struct {
	Data any  `json:"data"`
	Meta Meta `json:"meta,omitempty"`
}

// ResourceIdentifier names a resource without its attributes.
type ResourceIdentifier struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Error is a JSON:API error object.
type Error struct {
	Status string `json:"status,omitempty"`
	Title  string `json:"title,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// NewResource creates a resource with the given type, id and attributes.
func NewResource(resourceType, id string, attrs any) *Resource {
	return &Resource{Type: resourceType, ID: id, Attributes: attrs}
}

// Identifier returns the linkage for r.
func (r *Resource) Identifier() ResourceIdentifier {
	return ResourceIdentifier{Type: r.Type, ID: r.ID}
}

// Relate sets a to-many relationship to the given resources.
func (r *Resource) Relate(name string, related []*Resource) *Resource {
	ids := make([]ResourceIdentifier, len(related))
	for i, rel := range related {
		ids[i] = rel.Identifier()
	}
	if r.Relationships == nil {
		r.Relationships = Relationships{}
	}
	r.Relationships[name] = &Relationship{Data: ids}
	return r
}

// NewSingleResponse wraps one resource.
func NewSingleResponse(resource *Resource) *Document {
	return &Document{Data: resource}
}

// NewListResponse wraps a list of resources. A nil list renders as [].
func NewListResponse(resources []*Resource) *Document {
	if resources == nil {
		resources = []*Resource{}
	}
	return &Document{Data: resources}
}

// WithMeta merges m into the document meta.
func (d *Document) WithMeta(m Meta) *Document {
	if d.Meta == nil {
		d.Meta = Meta{}
	}
	for k, v := range m {
		d.Meta[k] = v
	}
	return d
}

// WithIncluded appends compound-document resources.
func (d *Document) WithIncluded(resources ...*Resource) *Document {
	d.Included = append(d.Included, resources...)
	return d
}

// NewErrorResponse wraps errors.
func NewErrorResponse(errors ...Error) *Document {
	return &Document{Errors: errors}
}

// NewError creates an error with status, title and detail.
func NewError(status, title, detail string) Error {
	return Error{Status: status, Title: title, Detail: detail}
}
