package models

import "errors"

// ErrUnknownResourceType is returned for type tags outside the archivable set.
var ErrUnknownResourceType = errors.New("unknown resource type")

// ResourceType is the tag used by the generic visibility endpoint.
type ResourceType string

const (
	ResourceApplications ResourceType = "applications"
	ResourceContacts     ResourceType = "contacts"
	ResourceBlogs        ResourceType = "blogs"
)

// resourceTables is the closed mapping from type tag to backing table.
var resourceTables = map[ResourceType]string{
	ResourceApplications: JobApplication{}.TableName(),
	ResourceContacts:     ContactSubmission{}.TableName(),
	ResourceBlogs:        Blog{}.TableName(),
}

// ResourceTypes lists every archivable resource tag.
func ResourceTypes() []ResourceType {
	return []ResourceType{ResourceApplications, ResourceContacts, ResourceBlogs}
}

// ParseResourceType validates a client supplied tag against the closed set.
func ParseResourceType(tag string) (ResourceType, error) {
	rt := ResourceType(tag)
	if _, ok := resourceTables[rt]; !ok {
		return "", ErrUnknownResourceType
	}
	return rt, nil
}

// Table returns the backing table, or "" for an unknown tag.
func (r ResourceType) Table() string {
	return resourceTables[r]
}

// Archivable records are hidden by clearing is_active rather than deleted.
type Archivable interface {
	TableName() string
	Resource() ResourceType
}

// HardDeletable records are archivable and may also be permanently removed.
type HardDeletable interface {
	Archivable
	AllowsHardDelete()
}
