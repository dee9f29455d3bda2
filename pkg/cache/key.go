package cache

import (
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Key identifies a cached backend response.
type Key struct {
	// Scope separates backends sharing one Redis (usually the API host)
	Scope string

	// Endpoint is the request path (e.g. "/staff/operation-logs")
	Endpoint string

	// QueryParams are the request query parameters (page, page_size, search)
	QueryParams url.Values
}

// String generates a deterministic Redis key.
// Format: oplog:scope:endpoint:param1=val1:param2=val2
//
// Example:
//
//	oplog:admin.example.com:staff/operation-logs:page=2:page_size=10:search=alice
//
// Values are query-escaped so a search term containing ':' cannot collide
// with another key.
func (k Key) String() string {
	parts := []string{"oplog"}

	if k.Scope != "" {
		parts = append(parts, k.Scope)
	}

	endpoint := strings.Trim(k.Endpoint, "/")
	if endpoint != "" {
		parts = append(parts, endpoint)
	}

	if len(k.QueryParams) > 0 {
		names := make([]string, 0, len(k.QueryParams))
		for name := range k.QueryParams {
			names = append(names, name)
		}
		sort.Strings(names)

		for _, name := range names {
			parts = append(parts, fmt.Sprintf("%s=%s", name, url.QueryEscape(k.QueryParams.Get(name))))
		}
	}

	return strings.Join(parts, ":")
}
