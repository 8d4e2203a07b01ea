package ado

import "time"

// WorkItemDetail is the decoded primary fetch for one work item. Relations
// is nil when the fetch did not ask for relation expansion.
type WorkItemDetail struct {
	ID          int
	Title       string
	State       string
	AssignedTo  *string
	Description string
	Relations   []Relation
}

// Relation is one raw relation descriptor as returned by the API: a rel
// type tag, the target reference URL, and for attachments the file name
// attribute.
type Relation struct {
	Rel  string
	URL  string
	Name string
}

// Comment is one work item comment in upstream return order.
type Comment struct {
	Text    string
	Author  string
	Created time.Time
}
