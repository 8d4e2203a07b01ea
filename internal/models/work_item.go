package models

// WorkItem is one materialized node of the work-item relation graph.
// Relation fields hold ids only; the crawler's visited map owns every
// record, so cycles in the upstream graph never become cycles in memory.
//
// JSON field names match what the downstream cleaning pipeline reads from
// the snapshot file.
type WorkItem struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	State        string   `json:"state"`
	AssignedTo   *string  `json:"assigned_to"`
	Description  string   `json:"description"`
	Comments     []string `json:"comments"`
	ParentItems  []int    `json:"parent_items"`
	ChildItems   []int    `json:"child_items"`
	RelatedItems []int    `json:"related_items"`
	ImageFiles   []string `json:"image_files"`
}

// NewWorkItem returns the all-default record for an id. A failed primary
// fetch leaves the record in exactly this state; the id still counts as
// visited. Slices start non-nil so the snapshot serializes them as empty
// arrays rather than null.
func NewWorkItem(id int) WorkItem {
	return WorkItem{
		ID:           id,
		Comments:     []string{},
		ParentItems:  []int{},
		ChildItems:   []int{},
		RelatedItems: []int{},
		ImageFiles:   []string{},
	}
}
