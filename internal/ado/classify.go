package ado

import (
	"strconv"
	"strings"
)

// Relation type tags the crawler understands. Hierarchy links are directed:
// Reverse points at the parent, Forward at a child.
const (
	relHierarchyReverse = "System.LinkTypes.Hierarchy-Reverse"
	relHierarchyForward = "System.LinkTypes.Hierarchy-Forward"
	relRelated          = "System.LinkTypes.Related"
	relAttachedFile     = "AttachedFile"
)

// RelationKind is the classified category of a relation descriptor.
type RelationKind int

const (
	RelationUnrecognized RelationKind = iota
	RelationParent
	RelationChild
	RelationRelated
	RelationAttachment
)

// ClassifiedRelation is the result of interpreting one raw descriptor.
// TargetID is set for parent/child/related; URL and FileName for
// attachments.
type ClassifiedRelation struct {
	Kind     RelationKind
	TargetID int
	URL      string
	FileName string
}

// ClassifyRelation interprets a raw relation descriptor. Unknown rel tags
// and target URLs without a parseable numeric id suffix classify as
// RelationUnrecognized; a malformed descriptor is skipped, never an error.
func ClassifyRelation(rel Relation) ClassifiedRelation {
	switch rel.Rel {
	case relHierarchyReverse:
		if id, ok := idFromURL(rel.URL); ok {
			return ClassifiedRelation{Kind: RelationParent, TargetID: id}
		}
	case relHierarchyForward:
		if id, ok := idFromURL(rel.URL); ok {
			return ClassifiedRelation{Kind: RelationChild, TargetID: id}
		}
	case relRelated:
		if id, ok := idFromURL(rel.URL); ok {
			return ClassifiedRelation{Kind: RelationRelated, TargetID: id}
		}
	case relAttachedFile:
		return ClassifiedRelation{Kind: RelationAttachment, URL: rel.URL, FileName: rel.Name}
	}
	return ClassifiedRelation{Kind: RelationUnrecognized}
}

// idFromURL extracts the numeric suffix of a work item reference URL
// (e.g. .../_apis/wit/workItems/4711).
func idFromURL(raw string) (int, bool) {
	slash := strings.LastIndex(raw, "/")
	if slash < 0 || slash == len(raw)-1 {
		return 0, false
	}
	id, err := strconv.Atoi(raw[slash+1:])
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
