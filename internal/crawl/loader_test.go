package crawl

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"

	"workitem-mirror/internal/ado"
	"workitem-mirror/internal/assets"
)

const itemURLBase = "https://dev.azure.test/acme/_apis/wit/workItems/"

type fakeSource struct {
	items       map[int]ado.WorkItemDetail
	comments    map[int][]ado.Comment
	itemErr     map[int]error
	commentErr  map[int]error
	itemCalls   map[int]int
	commentCall int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		items:      map[int]ado.WorkItemDetail{},
		comments:   map[int][]ado.Comment{},
		itemErr:    map[int]error{},
		commentErr: map[int]error{},
		itemCalls:  map[int]int{},
	}
}

func (f *fakeSource) WorkItem(_ context.Context, id int, _ bool) (ado.WorkItemDetail, error) {
	f.itemCalls[id]++
	if err := f.itemErr[id]; err != nil {
		return ado.WorkItemDetail{}, err
	}
	detail, ok := f.items[id]
	if !ok {
		return ado.WorkItemDetail{}, fmt.Errorf("no such item %d", id)
	}
	return detail, nil
}

func (f *fakeSource) Comments(_ context.Context, id int) ([]ado.Comment, error) {
	f.commentCall++
	if err := f.commentErr[id]; err != nil {
		return nil, err
	}
	return f.comments[id], nil
}

// recordingAssets pretends every fetch succeeds and remembers the names it
// handed out.
type recordingAssets struct {
	fetched  []string
	failURLs map[string]bool
}

func (r *recordingAssets) Fetch(_ context.Context, url string, itemID, index int, sourceName string) string {
	if r.failURLs[url] {
		return ""
	}
	name := assets.FileName(itemID, index, sourceName)
	r.fetched = append(r.fetched, name)
	return name
}

func relatedRelation(id int) ado.Relation {
	return ado.Relation{Rel: "System.LinkTypes.Related", URL: fmt.Sprintf("%s%d", itemURLBase, id)}
}

func childRelation(id int) ado.Relation {
	return ado.Relation{Rel: "System.LinkTypes.Hierarchy-Forward", URL: fmt.Sprintf("%s%d", itemURLBase, id)}
}

func TestLoaderLoadFullRecord(t *testing.T) {
	source := newFakeSource()
	owner := "Dana Scully"
	source.items[42] = ado.WorkItemDetail{
		ID:          42,
		Title:       "Checkout page crashes",
		State:       "Active",
		AssignedTo:  &owner,
		Description: `<div>steps <img src="https://example.test/embed.png"></div>`,
		Relations: []ado.Relation{
			childRelation(43),
			relatedRelation(44),
			{Rel: "AttachedFile", URL: "https://example.test/att/1", Name: "screenshot.png"},
			{Rel: "AttachedFile", URL: "https://example.test/att/2", Name: "crash.log"},
		},
	}
	source.comments[42] = []ado.Comment{
		{Text: `see <img src="https://example.test/c.gif">`},
		{Text: "plain comment"},
	}
	store := &recordingAssets{}

	item := NewLoader(source, store).Load(context.Background(), 42, true)

	if item.ID != 42 || item.Title != "Checkout page crashes" || item.State != "Active" {
		t.Fatalf("unexpected fields: %+v", item)
	}
	if item.AssignedTo == nil || *item.AssignedTo != "Dana Scully" {
		t.Fatalf("unexpected assignee: %v", item.AssignedTo)
	}
	if !reflect.DeepEqual(item.ChildItems, []int{43}) || !reflect.DeepEqual(item.RelatedItems, []int{44}) {
		t.Fatalf("unexpected relations: children=%v related=%v", item.ChildItems, item.RelatedItems)
	}
	if len(item.ParentItems) != 0 {
		t.Fatalf("unexpected parents: %v", item.ParentItems)
	}
	if !reflect.DeepEqual(item.Comments, []string{`see <img src="https://example.test/c.gif">`, "plain comment"}) {
		t.Fatalf("unexpected comments: %v", item.Comments)
	}
	// Attachment first, then the description image, then the comment image.
	// crash.log is not an image and claims no index.
	want := []string{"image_42_1.png", "image_42_2.png", "image_42_3.png"}
	if !reflect.DeepEqual(item.ImageFiles, want) {
		t.Fatalf("unexpected image files: %v", item.ImageFiles)
	}
}

func TestLoaderPrimaryFetchFailure(t *testing.T) {
	source := newFakeSource()
	source.itemErr[77] = errors.New("502 from upstream")
	source.comments[77] = []ado.Comment{{Text: "still here"}}

	item := NewLoader(source, &recordingAssets{}).Load(context.Background(), 77, true)

	if item.ID != 77 {
		t.Fatalf("unexpected id %d", item.ID)
	}
	if item.Title != "" || item.State != "" || item.AssignedTo != nil {
		t.Fatalf("expected zero fields, got %+v", item)
	}
	if len(item.ParentItems) != 0 || len(item.ChildItems) != 0 || len(item.RelatedItems) != 0 {
		t.Fatalf("expected no relations, got %+v", item)
	}
	// The comments fetch is independent of the primary fetch.
	if !reflect.DeepEqual(item.Comments, []string{"still here"}) {
		t.Fatalf("unexpected comments: %v", item.Comments)
	}
}

func TestLoaderCommentsFailureKeepsFields(t *testing.T) {
	source := newFakeSource()
	source.items[5] = ado.WorkItemDetail{ID: 5, Title: "Flaky test", State: "New", Relations: []ado.Relation{childRelation(6)}}
	source.commentErr[5] = errors.New("timeout")

	item := NewLoader(source, &recordingAssets{}).Load(context.Background(), 5, true)

	if item.Title != "Flaky test" || !reflect.DeepEqual(item.ChildItems, []int{6}) {
		t.Fatalf("primary data lost: %+v", item)
	}
	if len(item.Comments) != 0 {
		t.Fatalf("expected no comments, got %v", item.Comments)
	}
}

func TestLoaderIndexAdvancesPastFailedFetch(t *testing.T) {
	source := newFakeSource()
	source.items[9] = ado.WorkItemDetail{
		ID: 9,
		Relations: []ado.Relation{
			{Rel: "AttachedFile", URL: "https://example.test/a.png", Name: "a.png"},
		},
		Description: `<img src="https://example.test/b.png">`,
	}
	// The attachment download fails but still claims index 1, so the scraped
	// description image lands on index 2.
	store := &recordingAssets{failURLs: map[string]bool{"https://example.test/a.png": true}}
	item := NewLoader(source, store).Load(context.Background(), 9, true)
	if !reflect.DeepEqual(item.ImageFiles, []string{"image_9_2.png"}) {
		t.Fatalf("unexpected image files: %v", item.ImageFiles)
	}
}

func TestLoaderDeduplicatesRelationTargets(t *testing.T) {
	source := newFakeSource()
	source.items[3] = ado.WorkItemDetail{
		ID:        3,
		Relations: []ado.Relation{relatedRelation(8), relatedRelation(8), childRelation(4), childRelation(4)},
	}

	item := NewLoader(source, &recordingAssets{}).Load(context.Background(), 3, true)

	if !reflect.DeepEqual(item.RelatedItems, []int{8}) || !reflect.DeepEqual(item.ChildItems, []int{4}) {
		t.Fatalf("expected deduplicated relations, got %+v", item)
	}
}
