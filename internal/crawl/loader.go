package crawl

import (
	"context"
	"log"

	"workitem-mirror/internal/ado"
	"workitem-mirror/internal/assets"
	"workitem-mirror/internal/models"
	"workitem-mirror/internal/scrape"
)

// Source is the slice of the upstream API the loader needs.
type Source interface {
	WorkItem(ctx context.Context, id int, expandRelations bool) (ado.WorkItemDetail, error)
	Comments(ctx context.Context, id int) ([]ado.Comment, error)
}

// AssetStore persists one binary asset and returns its local file name,
// or "" when the asset was dropped.
type AssetStore interface {
	Fetch(ctx context.Context, url string, itemID, index int, sourceName string) string
}

// Loader materializes one work item record per id. Every per-item failure
// is absorbed here: the primary fetch, the comments fetch, and each asset
// download degrade independently, and the caller always gets a usable
// record back.
type Loader struct {
	source Source
	assets AssetStore
}

// NewLoader wires a loader to the upstream API and the asset store.
func NewLoader(source Source, assets AssetStore) *Loader {
	return &Loader{source: source, assets: assets}
}

// Load assembles the record for id. expandRelations controls whether the
// primary fetch asks for the relation list at all; with it off the record
// never references neighbors and nothing gets enqueued from it.
//
// Asset numbering is shared per item: attachments first, then description
// images, then comment images, the index incrementing for every discovered
// asset whether or not its download succeeds.
func (l *Loader) Load(ctx context.Context, id int, expandRelations bool) models.WorkItem {
	item := models.NewWorkItem(id)
	assetIndex := 0

	detail, err := l.source.WorkItem(ctx, id, expandRelations)
	if err != nil {
		log.Printf("work item fetch failed id=%d: %v", id, err)
	} else {
		item.Title = detail.Title
		item.State = detail.State
		item.AssignedTo = detail.AssignedTo
		item.Description = detail.Description

		for _, rel := range detail.Relations {
			classified := ado.ClassifyRelation(rel)
			switch classified.Kind {
			case ado.RelationParent:
				item.ParentItems = appendUnique(item.ParentItems, classified.TargetID)
			case ado.RelationChild:
				item.ChildItems = appendUnique(item.ChildItems, classified.TargetID)
			case ado.RelationRelated:
				item.RelatedItems = appendUnique(item.RelatedItems, classified.TargetID)
			case ado.RelationAttachment:
				if !assets.IsImageName(classified.FileName) {
					continue
				}
				assetIndex++
				if name := l.assets.Fetch(ctx, classified.URL, id, assetIndex, classified.FileName); name != "" {
					item.ImageFiles = append(item.ImageFiles, name)
				}
			}
		}
	}

	comments, err := l.source.Comments(ctx, id)
	if err != nil {
		// Independent of the primary fetch: fields and relations already
		// gathered stay intact, comments just stay empty.
		log.Printf("comments fetch failed id=%d: %v", id, err)
	} else {
		for _, c := range comments {
			item.Comments = append(item.Comments, c.Text)
		}
	}

	for _, src := range scrape.ImageSources(item.Description) {
		assetIndex++
		if name := l.assets.Fetch(ctx, src, id, assetIndex, ""); name != "" {
			item.ImageFiles = append(item.ImageFiles, name)
		}
	}
	for _, body := range item.Comments {
		for _, src := range scrape.ImageSources(body) {
			assetIndex++
			if name := l.assets.Fetch(ctx, src, id, assetIndex, ""); name != "" {
				item.ImageFiles = append(item.ImageFiles, name)
			}
		}
	}

	return item
}

func appendUnique(ids []int, id int) []int {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
