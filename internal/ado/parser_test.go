package ado

import "testing"

func TestParseWorkItem(t *testing.T) {
	payload := []byte(`{
  "id": 4711,
  "rev": 12,
  "fields": {
    "System.AreaPath": "Fabrikam-Fiber",
    "System.IterationPath": "Fabrikam-Fiber\\Sprint 3",
    "System.WorkItemType": "Bug",
    "System.State": "Active",
    "System.Title": "Login page rejects valid credentials",
    "System.AssignedTo": {
      "displayName": "Jamal Hartnett",
      "uniqueName": "fabrikamfiber4@hotmail.com"
    },
    "System.Description": "<div>Steps to reproduce:<br><img src=\"https://dev.azure.com/fabrikam/_apis/wit/attachments/11-22?fileName=screen.png\"></div>",
    "Microsoft.VSTS.Common.Priority": 1
  },
  "relations": [
    {
      "rel": "System.LinkTypes.Hierarchy-Reverse",
      "url": "https://dev.azure.com/fabrikam/_apis/wit/workItems/4700",
      "attributes": { "isLocked": false, "name": "Parent" }
    },
    {
      "rel": "AttachedFile",
      "url": "https://dev.azure.com/fabrikam/_apis/wit/attachments/33-44",
      "attributes": { "name": "crash.log", "resourceSize": 4096 }
    }
  ],
  "url": "https://dev.azure.com/fabrikam/_apis/wit/workItems/4711"
}`)

	detail, err := ParseWorkItem(payload)
	if err != nil {
		t.Fatalf("ParseWorkItem error: %v", err)
	}
	if detail.ID != 4711 {
		t.Fatalf("unexpected id: %d", detail.ID)
	}
	if detail.Title != "Login page rejects valid credentials" {
		t.Fatalf("unexpected title: %s", detail.Title)
	}
	if detail.State != "Active" {
		t.Fatalf("unexpected state: %s", detail.State)
	}
	if detail.AssignedTo == nil || *detail.AssignedTo != "Jamal Hartnett" {
		t.Fatalf("unexpected assignee: %v", detail.AssignedTo)
	}
	if len(detail.Relations) != 2 {
		t.Fatalf("unexpected relations: %+v", detail.Relations)
	}
	if detail.Relations[0].Rel != "System.LinkTypes.Hierarchy-Reverse" {
		t.Fatalf("unexpected rel tag: %s", detail.Relations[0].Rel)
	}
	if detail.Relations[1].Name != "crash.log" {
		t.Fatalf("unexpected attachment name: %s", detail.Relations[1].Name)
	}
}

func TestParseWorkItemUnassigned(t *testing.T) {
	detail, err := ParseWorkItem([]byte(`{"id": 7, "fields": {"System.Title": "Spike"}}`))
	if err != nil {
		t.Fatalf("ParseWorkItem error: %v", err)
	}
	if detail.AssignedTo != nil {
		t.Fatalf("expected nil assignee, got %q", *detail.AssignedTo)
	}
	if detail.Relations != nil {
		t.Fatalf("expected no relations, got %+v", detail.Relations)
	}
}

func TestParseWorkItemMalformed(t *testing.T) {
	if _, err := ParseWorkItem([]byte(`{not json`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestParseComments(t *testing.T) {
	payload := []byte(`{
  "totalCount": 2,
  "count": 2,
  "comments": [
    {
      "id": 1,
      "text": "<div>Repro confirmed on build 1.4.2</div>",
      "createdBy": { "displayName": "Raisa Pokrovskaya" },
      "createdDate": "2025-10-02T09:14:00Z"
    },
    {
      "id": 2,
      "text": "<div>Fix incoming <img src=\"https://example.test/diff.png\"></div>",
      "createdBy": { "displayName": "Jamal Hartnett" },
      "createdDate": "2025-10-02T11:40:00Z"
    }
  ]
}`)

	comments, err := ParseComments(payload)
	if err != nil {
		t.Fatalf("ParseComments error: %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("unexpected comment count: %d", len(comments))
	}
	if comments[0].Text != "<div>Repro confirmed on build 1.4.2</div>" {
		t.Fatalf("unexpected first comment: %s", comments[0].Text)
	}
	if comments[0].Author != "Raisa Pokrovskaya" {
		t.Fatalf("unexpected author: %s", comments[0].Author)
	}
	if comments[1].Created.IsZero() {
		t.Fatal("expected created timestamp")
	}
}

func TestParseCommentsEmpty(t *testing.T) {
	comments, err := ParseComments([]byte(`{"totalCount": 0, "comments": []}`))
	if err != nil {
		t.Fatalf("ParseComments error: %v", err)
	}
	if len(comments) != 0 {
		t.Fatalf("expected no comments, got %d", len(comments))
	}
}

func TestParseQueryResult(t *testing.T) {
	payload := []byte(`{
  "queryType": "flat",
  "asOf": "2025-10-02T12:00:00Z",
  "workItems": [
    { "id": 300, "url": "https://dev.azure.com/fabrikam/_apis/wit/workItems/300" },
    { "id": 100, "url": "https://dev.azure.com/fabrikam/_apis/wit/workItems/100" },
    { "id": 0, "url": "" }
  ]
}`)

	ids, err := ParseQueryResult(payload)
	if err != nil {
		t.Fatalf("ParseQueryResult error: %v", err)
	}
	// Upstream order is preserved; non-positive ids are dropped.
	if len(ids) != 2 || ids[0] != 300 || ids[1] != 100 {
		t.Fatalf("unexpected ids: %v", ids)
	}
}
