package ado

import (
	"encoding/json"
	"time"
)

// ParseWorkItem decodes a work item response into a WorkItemDetail. Only
// the fields the crawler snapshots are kept; everything else in the payload
// is ignored.
func ParseWorkItem(body []byte) (WorkItemDetail, error) {
	type identity struct {
		DisplayName string `json:"displayName"`
	}
	type relation struct {
		Rel        string `json:"rel"`
		URL        string `json:"url"`
		Attributes struct {
			Name string `json:"name"`
		} `json:"attributes"`
	}
	type workItem struct {
		ID     int `json:"id"`
		Fields struct {
			Title       string    `json:"System.Title"`
			State       string    `json:"System.State"`
			AssignedTo  *identity `json:"System.AssignedTo"`
			Description string    `json:"System.Description"`
		} `json:"fields"`
		Relations []relation `json:"relations"`
	}

	var payload workItem
	if err := json.Unmarshal(body, &payload); err != nil {
		return WorkItemDetail{}, err
	}

	detail := WorkItemDetail{
		ID:          payload.ID,
		Title:       payload.Fields.Title,
		State:       payload.Fields.State,
		Description: payload.Fields.Description,
	}
	if payload.Fields.AssignedTo != nil && payload.Fields.AssignedTo.DisplayName != "" {
		name := payload.Fields.AssignedTo.DisplayName
		detail.AssignedTo = &name
	}
	for _, rel := range payload.Relations {
		detail.Relations = append(detail.Relations, Relation{
			Rel:  rel.Rel,
			URL:  rel.URL,
			Name: rel.Attributes.Name,
		})
	}
	return detail, nil
}

// ParseComments decodes a comments response, preserving upstream order.
func ParseComments(body []byte) ([]Comment, error) {
	type comment struct {
		Text      string `json:"text"`
		CreatedBy struct {
			DisplayName string `json:"displayName"`
		} `json:"createdBy"`
		CreatedDate time.Time `json:"createdDate"`
	}
	type response struct {
		Comments []comment `json:"comments"`
	}

	var payload response
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	comments := make([]Comment, 0, len(payload.Comments))
	for _, c := range payload.Comments {
		comments = append(comments, Comment{
			Text:    c.Text,
			Author:  c.CreatedBy.DisplayName,
			Created: c.CreatedDate,
		})
	}
	return comments, nil
}

// ParseQueryResult decodes a saved-query execution into the ordered id list
// used as the crawl seed set.
func ParseQueryResult(body []byte) ([]int, error) {
	type ref struct {
		ID int `json:"id"`
	}
	type response struct {
		WorkItems []ref `json:"workItems"`
	}

	var payload response
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(payload.WorkItems))
	for _, item := range payload.WorkItems {
		if item.ID > 0 {
			ids = append(ids, item.ID)
		}
	}
	return ids, nil
}
