package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/cytzrs/share-sub001/internal/models"
)

func TestEventRepository_CreateAndGet(t *testing.T) {
	database := setupTestDB(t)
	repo := NewEventRepository(database)
	ctx := context.Background()

	payload, _ := json.Marshal(models.TemplateChangedPayload{Name: "analysis", Version: 2})
	event := &models.Event{
		Type:       models.EventTypeTemplateUpdated,
		EntityType: models.EntityTypeTemplate,
		EntityID:   "tmpl-1",
		Payload:    payload,
		Metadata:   map[string]string{"source": "api"},
	}
	if err := repo.Create(ctx, event); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if event.ID == "" {
		t.Fatal("expected generated event ID")
	}

	got, err := repo.Get(ctx, event.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Type != models.EventTypeTemplateUpdated {
		t.Fatalf("unexpected type: %q", got.Type)
	}
	if got.Metadata["source"] != "api" {
		t.Fatalf("unexpected metadata: %v", got.Metadata)
	}

	var decoded models.TemplateChangedPayload
	if err := json.Unmarshal(got.Payload, &decoded); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if decoded.Version != 2 {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
}

func TestEventRepository_CreateRejectsInvalid(t *testing.T) {
	database := setupTestDB(t)
	repo := NewEventRepository(database)

	err := repo.Create(context.Background(), &models.Event{Type: models.EventTypeError})
	if !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("expected ErrInvalidEvent, got %v", err)
	}
}

func TestEventRepository_QueryPagination(t *testing.T) {
	database := setupTestDB(t)
	repo := NewEventRepository(database)
	ctx := context.Background()

	base := time.Date(2025, 6, 30, 9, 30, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		event := &models.Event{
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			Type:       models.EventTypeAgentDecision,
			EntityType: models.EntityTypeAgent,
			EntityID:   "agent-1",
		}
		if err := repo.Create(ctx, event); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	page, err := repo.Query(ctx, EventQuery{Limit: 2})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(page.Events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(page.Events))
	}
	if page.NextCursor == "" {
		t.Fatal("expected next cursor")
	}

	var all []*models.Event
	all = append(all, page.Events...)
	for page.NextCursor != "" {
		page, err = repo.Query(ctx, EventQuery{Limit: 2, Cursor: page.NextCursor})
		if err != nil {
			t.Fatalf("Query (cursor): %v", err)
		}
		all = append(all, page.Events...)
	}
	if len(all) != 5 {
		t.Fatalf("expected 5 events total, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].Timestamp.Before(all[i-1].Timestamp) {
			t.Fatal("expected events ordered by timestamp")
		}
	}
}

func TestEventRepository_QueryFilters(t *testing.T) {
	database := setupTestDB(t)
	repo := NewEventRepository(database)
	ctx := context.Background()

	for i, typ := range []models.EventType{
		models.EventTypeAgentDecision,
		models.EventTypeAgentDecision,
		models.EventTypePortfolioSnapshot,
	} {
		entityType := models.EntityTypeAgent
		if typ == models.EventTypePortfolioSnapshot {
			entityType = models.EntityTypePortfolio
		}
		event := &models.Event{
			Type:       typ,
			EntityType: entityType,
			EntityID:   fmt.Sprintf("entity-%d", i),
		}
		if err := repo.Create(ctx, event); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	decisionType := models.EventTypeAgentDecision
	page, err := repo.Query(ctx, EventQuery{Type: &decisionType})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(page.Events) != 2 {
		t.Fatalf("expected 2 decision events, got %d", len(page.Events))
	}
}

func TestEventRepository_ListByEntity(t *testing.T) {
	database := setupTestDB(t)
	repo := NewEventRepository(database)
	ctx := context.Background()

	base := time.Date(2025, 6, 30, 9, 30, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		event := &models.Event{
			Timestamp:  base.Add(time.Duration(i) * time.Minute),
			Type:       models.EventTypeAgentStateChanged,
			EntityType: models.EntityTypeAgent,
			EntityID:   "agent-1",
		}
		if err := repo.Create(ctx, event); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	events, err := repo.ListByEntity(ctx, models.EntityTypeAgent, "agent-1", 2)
	if err != nil {
		t.Fatalf("ListByEntity: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if !events[0].Timestamp.After(events[1].Timestamp) {
		t.Fatal("expected newest-first order")
	}
}
