package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/openfield/auth-system/internal/core/authmodel"
	"github.com/openfield/auth-system/internal/core/domain"
	"github.com/openfield/auth-system/internal/core/model"
	"github.com/openfield/auth-system/internal/core/ports"
)

type stubEventRepo struct {
	inserted []*domain.AuthEvent
	err      error
}

func (r *stubEventRepo) Insert(_ context.Context, e *domain.AuthEvent) error {
	if r.err != nil {
		return r.err
	}
	r.inserted = append(r.inserted, e)
	return nil
}

func newEventFixture(t *testing.T) (ports.EventService, *stubEventRepo) {
	t.Helper()
	registry, err := authmodel.Define(model.NewSettings())
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	repo := &stubEventRepo{}
	return NewEventService(registry, repo, zerolog.Nop()), repo
}

func TestEventService_Record(t *testing.T) {
	svc, repo := newEventFixture(t)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	err := svc.Record(context.Background(), ports.AuthEventInput{
		UserID:      "u1",
		Description: "logged in",
		Request:     &model.RequestContext{Now: at, ClientAddr: "203.0.113.9"},
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if len(repo.inserted) != 1 {
		t.Fatalf("expected 1 event, got %d", len(repo.inserted))
	}
	e := repo.inserted[0]
	if e.UserID != "u1" || e.Description != "logged in" {
		t.Fatalf("unexpected event: %+v", e)
	}
	if e.ClientIP != "203.0.113.9" {
		t.Fatalf("client_ip = %q", e.ClientIP)
	}
	if e.Origin != "auth" {
		t.Fatalf("origin default = %q", e.Origin)
	}
	if !e.CreatedAt.Equal(at) {
		t.Fatalf("created_at = %v, want %v", e.CreatedAt, at)
	}
}

func TestEventService_Record_WithoutRequest(t *testing.T) {
	svc, repo := newEventFixture(t)

	if err := svc.Record(context.Background(), ports.AuthEventInput{UserID: "u1"}); err != nil {
		t.Fatalf("record: %v", err)
	}
	if repo.inserted[0].ClientIP != "unavailable" {
		t.Fatalf("client_ip = %q", repo.inserted[0].ClientIP)
	}
}

func TestEventService_Record_RepoErrorWrapped(t *testing.T) {
	svc, repo := newEventFixture(t)
	repo.err = fmt.Errorf("mongo down")

	err := svc.Record(context.Background(), ports.AuthEventInput{UserID: "u1"})
	if err == nil {
		t.Fatalf("expected error")
	}
}
