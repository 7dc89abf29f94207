package model

import (
	"testing"
	"time"
)

func TestNow_PrefersRequestClock(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	req := &RequestContext{Now: at}

	if got := Now(req); !got.Equal(at) {
		t.Fatalf("Now = %v, want %v", got, at)
	}
}

func TestNow_FallsBackToWallClock(t *testing.T) {
	before := time.Now().UTC()
	got := Now(nil)
	after := time.Now().UTC()

	if got.Before(before) || got.After(after) {
		t.Fatalf("Now outside wall-clock window: %v", got)
	}
}

func TestClientAddr(t *testing.T) {
	if got := ClientAddr(&RequestContext{ClientAddr: "10.0.0.7"}); got != "10.0.0.7" {
		t.Fatalf("ClientAddr = %q", got)
	}
	if got := ClientAddr(nil); got != "unavailable" {
		t.Fatalf("ClientAddr without request = %q", got)
	}
	if got := ClientAddr(&RequestContext{}); got != "unavailable" {
		t.Fatalf("ClientAddr with empty address = %q", got)
	}
}

func TestStatic(t *testing.T) {
	p := Static("auth")
	if got := p(nil); got != "auth" {
		t.Fatalf("Static = %v", got)
	}
}

func TestTimestampFields(t *testing.T) {
	fields := TimestampFields()
	if len(fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(fields))
	}

	created, updated := fields[0], fields[1]
	if created.Name != FieldCreatedAt || updated.Name != FieldUpdatedAt {
		t.Fatalf("unexpected names: %s, %s", created.Name, updated.Name)
	}
	for _, f := range fields {
		if f.Readable || f.Writable {
			t.Fatalf("%s must not be externally visible", f.Name)
		}
		if f.Default == nil {
			t.Fatalf("%s must have an insert default", f.Name)
		}
	}
	if created.OnUpdate != nil {
		t.Fatalf("created_at must not refresh on update")
	}
	if updated.OnUpdate == nil {
		t.Fatalf("updated_at must refresh on update")
	}
}
