package model

import (
	"errors"
	"testing"
	"time"
)

func timestampedEntity(t *testing.T) *EntityType {
	t.Helper()
	def := &Definition{
		Name: "notes",
		Fields: append([]*Field{
			F("title", 64, NotNull()),
			F("body", 0, Default(Static(""))),
		}, TimestampFields()...),
	}
	et, err := NewPipeline().Define(def)
	if err != nil {
		t.Fatalf("define: %v", err)
	}
	return et
}

func TestEntityType_InsertAppliesDefaults(t *testing.T) {
	et := timestampedEntity(t)
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	req := &RequestContext{Now: at}

	in := Record{"title": "hello"}
	rec, err := et.Insert(req, in)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	if rec["body"] != "" {
		t.Fatalf("body default not applied: %v", rec["body"])
	}
	if got := rec[FieldCreatedAt].(time.Time); !got.Equal(at) {
		t.Fatalf("created_at = %v, want %v", got, at)
	}
	if got := rec[FieldUpdatedAt].(time.Time); !got.Equal(at) {
		t.Fatalf("updated_at = %v, want %v", got, at)
	}
	if _, ok := in["body"]; ok {
		t.Fatalf("input record must not be mutated")
	}
}

func TestEntityType_InsertKeepsSuppliedValues(t *testing.T) {
	et := timestampedEntity(t)

	rec, err := et.Insert(nil, Record{"title": "hello", "body": "kept"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if rec["body"] != "kept" {
		t.Fatalf("supplied value overridden: %v", rec["body"])
	}
}

func TestEntityType_UpdateRefreshesOnlyUpdatedAt(t *testing.T) {
	et := timestampedEntity(t)

	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec, err := et.Insert(&RequestContext{Now: createdAt}, Record{"title": "hello"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	updatedAt := createdAt.Add(48 * time.Hour)
	out, err := et.Update(&RequestContext{Now: updatedAt}, rec, Record{"body": "changed"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if got := out[FieldCreatedAt].(time.Time); !got.Equal(createdAt) {
		t.Fatalf("created_at changed on update: %v", got)
	}
	if got := out[FieldUpdatedAt].(time.Time); !got.Equal(updatedAt) {
		t.Fatalf("updated_at = %v, want %v", got, updatedAt)
	}
	if out["body"] != "changed" {
		t.Fatalf("change not applied: %v", out["body"])
	}
	if rec["body"] != "" {
		t.Fatalf("source record must not be mutated")
	}
}

func TestEntityType_UpdateChanges(t *testing.T) {
	et := timestampedEntity(t)

	createdAt := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec, err := et.Insert(&RequestContext{Now: createdAt}, Record{"title": "hello"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	updatedAt := createdAt.Add(time.Hour)
	set, err := et.UpdateChanges(&RequestContext{Now: updatedAt}, rec, Record{"body": "changed"})
	if err != nil {
		t.Fatalf("update changes: %v", err)
	}

	// The change set carries the explicit changes plus the refreshed
	// updated_at, nothing else.
	if len(set) != 2 {
		t.Fatalf("change set = %v", set)
	}
	if set["body"] != "changed" {
		t.Fatalf("body missing from change set: %v", set)
	}
	if got := set[FieldUpdatedAt].(time.Time); !got.Equal(updatedAt) {
		t.Fatalf("updated_at = %v, want %v", got, updatedAt)
	}
}

func TestEntityType_ValidateNotNull(t *testing.T) {
	et := timestampedEntity(t)

	if _, err := et.Insert(nil, Record{}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for missing title, got %v", err)
	}
	if _, err := et.Insert(nil, Record{"title": nil}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for nil title, got %v", err)
	}
	// Empty strings satisfy not-null; absence is what is rejected.
	if _, err := et.Insert(nil, Record{"title": ""}); err != nil {
		t.Fatalf("empty string must pass not-null: %v", err)
	}
}

func TestEntityType_ValidateLength(t *testing.T) {
	et := timestampedEntity(t)

	long := make([]byte, 65)
	for i := range long {
		long[i] = 'x'
	}
	if _, err := et.Insert(nil, Record{"title": string(long)}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for overlong title, got %v", err)
	}
}

func TestEntityType_ValidatorRuns(t *testing.T) {
	def := &Definition{
		Name:   "counters",
		Fields: []*Field{F("n", 0, NotNull())},
		Validation: map[string][]Validator{
			"n": {InRange(0, 10)},
		},
	}
	et, err := NewPipeline().Define(def)
	if err != nil {
		t.Fatalf("define: %v", err)
	}

	if _, err := et.Insert(nil, Record{"n": int64(10)}); err != nil {
		t.Fatalf("boundary value must pass: %v", err)
	}
	if _, err := et.Insert(nil, Record{"n": int64(11)}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if _, err := et.Insert(nil, Record{"n": "ten"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for non-integer, got %v", err)
	}
}

func TestEntityType_BeforeInsertHookMutatesRecord(t *testing.T) {
	def := &Definition{
		Name:   "stamped",
		Fields: []*Field{F("title", 0), F("tag", 0)},
		BeforeInsert: []Hook{
			func(req *RequestContext, rec Record) error {
				rec["tag"] = "stamped"
				return nil
			},
		},
	}
	et, err := NewPipeline().Define(def)
	if err != nil {
		t.Fatalf("define: %v", err)
	}

	rec, err := et.Insert(nil, Record{"title": "x"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if rec["tag"] != "stamped" {
		t.Fatalf("hook did not run: %v", rec)
	}
}

func TestEntityType_Computation(t *testing.T) {
	def := &Definition{
		Name:   "people",
		Fields: []*Field{F("first", 0), F("last", 0), F("full", 0)},
		Computations: []Computation{
			{Field: "full", Compute: func(rec Record) (any, error) {
				return rec["first"].(string) + " " + rec["last"].(string), nil
			}},
		},
	}
	et, err := NewPipeline().Define(def)
	if err != nil {
		t.Fatalf("define: %v", err)
	}

	rec, err := et.Insert(nil, Record{"first": "Ada", "last": "Lovelace"})
	if err != nil {
		t.Fatalf("insert: %v", err)
	}
	if rec["full"] != "Ada Lovelace" {
		t.Fatalf("computed value = %v", rec["full"])
	}
}

func TestEntityType_Describe(t *testing.T) {
	def := &Definition{
		Name:   "people",
		Format: "{first} {last} ({id})",
		Fields: []*Field{F("first", 0), F("last", 0)},
	}
	et, err := NewPipeline().Define(def)
	if err != nil {
		t.Fatalf("define: %v", err)
	}

	got := et.Describe(Record{"first": "Ada", "last": "Lovelace", "id": "42"})
	if got != "Ada Lovelace (42)" {
		t.Fatalf("Describe = %q", got)
	}
}
