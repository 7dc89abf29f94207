// Package model implements the entity-definition engine of the auth
// subsystem: field declarations with per-field read/write exposure, the
// ordered definition pipeline that assembles an entity type before use, and
// the visibility resolver that computes which fields the registration and
// profile forms expose.
//
// Entity types are assembled once at startup and are read-only afterwards;
// record-level helpers (Insert/Update) only compose values — persistence is
// the storage layer's concern.
package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is the root of all record-level validation failures.
var ErrValidation = errors.New("validation failed")

// Field declares a single entity field with its exposure flags and value
// providers. Flags are mutated only by the definition pipeline.
type Field struct {
	Name     string
	Length   int // max length for string values; 0 means unbounded
	Unique   bool
	NotNull  bool
	Readable bool
	Writable bool
	Default  Provider
	OnUpdate Provider
}

// FieldOpt customises a field at declaration time.
type FieldOpt func(*Field)

// Unique marks the field globally unique (enforced by the storage engine).
func Unique() FieldOpt { return func(f *Field) { f.Unique = true } }

// NotNull requires the field to be present and non-nil at insert and update.
func NotNull() FieldOpt { return func(f *Field) { f.NotNull = true } }

// NoRW excludes the field from external reads and writes.
func NoRW() FieldOpt {
	return func(f *Field) { f.Readable, f.Writable = false, false }
}

// Default sets the provider invoked for missing values at insert.
func Default(p Provider) FieldOpt { return func(f *Field) { f.Default = p } }

// OnUpdate sets the provider invoked at every update.
func OnUpdate(p Provider) FieldOpt { return func(f *Field) { f.OnUpdate = p } }

// F declares a readable, writable field. length bounds string values, 0
// means unbounded.
func F(name string, length int, opts ...FieldOpt) *Field {
	f := &Field{Name: name, Length: length, Readable: true, Writable: true}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Field) clone() *Field {
	c := *f
	return &c
}

// Validator checks a single field value. A nil error means the value passed.
type Validator func(value any) error

// InRange validates that an integer value lies in [min, max].
func InRange(min, max int64) Validator {
	return func(value any) error {
		var n int64
		switch v := value.(type) {
		case int:
			n = int64(v)
		case int32:
			n = int64(v)
		case int64:
			n = v
		default:
			return fmt.Errorf("expected integer, got %T", value)
		}
		if n < min || n > max {
			return fmt.Errorf("value %d out of range [%d, %d]", n, min, max)
		}
		return nil
	}
}

// Hook runs against a record during insert or update composition. Hooks may
// mutate the record in place.
type Hook func(req *RequestContext, rec Record) error

// Computation derives a field value from the rest of the record.
type Computation struct {
	Field   string
	Compute func(rec Record) (any, error)
}

// Scope is a named, reusable query filter consumed by the storage layer.
type Scope func() map[string]any

// Index describes a storage index requested by an entity type.
type Index struct {
	Name   string
	Fields []string
	Unique bool
}

// Record is an untyped row of field values.
type Record map[string]any

func (r Record) clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// EntityType is a fully assembled entity definition. It is produced by a
// Pipeline and must not be mutated afterwards: definition happens-before
// serving, so no locking is applied.
type EntityType struct {
	Name   string
	Format string

	fields []*Field
	byName map[string]*Field

	validators   map[string][]Validator
	defaults     map[string]Provider
	updates      map[string]Provider
	computations []Computation
	beforeInsert []Hook
	beforeUpdate []Hook
	scopes       map[string]Scope
	indexes      []Index
	defined      bool
}

// Fields returns the ordered field list.
func (e *EntityType) Fields() []*Field { return e.fields }

// Field looks a field up by name.
func (e *EntityType) Field(name string) (*Field, bool) {
	f, ok := e.byName[name]
	return f, ok
}

// Indexes returns the storage indexes assembled by the pipeline.
func (e *EntityType) Indexes() []Index { return e.indexes }

// Scope returns a named query scope, if declared.
func (e *EntityType) Scope(name string) (Scope, bool) {
	s, ok := e.scopes[name]
	return s, ok
}

// Describe renders the entity's representation format ("{email} ({id})")
// against a record. Unknown placeholders were rejected at definition time.
func (e *EntityType) Describe(rec Record) string {
	out := e.Format
	for name, value := range rec {
		out = strings.ReplaceAll(out, "{"+name+"}", fmt.Sprintf("%v", value))
	}
	return out
}

// Insert composes a new record from the given values: defaults fill missing
// fields, computations and before-insert hooks run, then every field is
// validated. The input map is not mutated.
func (e *EntityType) Insert(req *RequestContext, values Record) (Record, error) {
	rec := values.clone()
	for name, provide := range e.defaults {
		if _, ok := rec[name]; !ok {
			rec[name] = provide(req)
		}
	}
	if err := e.compose(req, rec, e.beforeInsert); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update composes the post-update state of a record: changes are merged,
// update providers refresh their fields, computations and before-update
// hooks run, then the record is validated. Neither input map is mutated.
func (e *EntityType) Update(req *RequestContext, rec Record, changes Record) (Record, error) {
	out := rec.clone()
	for k, v := range changes {
		out[k] = v
	}
	for name, provide := range e.updates {
		out[name] = provide(req)
	}
	if err := e.compose(req, out, e.beforeUpdate); err != nil {
		return nil, err
	}
	return out, nil
}

// UpdateChanges composes the storage-bound change set for an update: the
// explicit changes plus every update-provider field (updated_at among them),
// validated against the full post-update record state.
func (e *EntityType) UpdateChanges(req *RequestContext, rec Record, changes Record) (Record, error) {
	out, err := e.Update(req, rec, changes)
	if err != nil {
		return nil, err
	}
	set := changes.clone()
	for name := range e.updates {
		set[name] = out[name]
	}
	return set, nil
}

func (e *EntityType) compose(req *RequestContext, rec Record, hooks []Hook) error {
	for _, c := range e.computations {
		v, err := c.Compute(rec)
		if err != nil {
			return fmt.Errorf("%s: compute %s: %w", e.Name, c.Field, err)
		}
		rec[c.Field] = v
	}
	for _, hook := range hooks {
		if err := hook(req, rec); err != nil {
			return fmt.Errorf("%s: hook: %w", e.Name, err)
		}
	}
	return e.validate(rec)
}

func (e *EntityType) validate(rec Record) error {
	for _, f := range e.fields {
		value, present := rec[f.Name]
		if f.NotNull {
			if !present || value == nil {
				return fmt.Errorf("%w: %s.%s must not be null", ErrValidation, e.Name, f.Name)
			}
		}
		if !present {
			continue
		}
		if f.Length > 0 {
			if s, ok := value.(string); ok && len(s) > f.Length {
				return fmt.Errorf("%w: %s.%s exceeds %d characters", ErrValidation, e.Name, f.Name, f.Length)
			}
		}
		for _, check := range e.validators[f.Name] {
			if err := check(value); err != nil {
				return fmt.Errorf("%w: %s.%s: %v", ErrValidation, e.Name, f.Name, err)
			}
		}
	}
	return nil
}

// Registry holds the process-wide set of defined entity types. It is
// populated at startup, before any traffic, and read-only afterwards.
type Registry struct {
	types map[string]*EntityType
	order []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*EntityType)}
}

// Register adds a defined entity type. Registering an undefined or duplicate
// type is a configuration error.
func (r *Registry) Register(et *EntityType) error {
	if !et.defined {
		return fmt.Errorf("%w: entity type %q was not defined", ErrConfig, et.Name)
	}
	if _, exists := r.types[et.Name]; exists {
		return fmt.Errorf("%w: entity type %q already registered", ErrConfig, et.Name)
	}
	r.types[et.Name] = et
	r.order = append(r.order, et.Name)
	return nil
}

// Get returns a registered entity type by name.
func (r *Registry) Get(name string) (*EntityType, bool) {
	et, ok := r.types[name]
	return et, ok
}

// Names lists registered entity types in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
