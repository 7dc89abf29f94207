package model

import (
	"errors"
	"fmt"
	"sort"
)

// ErrConfig marks definition-time configuration errors. They are fatal to
// startup and never surface per-request.
var ErrConfig = errors.New("invalid configuration")

// FormContext identifies one of the two form visibility policies.
type FormContext string

const (
	FormRegister FormContext = "register"
	FormProfile  FormContext = "profile"
)

// Setting keys under which resolved form visibility is published.
const (
	SettingRegisterFields = "register_fields"
	SettingProfileFields  = "profile_fields"
)

// FieldSetting is the operator-supplied visibility input for one form
// context. Exactly one shape may be used: empty (defer to base visibility),
// a flat list (applied to both readable and writable), or an explicit
// readable/writable split. Mixing Flat with the split is a configuration
// error.
type FieldSetting struct {
	Flat     []string
	Readable []string
	Writable []string
}

func (s FieldSetting) isEmpty() bool {
	return len(s.Flat) == 0 && len(s.Readable) == 0 && len(s.Writable) == 0
}

// FieldAccess is the resolved visibility of one form context: the field
// names exposed as readable and as writable.
type FieldAccess struct {
	Readable map[string]struct{}
	Writable map[string]struct{}
}

func newFieldAccess(readable, writable []string) FieldAccess {
	a := FieldAccess{
		Readable: make(map[string]struct{}, len(readable)),
		Writable: make(map[string]struct{}, len(writable)),
	}
	for _, name := range readable {
		a.Readable[name] = struct{}{}
	}
	for _, name := range writable {
		a.Writable[name] = struct{}{}
	}
	return a
}

// CanRead reports whether the field is exposed for reading.
func (a FieldAccess) CanRead(field string) bool {
	_, ok := a.Readable[field]
	return ok
}

// CanWrite reports whether the field is exposed for writing.
func (a FieldAccess) CanWrite(field string) bool {
	_, ok := a.Writable[field]
	return ok
}

// ReadableNames returns the readable set as a sorted slice.
func (a FieldAccess) ReadableNames() []string { return sortedNames(a.Readable) }

// WritableNames returns the writable set as a sorted slice.
func (a FieldAccess) WritableNames() []string { return sortedNames(a.Writable) }

func sortedNames(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Override adjusts the resolved visibility of a single field. Entries apply
// in declaration order; the last entry for a field wins.
type Override struct {
	Field    string
	Readable bool
	Writable bool
}

// Overrides is an ordered list of per-field visibility adjustments.
type Overrides []Override

// Both overrides readable and writable with the same flag.
func Both(field string, rw bool) Override {
	return Override{Field: field, Readable: rw, Writable: rw}
}

// Split overrides readable and writable independently.
func Split(field string, readable, writable bool) Override {
	return Override{Field: field, Readable: readable, Writable: writable}
}

// ResolveVisibility computes the final readable/writable field sets for one
// form context. It is a pure function over the entity's post-hiding field
// state, the global setting for the context, and the per-field overrides;
// the caller assigns the result into Settings.
func ResolveVisibility(ctx FormContext, fields []*Field, setting FieldSetting, overrides Overrides) (FieldAccess, error) {
	readable, writable, err := normalizeSetting(ctx, fields, setting)
	if err != nil {
		return FieldAccess{}, err
	}

	access := newFieldAccess(readable, writable)
	for _, ov := range overrides {
		applyFlag(access.Readable, ov.Field, ov.Readable)
		applyFlag(access.Writable, ov.Field, ov.Writable)
	}
	return access, nil
}

// normalizeSetting expands the three accepted setting shapes into explicit
// readable/writable lists.
func normalizeSetting(ctx FormContext, fields []*Field, setting FieldSetting) (readable, writable []string, err error) {
	switch {
	case setting.isEmpty():
		base := baseVisibility(ctx, fields)
		return base, base, nil
	case len(setting.Flat) > 0 && (len(setting.Readable) > 0 || len(setting.Writable) > 0):
		return nil, nil, fmt.Errorf("%w: %s fields: flat list and readable/writable split are mutually exclusive", ErrConfig, ctx)
	case len(setting.Flat) > 0:
		return setting.Flat, setting.Flat, nil
	default:
		return setting.Readable, setting.Writable, nil
	}
}

// baseVisibility lists the fields currently writable, excluding credentials
// in the profile context. It reads the post-hiding flags, so the pipeline
// must have run the hiding step first.
func baseVisibility(ctx FormContext, fields []*Field) []string {
	var out []string
	for _, f := range fields {
		if !f.Writable {
			continue
		}
		if ctx == FormProfile && (f.Name == "password" || f.Name == "email") {
			continue
		}
		out = append(out, f.Name)
	}
	return out
}

// applyFlag adds or removes a field from a set; removing an absent field is
// a no-op.
func applyFlag(set map[string]struct{}, field string, keep bool) {
	if keep {
		set[field] = struct{}{}
		return
	}
	delete(set, field)
}

// Settings is the auth subsystem's shared configuration: the verification
// policy, the operator-supplied form field settings, and the visibility
// resolved from them during definition. It is written only at startup.
type Settings struct {
	// RequireVerification makes inserts of new accounts issue a
	// registration token when none is supplied.
	RequireVerification bool

	// Fields holds the operator-supplied visibility inputs per context.
	Fields map[FormContext]FieldSetting

	access map[FormContext]FieldAccess
}

// NewSettings returns Settings with empty field inputs.
func NewSettings() *Settings {
	return &Settings{Fields: make(map[FormContext]FieldSetting)}
}

// FieldSettingFor returns the operator-supplied input for a context.
func (s *Settings) FieldSettingFor(ctx FormContext) FieldSetting {
	return s.Fields[ctx]
}

// SetFieldAccess publishes resolved visibility for a context. Called by the
// definition pipeline; consumed by the form-rendering layer.
func (s *Settings) SetFieldAccess(ctx FormContext, a FieldAccess) {
	if s.access == nil {
		s.access = make(map[FormContext]FieldAccess)
	}
	s.access[ctx] = a
}

// FieldAccess returns the resolved visibility for a context.
func (s *Settings) FieldAccess(ctx FormContext) (FieldAccess, bool) {
	a, ok := s.access[ctx]
	return a, ok
}
