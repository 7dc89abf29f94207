package model

import (
	"fmt"
	"regexp"
)

// Definition declares an entity type before the pipeline assembles it. A
// Definition is never mutated by the pipeline, so one declaration can be
// defined multiple times onto independent EntityType instances.
type Definition struct {
	Name   string
	Format string
	Fields []*Field

	// Validation adds validators beyond the ones derived from field
	// attributes (length, not-null).
	Validation map[string][]Validator

	// DefaultValues and UpdateValues override the per-field providers.
	DefaultValues map[string]Provider
	UpdateValues  map[string]Provider

	Computations []Computation
	BeforeInsert []Hook
	BeforeUpdate []Hook
	Scopes       map[string]Scope
	Indexes      []Index

	// Auth-form configuration, consumed only by the auth pipeline.
	AlwaysVisible []string
	RegisterRW    Overrides
	ProfileRW     Overrides

	// Setup is the final extension point; it observes the fully assembled
	// entity type and may adjust anything set by earlier steps.
	Setup func(*EntityType) error
}

func (d *Definition) overridesFor(ctx FormContext) Overrides {
	if ctx == FormProfile {
		return d.ProfileRW
	}
	return d.RegisterRW
}

// Step is one named stage of the definition pipeline.
type Step struct {
	Name string
	Run  func(def *Definition, et *EntityType) error
}

// Pipeline assembles entity types through a fixed, statically ordered list
// of steps. It runs once per entity type at startup, strictly before record
// traffic begins.
type Pipeline struct {
	steps []Step
}

// NewPipeline returns the base pipeline: structural setup only, no form
// visibility handling.
func NewPipeline() *Pipeline {
	return &Pipeline{steps: baseSteps()}
}

// NewAuthPipeline extends the base pipeline with the field-hiding step, the
// two visibility resolutions (register, profile), and the setup extension
// point. Resolved visibility is assigned into settings. Hiding must run
// after all structural steps (fields exist) and before resolution (the
// resolver reads the post-hiding writable flags); setup runs last.
func NewAuthPipeline(settings *Settings) *Pipeline {
	steps := baseSteps()
	steps = append(steps,
		Step{Name: "hide_fields", Run: stepHideFields},
		Step{Name: "auth_forms", Run: stepAuthForms(settings)},
		Step{Name: "setup", Run: stepSetup},
	)
	return &Pipeline{steps: steps}
}

func baseSteps() []Step {
	return []Step{
		{Name: "validation", Run: stepValidation},
		{Name: "defaults", Run: stepDefaults},
		{Name: "updates", Run: stepUpdates},
		{Name: "representation", Run: stepRepresentation},
		{Name: "computations", Run: stepComputations},
		{Name: "callbacks", Run: stepCallbacks},
		{Name: "scopes", Run: stepScopes},
		{Name: "indexes", Run: stepIndexes},
	}
}

// Define runs every step in order against a fresh EntityType. Any step error
// aborts the definition; the entity type must then not be registered.
func (p *Pipeline) Define(def *Definition) (*EntityType, error) {
	et := newEntityType(def)
	for _, step := range p.steps {
		if err := step.Run(def, et); err != nil {
			return nil, fmt.Errorf("define %s: %s: %w", def.Name, step.Name, err)
		}
	}
	et.defined = true
	return et, nil
}

func newEntityType(def *Definition) *EntityType {
	et := &EntityType{
		Name:       def.Name,
		Format:     def.Format,
		fields:     make([]*Field, 0, len(def.Fields)),
		byName:     make(map[string]*Field, len(def.Fields)),
		validators: make(map[string][]Validator),
		defaults:   make(map[string]Provider),
		updates:    make(map[string]Provider),
		scopes:     make(map[string]Scope),
	}
	for _, f := range def.Fields {
		c := f.clone()
		et.fields = append(et.fields, c)
		et.byName[c.Name] = c
	}
	return et
}

func stepValidation(def *Definition, et *EntityType) error {
	for name, checks := range def.Validation {
		if _, ok := et.byName[name]; !ok {
			return fmt.Errorf("%w: validation for unknown field %q", ErrConfig, name)
		}
		et.validators[name] = append(et.validators[name], checks...)
	}
	return nil
}

func stepDefaults(def *Definition, et *EntityType) error {
	for _, f := range et.fields {
		if f.Default != nil {
			et.defaults[f.Name] = f.Default
		}
	}
	for name, provide := range def.DefaultValues {
		if _, ok := et.byName[name]; !ok {
			return fmt.Errorf("%w: default for unknown field %q", ErrConfig, name)
		}
		et.defaults[name] = provide
	}
	return nil
}

func stepUpdates(def *Definition, et *EntityType) error {
	for _, f := range et.fields {
		if f.OnUpdate != nil {
			et.updates[f.Name] = f.OnUpdate
		}
	}
	for name, provide := range def.UpdateValues {
		if _, ok := et.byName[name]; !ok {
			return fmt.Errorf("%w: update provider for unknown field %q", ErrConfig, name)
		}
		et.updates[name] = provide
	}
	return nil
}

var formatPlaceholder = regexp.MustCompile(`\{([a-z_]+)\}`)

func stepRepresentation(def *Definition, et *EntityType) error {
	for _, m := range formatPlaceholder.FindAllStringSubmatch(def.Format, -1) {
		name := m[1]
		if name == "id" {
			continue
		}
		if _, ok := et.byName[name]; !ok {
			return fmt.Errorf("%w: format references unknown field %q", ErrConfig, name)
		}
	}
	return nil
}

func stepComputations(def *Definition, et *EntityType) error {
	for _, c := range def.Computations {
		if _, ok := et.byName[c.Field]; !ok {
			return fmt.Errorf("%w: computation targets unknown field %q", ErrConfig, c.Field)
		}
		et.computations = append(et.computations, c)
	}
	return nil
}

func stepCallbacks(def *Definition, et *EntityType) error {
	et.beforeInsert = append(et.beforeInsert, def.BeforeInsert...)
	et.beforeUpdate = append(et.beforeUpdate, def.BeforeUpdate...)
	return nil
}

func stepScopes(def *Definition, et *EntityType) error {
	for name, scope := range def.Scopes {
		et.scopes[name] = scope
	}
	return nil
}

func stepIndexes(def *Definition, et *EntityType) error {
	for _, f := range et.fields {
		if f.Unique {
			et.indexes = append(et.indexes, Index{
				Name:   fmt.Sprintf("uniq_%s_%s", et.Name, f.Name),
				Fields: []string{f.Name},
				Unique: true,
			})
		}
	}
	for _, idx := range def.Indexes {
		for _, name := range idx.Fields {
			if _, ok := et.byName[name]; !ok {
				return fmt.Errorf("%w: index %q references unknown field %q", ErrConfig, idx.Name, name)
			}
		}
		et.indexes = append(et.indexes, idx)
	}
	return nil
}

// stepHideFields turns every field invisible except the always-visible
// identity/credential fields. Visibility resolution builds on the flags this
// step leaves behind.
func stepHideFields(def *Definition, et *EntityType) error {
	visible := make(map[string]struct{}, len(def.AlwaysVisible))
	for _, name := range def.AlwaysVisible {
		visible[name] = struct{}{}
	}
	for _, f := range et.fields {
		if _, ok := visible[f.Name]; !ok {
			f.Readable, f.Writable = false, false
		}
	}
	return nil
}

func stepAuthForms(settings *Settings) func(def *Definition, et *EntityType) error {
	return func(def *Definition, et *EntityType) error {
		for _, ctx := range []FormContext{FormRegister, FormProfile} {
			access, err := ResolveVisibility(ctx, et.fields, settings.FieldSettingFor(ctx), def.overridesFor(ctx))
			if err != nil {
				return err
			}
			settings.SetFieldAccess(ctx, access)
		}
		return nil
	}
}

func stepSetup(def *Definition, et *EntityType) error {
	if def.Setup == nil {
		return nil
	}
	return def.Setup(et)
}
