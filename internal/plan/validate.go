package plan

import (
	"fmt"

	"upgrade-planner/internal/hint"
	"upgrade-planner/internal/model"
)

// claims detects hints naming the same source or destination.
type claims map[string]hint.Hint

func (c claims) claim(key string, h hint.Hint) error {
	if first, ok := c[key]; ok {
		return &HintConflictError{First: first, Second: h, Subject: key}
	}

	c[key] = h

	return nil
}

type validator struct {
	*planner

	typeSources  claims // RenameType, RemoveType
	typeTargets  claims // RenameType
	fieldSources claims // RenameField, RemoveField
	fieldTargets claims // RenameField, CopyField
	retypes      claims // ChangeFieldType
}

// validate checks every hint against both snapshots.
func (p *planner) validate() error {
	v := &validator{
		planner:      p,
		typeSources:  make(claims),
		typeTargets:  make(claims),
		fieldSources: make(claims),
		fieldTargets: make(claims),
		retypes:      make(claims),
	}

	for _, h := range p.hints {
		var err error

		switch h := h.(type) {
		case *hint.RenameType:
			err = v.renameType(h)
		case *hint.RemoveType:
			err = v.removeType(h)
		case *hint.RenameField:
			err = v.renameField(h)
		case *hint.ChangeFieldType:
			err = v.changeFieldType(h)
		case *hint.RemoveField:
			err = v.removeField(h)
		case *hint.CopyField:
			err = v.copyField(h)
		default:
			// MoveField is rewritten by normalize.
			err = fmt.Errorf("unexpected hint %s", h)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func (v *validator) renameType(h *hint.RenameType) error {
	if _, err := v.lookupType(v.oldModel, h.OldName, SideOld); err != nil {
		return err
	}

	if _, err := v.lookupType(v.newModel, h.NewName, SideNew); err != nil {
		return err
	}

	if err := v.typeSources.claim(h.OldName, h); err != nil {
		return err
	}

	return v.typeTargets.claim(h.NewName, h)
}

func (v *validator) removeType(h *hint.RemoveType) error {
	if _, err := v.lookupType(v.oldModel, h.Type, SideOld); err != nil {
		return err
	}

	return v.typeSources.claim(h.Type, h)
}

func (v *validator) renameField(h *hint.RenameField) error {
	newType, err := v.lookupType(v.newModel, h.Type, SideNew)
	if err != nil {
		return err
	}

	if newType.DeclaredField(h.NewName) == nil {
		return v.fieldNotFound(newType, h.NewName, SideNew, declaredNames(newType))
	}

	oldType, ok := v.types.Reverse(newType)
	if !ok {
		return &TypeNotFoundError{Name: h.Type, Side: SideOld, Suggestions: v.suggest(h.Type, v.oldModel.TypeNames())}
	}

	if oldType.DeclaredField(h.OldName) == nil {
		return v.fieldNotFound(oldType, h.OldName, SideOld, declaredNames(oldType))
	}

	if err := v.fieldSources.claim(oldType.Name+"."+h.OldName, h); err != nil {
		return err
	}

	return v.fieldTargets.claim(newType.Name+"."+h.NewName, h)
}

func (v *validator) changeFieldType(h *hint.ChangeFieldType) error {
	newType, err := v.lookupType(v.newModel, h.Type, SideNew)
	if err != nil {
		return err
	}

	if newType.DeclaredField(h.Field) == nil {
		return v.fieldNotFound(newType, h.Field, SideNew, declaredNames(newType))
	}

	return v.retypes.claim(newType.Name+"."+h.Field, h)
}

func (v *validator) removeField(h *hint.RemoveField) error {
	oldType, err := v.lookupType(v.oldModel, h.Type, SideOld)
	if err != nil {
		return err
	}

	if _, err := v.lookupField(oldType, h.Field, SideOld); err != nil {
		return err
	}

	return v.fieldSources.claim(oldType.Name+"."+h.Field, h)
}

func (v *validator) copyField(h *hint.CopyField) error {
	source, err := v.lookupType(v.oldModel, h.SourceType, SideOld)
	if err != nil {
		return err
	}

	if _, err := v.lookupField(source, h.SourceField, SideOld); err != nil {
		return err
	}

	target, err := v.lookupType(v.newModel, h.TargetType, SideNew)
	if err != nil {
		return err
	}

	if _, err := v.lookupField(target, h.TargetField, SideNew); err != nil {
		return err
	}

	return v.fieldTargets.claim(target.Name+"."+h.TargetField, h)
}

func (v *validator) lookupType(m *model.Model, name string, side Side) (*model.Type, error) {
	if t := m.Type(name); t != nil {
		return t, nil
	}

	return nil, &TypeNotFoundError{Name: name, Side: side, Suggestions: v.suggest(name, m.TypeNames())}
}

// lookupField resolves a dotted field path, inherited fields included.
func (v *validator) lookupField(t *model.Type, path string, side Side) (*model.Field, error) {
	if f := t.FieldByPath(path); f != nil {
		return f, nil
	}

	var names []string
	for _, f := range t.AllFields() {
		names = appendFieldNames(names, f)
	}

	return nil, v.fieldNotFound(t, path, side, names)
}

func (v *validator) fieldNotFound(t *model.Type, name string, side Side, candidates []string) error {
	return &FieldNotFoundError{Type: t.Name, Field: name, Side: side, Suggestions: v.suggest(name, candidates)}
}

func declaredNames(t *model.Type) []string {
	names := make([]string, 0, len(t.Fields))
	for _, f := range t.Fields {
		names = append(names, f.Name)
	}

	return names
}

func appendFieldNames(names []string, f *model.Field) []string {
	names = append(names, f.Name)
	for _, n := range f.Fields {
		names = appendFieldNames(names, n)
	}

	return names
}
