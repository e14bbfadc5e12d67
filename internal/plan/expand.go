package plan

import (
	"slices"

	"upgrade-planner/internal/diagnostic"
	"upgrade-planner/internal/hint"
	"upgrade-planner/internal/model"
)

// normalize expands hints targeting open generic definitions into one hint
// per closed instantiation and rewrites every MoveField into a CopyField
// plus a RemoveField of the source. Other hints pass through in order.
func (p *planner) normalize(in []hint.Hint) hint.List {
	renames := make(map[string]string)

	for _, h := range in {
		if r, ok := h.(*hint.RenameType); ok {
			if _, seen := renames[r.OldName]; !seen {
				renames[r.OldName] = r.NewName
			}
		}
	}

	var typesExpanded hint.List

	for _, h := range in {
		if h == nil {
			continue
		}

		if r, ok := h.(*hint.RenameType); ok && isOpenGeneric(p.newModel, r.NewName) {
			typesExpanded = append(typesExpanded, p.expandRenameType(r, renames)...)
			continue
		}

		typesExpanded = append(typesExpanded, h)
	}

	// New instantiation name -> old instantiation name, for RenameField expansion.
	origins := make(map[string]string)

	for _, h := range typesExpanded {
		if r, ok := h.(*hint.RenameType); ok {
			origins[r.NewName] = r.OldName
		}
	}

	out := make(hint.List, 0, len(typesExpanded))

	for _, h := range typesExpanded {
		switch h := h.(type) {
		case *hint.RenameField:
			if isOpenGeneric(p.newModel, h.Type) {
				out = append(out, p.expandRenameField(h, origins)...)
				continue
			}

			out = append(out, h)
		case *hint.MoveField:
			out = append(out,
				&hint.CopyField{
					SourceType:  h.SourceType,
					SourceField: h.SourceField,
					TargetType:  h.TargetType,
					TargetField: h.TargetField,
				},
				&hint.RemoveField{Type: h.SourceType, Field: h.SourceField},
			)
			p.diags.AddInfo(diagnostic.CodeMoveRewritten, "rewritten into a copy and a removal of the source",
				diagnostic.TypePair(h.SourceType, h.TargetType), h.SourceField)
		default:
			out = append(out, h)
		}
	}

	return out
}

func isOpenGeneric(m *model.Model, name string) bool {
	t := m.Type(name)
	return t != nil && t.IsGeneric
}

// expandRenameType emits a RenameType for every old instantiation of the
// renamed definition whose arguments resolve to an existing new instantiation
// under a different name.
func (p *planner) expandRenameType(r *hint.RenameType, renames map[string]string) []hint.Hint {
	var out []hint.Hint

	for _, oldInst := range p.oldModel.Instantiations(r.OldName) {
		args, ok := p.resolveArguments(oldInst.GenericArguments, renames)
		if !ok {
			continue
		}

		newInst := findInstantiation(p.newModel, r.NewName, args)
		if newInst == nil || newInst.Name == oldInst.Name {
			continue
		}

		out = append(out, &hint.RenameType{OldName: oldInst.Name, NewName: newInst.Name})
		p.diags.AddInfo(diagnostic.CodeGenericExpanded, "expanded from "+r.String(),
			diagnostic.TypePair(oldInst.Name, newInst.Name), "")
		p.logger.Debug("generic rename expanded", "definition", r.NewName, "old", oldInst.Name, "new", newInst.Name)
	}

	return out
}

// expandRenameField emits a RenameField for every new instantiation of the
// target definition that has an old counterpart.
func (p *planner) expandRenameField(r *hint.RenameField, origins map[string]string) []hint.Hint {
	if r.OldName == r.NewName {
		return nil
	}

	var out []hint.Hint

	for _, newInst := range p.newModel.Instantiations(r.Type) {
		oldName := newInst.Name
		if origin, ok := origins[newInst.Name]; ok {
			oldName = origin
		}

		if p.oldModel.Type(oldName) == nil {
			continue
		}

		out = append(out, &hint.RenameField{Type: newInst.Name, OldName: r.OldName, NewName: r.NewName})
		p.diags.AddInfo(diagnostic.CodeGenericExpanded, "expanded from "+r.String(),
			diagnostic.TypePair(oldName, newInst.Name), r.OldName)
	}

	return out
}

func (p *planner) resolveArguments(args []string, renames map[string]string) ([]string, bool) {
	out := make([]string, 0, len(args))

	for _, a := range args {
		resolved, ok := p.resolveTypeName(a, renames)
		if !ok {
			return nil, false
		}

		out = append(out, resolved)
	}

	return out, true
}

// resolveTypeName returns the new name of an old type used as a generic
// argument. Names unknown to the old model (primitives) resolve to themselves.
func (p *planner) resolveTypeName(name string, renames map[string]string) (string, bool) {
	t := p.oldModel.Type(name)
	if t == nil {
		return name, true
	}

	if t.IsClosedGeneric() {
		definition := t.GenericDefinition
		if renamed, ok := renames[definition]; ok {
			definition = renamed
		}

		args, ok := p.resolveArguments(t.GenericArguments, renames)
		if !ok {
			return "", false
		}

		inst := findInstantiation(p.newModel, definition, args)
		if inst == nil {
			return "", false
		}

		return inst.Name, true
	}

	target := name
	if renamed, ok := renames[name]; ok {
		target = renamed
	}

	if p.newModel.Type(target) == nil {
		return "", false
	}

	return target, true
}

func findInstantiation(m *model.Model, definition string, args []string) *model.Type {
	for _, inst := range m.Instantiations(definition) {
		if slices.Equal(inst.GenericArguments, args) {
			return inst
		}
	}

	return nil
}
