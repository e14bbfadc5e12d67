package plan

import (
	"errors"

	"upgrade-planner/internal/common"
	"upgrade-planner/internal/diagnostic"
	"upgrade-planner/internal/hint"
	"upgrade-planner/internal/model"
)

// mapTypes maps every old type that is neither removed, a connector, nor an
// open generic definition onto the new type named by its RenameType hint or,
// without one, onto the new type of the same name.
func (p *planner) mapTypes() error {
	for _, t := range p.oldModel.Types() {
		if t.IsGeneric || t.IsConnector() {
			continue
		}

		if _, removed := p.removedTypes[t.Name]; removed {
			continue
		}

		name := t.Name
		code := diagnostic.CodeTypeIdentity

		var source hint.Hint
		if r, ok := p.renamedTypes[t.Name]; ok {
			name, source, code = r.NewName, r, diagnostic.CodeTypeRenamed
		}

		target := p.newModel.Type(name)
		if target == nil || target.IsGeneric || target.IsConnector() {
			continue
		}

		if err := p.mapType(t, target, source, code); err != nil {
			return err
		}
	}

	return nil
}

// mapType records oldType -> newType. A second mapping of either side is a
// HintConflictError naming the hints behind both mappings.
func (p *planner) mapType(oldType, newType *model.Type, source hint.Hint, code string) error {
	if err := p.types.Map(oldType, newType); err != nil {
		var mapped *common.AlreadyMappedError[*model.Type, *model.Type]
		if errors.As(err, &mapped) && mapped.Forward {
			return conflict(p.typeHints[oldType], source, oldType.Name)
		}

		return conflict(p.typeHints[newType], source, newType.Name)
	}

	if source != nil {
		p.typeHints[oldType] = source
		p.typeHints[newType] = source
	}

	p.diags.AddInfo(code, explain(code, source), diagnostic.TypePair(oldType.Name, newType.Name), "")

	return nil
}

func explain(code string, source hint.Hint) string {
	switch code {
	case diagnostic.CodeTypeIdentity, diagnostic.CodeFieldIdentity:
		return "mapped by name"
	case diagnostic.CodeNestedField:
		return "mapped through the value type"
	case diagnostic.CodeConnectorInferred:
		return "inferred from the owning field of its association"
	}

	if source != nil {
		return "mapped by " + source.String()
	}

	return code
}
