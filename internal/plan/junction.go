package plan

import (
	"upgrade-planner/internal/diagnostic"
	"upgrade-planner/internal/model"
)

// mapJunctions maps the connector type of every old association whose
// owning field leads to a new association backed by a connector, then maps
// the connector role fields and their nested key columns. Connectors left
// unmapped are removed by assemble.
func (p *planner) mapJunctions() error {
	for _, a := range p.oldModel.Associations() {
		connector := a.ConnectorType
		if connector == nil || p.types.HasKey(connector) {
			continue
		}

		if _, removed := p.removedTypes[connector.Name]; removed {
			continue
		}

		counterpart := p.counterpart(a)
		if counterpart == nil || counterpart.ConnectorType == nil || p.types.HasValue(counterpart.ConnectorType) {
			continue
		}

		if err := p.mapType(connector, counterpart.ConnectorType, nil, diagnostic.CodeConnectorInferred); err != nil {
			return err
		}

		p.logger.Debug("connector mapped",
			"association", a.Name, "old", connector.Name, "new", counterpart.ConnectorType.Name)

		if err := p.mapRoles(a, counterpart); err != nil {
			return err
		}
	}

	return p.drainNested()
}

// counterpart returns the new association owned by the counterpart of a's
// owning field, provided it still references the mapped referenced type.
func (p *planner) counterpart(a *model.Association) *model.Association {
	field, ok := p.fields.Get(a.OwningField)
	if !ok {
		owner, mapped := p.types.Get(a.OwningType())
		if !mapped {
			return nil
		}

		if field = owner.Field(a.OwningField.Name); field == nil {
			return nil
		}
	}

	na := p.newModel.AssociationOf(field)
	if na == nil {
		return nil
	}

	referenced, ok := p.types.Get(a.ReferencedType)
	if !ok || !referenced.IsA(na.ReferencedType) {
		return nil
	}

	return na
}

// mapRoles maps the Master and Slave role fields of the two connectors,
// swapping them when the owning side changed.
func (p *planner) mapRoles(oldAssoc, newAssoc *model.Association) error {
	roles := [][2]string{
		{model.MasterField, model.MasterField},
		{model.SlaveField, model.SlaveField},
	}
	if oldAssoc.IsMaster != newAssoc.IsMaster {
		roles = [][2]string{
			{model.MasterField, model.SlaveField},
			{model.SlaveField, model.MasterField},
		}
	}

	for _, role := range roles {
		oldRole := oldAssoc.ConnectorType.Field(role[0])
		newRole := newAssoc.ConnectorType.Field(role[1])

		if oldRole == nil || newRole == nil {
			continue
		}

		if err := p.mapField(oldRole, newRole, nil, diagnostic.CodeConnectorInferred); err != nil {
			return err
		}
	}

	return nil
}
