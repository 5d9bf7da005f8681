package validator_test

import (
	"github.com/aretw0/sysml/pkg/domain"
)

func partDef(id, name string, specializes ...string) *domain.PartDefinition {
	d := &domain.PartDefinition{}
	d.ID = id
	d.Name = name
	d.SpecializationIDs = specializes
	return d
}

func portDef(id, name string) *domain.PortDefinition {
	d := &domain.PortDefinition{}
	d.ID = id
	d.Name = name
	return d
}

func portUsage(id, name, defID string) *domain.PortUsage {
	u := &domain.PortUsage{}
	u.ID = id
	u.Name = name
	u.DefinitionID = defID
	return u
}

func action(id string) *domain.ActionUsage {
	a := &domain.ActionUsage{}
	a.ID = id
	a.Name = id
	return a
}

func elements(es ...domain.Element) []domain.Element { return es }
