package diff

import (
	"github.com/leapstack-labs/leapmodel/pkg/model"
)

func compareEntities(oldEntities, newEntities []model.Entity, breaking *breakingSet) EntityChanges {
	oldByName := entityIndex(oldEntities)
	newByName := entityIndex(newEntities)

	set := compareSets(keys(oldEntities, entityName), keys(newEntities, entityName))
	c := EntityChanges{Added: set.Added, Removed: set.Removed, Changed: []EntityChange{}}
	for _, name := range c.Removed {
		breaking.add("Entity removed: " + name)
	}

	for _, name := range keys(newEntities, entityName) {
		before, ok := oldByName[name]
		if !ok {
			continue
		}
		ec := compareFields(before, newByName[name], breaking)
		if !ec.empty() {
			c.Changed = append(c.Changed, ec)
		}
	}
	return c
}

func entityName(e model.Entity) string { return e.Name }

func entityIndex(entities []model.Entity) map[string]*model.Entity {
	m := make(map[string]*model.Entity, len(entities))
	for i := range entities {
		if _, ok := m[entities[i].Name]; !ok {
			m[entities[i].Name] = &entities[i]
		}
	}
	return m
}

func compareFields(before, after *model.Entity, breaking *breakingSet) EntityChange {
	fieldName := func(f model.Field) string { return f.Name }
	set := compareSets(keys(before.Fields, fieldName), keys(after.Fields, fieldName))

	ec := EntityChange{
		Name:               after.Name,
		FieldsAdded:        set.Added,
		FieldsRemoved:      set.Removed,
		TypeChanged:        []TypeChange{},
		NullabilityChanged: []NullabilityChange{},
	}
	for _, f := range ec.FieldsRemoved {
		breaking.add("Field removed: " + model.Ref(before.Name, f))
	}

	for _, f := range after.Fields {
		old, ok := before.FieldByName(f.Name)
		if !ok {
			continue
		}
		ref := model.Ref(after.Name, f.Name)

		if old.Type != f.Type {
			ec.TypeChanged = append(ec.TypeChanged, TypeChange{Field: f.Name, From: old.Type, To: f.Type})
			breaking.add("Field type changed: " + ref)
		}
		if old.IsNullable() != f.IsNullable() {
			ec.NullabilityChanged = append(ec.NullabilityChanged, NullabilityChange{
				Field: f.Name, From: old.IsNullable(), To: f.IsNullable(),
			})
			if !f.IsNullable() {
				breaking.add("Field became non-nullable: " + ref)
			}
		}
	}
	return ec
}
