package vault

import (
	"context"
	"slices"
)

// AddGroup stores g, generating an ID when empty.
func (v *Vault) AddGroup(ctx context.Context, g Group) (Group, error) {
	if err := g.validate(); err != nil {
		return Group{}, err
	}
	if g.ID == "" {
		g.ID = v.newID()
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.groupIndexOf(g.ID) >= 0 {
		return Group{}, ErrDuplicateID
	}
	if err := v.commitGroups(ctx, append(slices.Clone(v.groups), g)); err != nil {
		return Group{}, err
	}

	v.publish(ctx, Event{Type: EventGroupAdded, GroupID: g.ID})
	return g, nil
}

// UpdateGroup renames or recolors an existing group.
func (v *Vault) UpdateGroup(ctx context.Context, g Group) (Group, error) {
	if err := g.validate(); err != nil {
		return Group{}, err
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.groupIndexOf(g.ID)
	if i < 0 {
		return Group{}, ErrGroupNotFound
	}
	groups := slices.Clone(v.groups)
	groups[i] = g
	if err := v.commitGroups(ctx, groups); err != nil {
		return Group{}, err
	}

	v.publish(ctx, Event{Type: EventGroupUpdated, GroupID: g.ID})
	return g, nil
}

// DeleteGroup removes the group and clears GroupID on every credential that
// referenced it. The credentials themselves are kept.
func (v *Vault) DeleteGroup(ctx context.Context, id string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	i := v.groupIndexOf(id)
	if i < 0 {
		return ErrGroupNotFound
	}

	creds := slices.Clone(v.creds)
	cleared := 0
	for j := range creds {
		if creds[j].GroupID == id {
			creds[j].GroupID = ""
			cleared++
		}
	}
	if cleared > 0 {
		if err := v.commitCredentials(ctx, creds); err != nil {
			return err
		}
	}
	// References are cleared before the group goes away so a dangling
	// GroupID is never persisted.
	if err := v.commitGroups(ctx, slices.Delete(slices.Clone(v.groups), i, i+1)); err != nil {
		return err
	}

	v.publish(ctx, Event{Type: EventGroupDeleted, GroupID: id})
	return nil
}
