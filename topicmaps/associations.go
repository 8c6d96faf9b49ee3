package topicmaps

import "github.com/zefrenchwan/topicmaps.git/locators"

// Association is a typed and scoped relation between topics, each one playing a role.
// For instance, "John works for ACME" is an association of type employment,
// with John playing the employee role and ACME the employer role
type Association struct {
	construct
	reifiable
	typed
	scoped

	// roles of the association
	roles []*Role
}

// Parent returns the topic map of the association
func (a *Association) Parent() Construct {
	if a == nil {
		return nil
	}

	return a.topicMap
}

// Roles returns the roles of the association
func (a *Association) Roles() []*Role {
	if a == nil {
		return nil
	}

	result := make([]*Role, len(a.roles))
	copy(result, a.roles)
	return result
}

// RolesByType returns the roles of the association with that type
func (a *Association) RolesByType(roleType *Topic) []*Role {
	var result []*Role
	for _, role := range a.Roles() {
		if role.topicType == roleType {
			result = append(result, role)
		}
	}

	return result
}

// RoleTypes returns the distinct role types, sorted by id
func (a *Association) RoleTypes() []*Topic {
	var result []*Topic
	for _, role := range a.Roles() {
		result = appendUnique(result, role.topicType)
	}

	return sortedTopics(result)
}

// CreateRole adds a role to the association
func (a *Association) CreateRole(roleType, player *Topic) (*Role, error) {
	if a == nil {
		return nil, newModelError(nil, "nil association")
	}

	tm := a.topicMap
	var result *Role
	err := tm.atomically(a, func() error {
		if err := tm.checkTopic(a, roleType, "role type"); err != nil {
			return err
		} else if err := tm.checkTopic(a, player, "role player"); err != nil {
			return err
		}

		role := &Role{construct: newConstruct(tm)}
		tm.attachRole(a, role)
		tm.registerConstruct(role)
		tm.assignType(role, roleType)
		tm.assignPlayer(role, player)
		result = role
		return nil
	})

	return result, err
}

// AddItemIdentifier adds an item identifier to the association
func (a *Association) AddItemIdentifier(loc locators.Locator) error {
	if a == nil {
		return newModelError(nil, "nil association")
	}

	return a.topicMap.addItemIdentifier(a, loc)
}

// RemoveItemIdentifier removes an item identifier of the association
func (a *Association) RemoveItemIdentifier(loc locators.Locator) error {
	if a == nil {
		return newModelError(nil, "nil association")
	}

	return a.topicMap.removeIdentifier(ITEM_IDENTIFIER, a, loc)
}

// SetType changes the type of the association
func (a *Association) SetType(associationType *Topic) error {
	if a == nil {
		return newModelError(nil, "nil association")
	}

	return a.topicMap.setType(a, associationType)
}

// AddTheme adds a theme to the scope
func (a *Association) AddTheme(theme *Topic) error {
	if a == nil {
		return newModelError(nil, "nil association")
	}

	return a.topicMap.addTheme(a, theme)
}

// RemoveTheme removes a theme from the scope
func (a *Association) RemoveTheme(theme *Topic) error {
	if a == nil {
		return newModelError(nil, "nil association")
	}

	return a.topicMap.removeTheme(a, theme)
}

// SetReifier sets the reifier of the association
func (a *Association) SetReifier(reifier *Topic) error {
	if a == nil {
		return newModelError(nil, "nil association")
	}

	return a.topicMap.setReifier(a, reifier)
}

// Remove removes the association and all its roles
func (a *Association) Remove() error {
	if a == nil {
		return newModelError(nil, "nil association")
	} else if a.removed {
		return nil
	}

	return a.topicMap.atomically(a, func() error {
		a.topicMap.removeAssociation(a)
		return nil
	})
}

// Role is the part a topic plays in an association
type Role struct {
	construct
	reifiable
	typed

	// parent is the association of the role
	parent *Association
	// player plays the role, never nil for a live role
	player *Topic
}

// Parent returns the association of the role
func (r *Role) Parent() Construct {
	if r == nil || r.parent == nil {
		return nil
	}

	return r.parent
}

// Association returns the association of the role
func (r *Role) Association() *Association {
	if r == nil {
		return nil
	}

	return r.parent
}

// Player returns the player of the role
func (r *Role) Player() *Topic {
	if r == nil {
		return nil
	}

	return r.player
}

// SetPlayer changes the player of the role
func (r *Role) SetPlayer(player *Topic) error {
	if r == nil {
		return newModelError(nil, "nil role")
	}

	tm := r.topicMap
	return tm.atomically(r, func() error {
		if err := tm.checkTopic(r, player, "role player"); err != nil {
			return err
		}

		tm.assignPlayer(r, player)
		return nil
	})
}

// AddItemIdentifier adds an item identifier to the role
func (r *Role) AddItemIdentifier(loc locators.Locator) error {
	if r == nil {
		return newModelError(nil, "nil role")
	}

	return r.topicMap.addItemIdentifier(r, loc)
}

// RemoveItemIdentifier removes an item identifier of the role
func (r *Role) RemoveItemIdentifier(loc locators.Locator) error {
	if r == nil {
		return newModelError(nil, "nil role")
	}

	return r.topicMap.removeIdentifier(ITEM_IDENTIFIER, r, loc)
}

// SetType changes the type of the role
func (r *Role) SetType(roleType *Topic) error {
	if r == nil {
		return newModelError(nil, "nil role")
	}

	return r.topicMap.setType(r, roleType)
}

// SetReifier sets the reifier of the role
func (r *Role) SetReifier(reifier *Topic) error {
	if r == nil {
		return newModelError(nil, "nil role")
	}

	return r.topicMap.setReifier(r, reifier)
}

// Remove removes the role from its association
func (r *Role) Remove() error {
	if r == nil {
		return newModelError(nil, "nil role")
	} else if r.removed {
		return nil
	}

	return r.topicMap.atomically(r, func() error {
		r.topicMap.removeRole(r)
		return nil
	})
}
