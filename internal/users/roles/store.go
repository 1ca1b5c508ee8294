// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package roles

import (
	"context"

	"github.com/taibuivan/comunidad/internal/access"
)

// # Role Data Access

// Repository defines the data access contract for roles and assignments.
type Repository interface {
	access.RoleLookup

	// List returns every role with its member count, ordered by name.
	List(context context.Context) ([]*Role, error)

	// FindByID returns one role or NOT_FOUND.
	FindByID(context context.Context, id string) (*Role, error)

	// FindByName returns one role by its unique name or NOT_FOUND.
	FindByName(context context.Context, name string) (*Role, error)

	// Create inserts a role. A duplicate name is a CONFLICT.
	Create(context context.Context, role *Role) error

	// Update persists name and display fields and refreshes UpdatedAt.
	Update(context context.Context, role *Role) error

	/*
		Delete removes a non-system role and its assignments.

		Returns:
		  - error: NOT_FOUND if no deletable role matched
	*/
	Delete(context context.Context, id string) error

	// CountAssignments returns how many users hold the role.
	CountAssignments(context context.Context, roleID string) (int, error)

	/*
		Assign grants roleID to userID.

		Returns:
		  - error: CONFLICT when already held, NOT_FOUND for an unknown user or role
	*/
	Assign(context context.Context, assignment *Assignment) error

	// Unassign revokes a grant. NOT_FOUND when the user did not hold it.
	Unassign(context context.Context, userID, roleID string) error

	// ListMembers returns a page of accounts with their roles and the total count.
	ListMembers(context context.Context, filter MemberFilter, limit, offset int) ([]*Member, int, error)

	// UserExists reports whether an active account has the given id.
	UserExists(context context.Context, userID string) (bool, error)
}

// # Cache Contract

// Cache invalidates resolved role sets after writes.
type Cache interface {
	// Invalidate drops the cached roles of one user.
	Invalidate(context context.Context, userID string) error

	// InvalidateAll drops every cached role set.
	InvalidateAll(context context.Context) error
}
