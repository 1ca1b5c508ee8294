// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package event

import "context"

// # Event Data Access

// Repository defines the data access contract for events.
type Repository interface {
	/*
		List returns a page of events ordered by start time.

		Parameters:
		  - context: context.Context
		  - filter: Filter (window, delegation, viewer)
		  - limit: int
		  - offset: int

		Returns:
		  - []*Event: Events with their role grants
		  - int: Total count matching filters
		  - error: Database execution errors
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Event, int, error)

	// FindByID returns one event with its role grants, or NOT_FOUND.
	FindByID(context context.Context, id string) (*Event, error)

	// Create inserts the event and its role grants atomically.
	Create(context context.Context, event *Event) error

	// Update persists the event and replaces its role grants atomically.
	Update(context context.Context, event *Event) error

	// Delete removes the event; grants cascade.
	Delete(context context.Context, id string) error
}
