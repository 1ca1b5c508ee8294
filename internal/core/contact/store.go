// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact

import "context"

// Repository defines the data access contract for the inbox.
type Repository interface {
	// List returns a page of messages, newest first, and the total count.
	List(context context.Context, filter Filter, limit, offset int) ([]*Message, int, error)

	// CountUnread returns how many messages nobody has read yet.
	CountUnread(context context.Context) (int, error)

	Create(context context.Context, message *Message) error

	// SetRead flags a message read or unread, or reports NOT_FOUND.
	SetRead(context context.Context, id string, read bool) (*Message, error)

	Delete(context context.Context, id string) error
}
