// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package delegation

import "context"

// Repository defines the data access contract for delegations.
type Repository interface {
	List(context context.Context, filter Filter, limit, offset int) ([]*Delegation, int, error)
	FindByID(context context.Context, id string) (*Delegation, error)
	FindBySlug(context context.Context, slug string) (*Delegation, error)
	Create(context context.Context, delegation *Delegation) error
	Update(context context.Context, delegation *Delegation) error
	Delete(context context.Context, id string) error
}
