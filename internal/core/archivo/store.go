// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package archivo

import "context"

// # File Data Access

// Repository defines the data access contract for file metadata.
type Repository interface {
	// List returns a page of files, newest first, and the total count.
	List(context context.Context, filter Filter, limit, offset int) ([]*Archivo, int, error)

	// Folders counts the files per folder under the same visibility rule as List.
	Folders(context context.Context, filter Filter) ([]Folder, error)

	// FindByID returns one file with its role grants, or NOT_FOUND.
	FindByID(context context.Context, id string) (*Archivo, error)

	// Create inserts the file row and its role grants atomically.
	Create(context context.Context, file *Archivo) error

	// Update persists metadata and replaces role grants atomically.
	Update(context context.Context, file *Archivo) error

	/*
		Delete removes the file row.

		Returns:
		  - string: The object key the row pointed at
		  - error: NOT_FOUND when no row matched
	*/
	Delete(context context.Context, id string) (string, error)
}
