// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package archivo manages the shared file library.

Metadata lives in Postgres; bytes live in an S3-compatible bucket and never
pass through the API. Creating a file returns a presigned PUT URL for the
browser, and a download returns a presigned GET URL once [access.CanView]
has allowed it.
*/
package archivo

import (
	"context"
	"time"

	"github.com/taibuivan/comunidad/internal/access"
)

// # Domain Entities

// RoleRef is a role a file is shared with.
type RoleRef struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Color       string `json:"color"`
}

// Archivo is one shared file.
type Archivo struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Folder      string  `json:"folder"`
	ObjectKey   string  `json:"-"`
	MimeType    string  `json:"mime_type"`
	SizeBytes   int64   `json:"size_bytes"`

	access.Visibility

	Roles      []RoleRef `json:"roles"`
	UploadedBy *string   `json:"uploaded_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Folder is a folder name with the number of files the caller can see in it.
type Folder struct {
	Name  string `json:"name"`
	Files int    `json:"files"`
}

// Filter narrows file listings.
type Filter struct {
	// Folders restricts to any of the named folders.
	Folders []string
	// Query matches name or description.
	Query string

	Viewer       *access.Principal
	Unrestricted bool
}

// Input carries the writable fields of a file. On update, nil means
// unchanged; FileName, MimeType and SizeBytes are fixed after creation.
type Input struct {
	Name              *string   `json:"name"`
	FileName          *string   `json:"file_name"`
	Description       *string   `json:"description"`
	Folder            *string   `json:"folder"`
	MimeType          *string   `json:"mime_type"`
	SizeBytes         *int64    `json:"size_bytes"`
	IsPublic          *bool     `json:"is_public"`
	VisibleToAllRoles *bool     `json:"visible_to_all_roles"`
	RoleIDs           *[]string `json:"role_ids"`
}

// Link is a presigned URL handed to the browser.
type Link struct {
	URL       string            `json:"url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers,omitempty"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// Upload is the response to a file creation.
type Upload struct {
	File   *Archivo `json:"file"`
	Upload Link     `json:"upload"`
}

// ObjectStore signs object URLs and removes objects.
type ObjectStore interface {
	PresignUpload(context context.Context, key, contentType string) (string, error)
	PresignDownload(context context.Context, key, filename string) (string, error)
	Delete(context context.Context, key string) error
	TTL() time.Duration
}

const (
	// DefaultFolder holds files created without a folder.
	DefaultFolder = "general"

	// MaxSizeBytes caps a single upload.
	MaxSizeBytes int64 = 100 << 20
)

// # Field Identifiers

const (
	FieldName        = "name"
	FieldFileName    = "file_name"
	FieldDescription = "description"
	FieldFolder      = "folder"
	FieldMimeType    = "mime_type"
	FieldSizeBytes   = "size_bytes"
	FieldRoleIDs     = "role_ids"
)
