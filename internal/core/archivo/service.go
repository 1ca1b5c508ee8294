// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package archivo

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/taibuivan/comunidad/internal/access"
	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/validate"
	"github.com/taibuivan/comunidad/pkg/pointer"
	"github.com/taibuivan/comunidad/pkg/slice"
	"github.com/taibuivan/comunidad/pkg/slug"
	"github.com/taibuivan/comunidad/pkg/uuid"
)

// # Service Layer

// Service orchestrates file metadata and object storage.
type Service struct {
	repo    Repository
	objects ObjectStore
	logger  *slog.Logger
	now     func() time.Time
}

// NewService constructs a file [Service]. objects may be nil when no bucket
// is configured; listings keep working and signing fails with 503.
func NewService(repo Repository, objects ObjectStore, logger *slog.Logger) *Service {
	return &Service{repo: repo, objects: objects, logger: logger, now: time.Now}
}

var errStorageDisabled = apperr.ServiceUnavailable("File storage is not configured")

// # Library

// List returns the files filter.Viewer may see.
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Archivo, int, error) {
	filter.Unrestricted = false
	return service.repo.List(context, filter, limit, offset)
}

// Folders returns the folders holding at least one file the viewer may see.
func (service *Service) Folders(context context.Context, viewer *access.Principal) ([]Folder, error) {
	return service.repo.Folders(context, Filter{Viewer: viewer})
}

// Get returns one file if viewer may see it. Hidden files are NOT_FOUND.
func (service *Service) Get(context context.Context, viewer *access.Principal, id string) (*Archivo, error) {
	file, err := service.GetForAdmin(context, id)
	if err != nil {
		return nil, err
	}
	if !access.CanView(file.Visibility, viewer) {
		return nil, apperr.NotFound("File")
	}
	return file, nil
}

/*
Download signs a GET URL for a file viewer may see.

Returns:
  - Link: URL valid for the storage TTL
  - error: NOT_FOUND when missing or hidden, SERVICE_UNAVAILABLE without storage
*/
func (service *Service) Download(context context.Context, viewer *access.Principal, id string) (Link, error) {
	file, err := service.Get(context, viewer, id)
	if err != nil {
		return Link{}, err
	}
	if service.objects == nil {
		return Link{}, errStorageDisabled
	}

	url, err := service.objects.PresignDownload(context, file.ObjectKey, file.Name+path.Ext(file.ObjectKey))
	if err != nil {
		return Link{}, apperr.Internal(err)
	}

	return Link{URL: url, Method: http.MethodGet, ExpiresAt: service.now().Add(service.objects.TTL())}, nil
}

// # Administration

// ListAll returns every file regardless of visibility.
func (service *Service) ListAll(context context.Context, filter Filter, limit, offset int) ([]*Archivo, int, error) {
	filter.Unrestricted = true
	return service.repo.List(context, filter, limit, offset)
}

// GetForAdmin returns one file whatever its visibility.
func (service *Service) GetForAdmin(context context.Context, id string) (*Archivo, error) {
	if !uuid.IsValid(id) {
		return nil, apperr.NotFound("File")
	}
	return service.repo.FindByID(context, id)
}

/*
Create registers file metadata and signs the upload URL.

Description: The row is written first so the object key is reserved; the
browser then PUTs the bytes straight to the bucket with the returned URL
and Content-Type header.

Returns:
  - *Upload: The stored file and its upload link
  - error: VALIDATION_ERROR, NOT_FOUND (unknown role), SERVICE_UNAVAILABLE
*/
func (service *Service) Create(context context.Context, uploadedBy string, input Input) (*Upload, error) {
	if service.objects == nil {
		return nil, errStorageDisabled
	}

	fileName := strings.TrimSpace(pointer.Val(input.FileName))
	file := &Archivo{
		Name:        strings.TrimSpace(pointer.Val(input.Name)),
		Description: input.Description,
		Folder:      normalizeFolder(input.Folder),
		MimeType:    strings.ToLower(strings.TrimSpace(pointer.Val(input.MimeType))),
		SizeBytes:   pointer.Val(input.SizeBytes),
		UploadedBy:  &uploadedBy,
	}
	if file.Name == "" {
		file.Name = strings.TrimSuffix(fileName, path.Ext(fileName))
	}
	file.IsPublic = pointer.Val(input.IsPublic)
	file.VisibleToAllRoles = pointer.Val(input.VisibleToAllRoles)
	file.RoleIDs = slice.Unique(slice.Map(pointer.Val(input.RoleIDs), uuid.Normalize))

	validator := &validate.Validator{}
	validator.Required(FieldFileName, fileName).MaxLen(FieldFileName, fileName, 255)
	validator.Custom(FieldMimeType, !strings.Contains(file.MimeType, "/"), "Must be a MIME type such as application/pdf")
	validator.Custom(FieldSizeBytes, file.SizeBytes <= 0 || file.SizeBytes > MaxSizeBytes,
		fmt.Sprintf("Must be between 1 and %d bytes", MaxSizeBytes))
	if err := validateFile(validator, file); err != nil {
		return nil, err
	}

	file.ID = uuid.New()
	file.ObjectKey = objectKey(file.Folder, file.ID, fileName)

	// A failed signature must leave no row behind.
	url, err := service.objects.PresignUpload(context, file.ObjectKey, file.MimeType)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	if err := service.repo.Create(context, file); err != nil {
		return nil, err
	}

	service.logger.Info("file_created",
		slog.String("file_id", file.ID),
		slog.String("folder", file.Folder),
		slog.String("visibility", file.Mode()),
		slog.Int64("size_bytes", file.SizeBytes),
	)

	stored, err := service.repo.FindByID(context, file.ID)
	if err != nil {
		return nil, err
	}

	return &Upload{
		File: stored,
		Upload: Link{
			URL:       url,
			Method:    http.MethodPut,
			Headers:   map[string]string{"Content-Type": file.MimeType},
			ExpiresAt: service.now().Add(service.objects.TTL()),
		},
	}, nil
}

// Update changes metadata and visibility. The stored object is untouched.
func (service *Service) Update(context context.Context, id string, input Input) (*Archivo, error) {
	file, err := service.GetForAdmin(context, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		file.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		file.Description = input.Description
	}
	if input.Folder != nil {
		file.Folder = normalizeFolder(input.Folder)
	}
	if input.IsPublic != nil {
		file.IsPublic = *input.IsPublic
	}
	if input.VisibleToAllRoles != nil {
		file.VisibleToAllRoles = *input.VisibleToAllRoles
	}
	if input.RoleIDs != nil {
		file.RoleIDs = slice.Unique(slice.Map(*input.RoleIDs, uuid.Normalize))
	}

	if err := validateFile(&validate.Validator{}, file); err != nil {
		return nil, err
	}

	if err := service.repo.Update(context, file); err != nil {
		return nil, err
	}

	service.logger.Info("file_updated",
		slog.String("file_id", file.ID),
		slog.String("visibility", file.Mode()),
	)
	return service.repo.FindByID(context, file.ID)
}

/*
Delete removes the metadata row, then the stored object.

Description: Once the row is gone the file is unreachable, so a failed
object removal is logged rather than returned.
*/
func (service *Service) Delete(context context.Context, id string) error {
	if !uuid.IsValid(id) {
		return apperr.NotFound("File")
	}

	key, err := service.repo.Delete(context, id)
	if err != nil {
		return err
	}

	if service.objects != nil {
		if err := service.objects.Delete(context, key); err != nil {
			service.logger.Warn("file_object_delete_failed",
				slog.String("file_id", id),
				slog.String("object_key", key),
				slog.Any("error", err),
			)
		}
	}

	service.logger.Info("file_deleted", slog.String("file_id", id))
	return nil
}

// # Helpers

func validateFile(validator *validate.Validator, file *Archivo) error {
	validator.Required(FieldName, file.Name).MaxLen(FieldName, file.Name, 200)
	validator.Required(FieldFolder, file.Folder).MaxLen(FieldFolder, file.Folder, 60)
	if file.Folder != "" {
		validator.Slug(FieldFolder, file.Folder)
	}
	if file.Description != nil {
		validator.MaxLen(FieldDescription, *file.Description, 1000)
	}
	for i, roleID := range file.RoleIDs {
		validator.UUID(fmt.Sprintf("%s[%d]", FieldRoleIDs, i), roleID)
	}
	return validator.Err()
}

// normalizeFolder slugs a folder name, falling back to [DefaultFolder].
func normalizeFolder(folder *string) string {
	name := slug.From(pointer.Val(folder))
	if name == "" {
		return DefaultFolder
	}
	return name
}

// objectKey lays objects out as files/<folder>/<id>/<slugged-name><ext>.
func objectKey(folder, id, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	base := slug.From(strings.TrimSuffix(fileName, path.Ext(fileName)))
	if base == "" {
		base = "file"
	}
	return fmt.Sprintf("files/%s/%s/%s%s", folder, id, base, ext)
}
