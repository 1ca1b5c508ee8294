// Copyright (c) 2026 Comunidad. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package contact

import (
	"context"
	"log/slog"
	"strings"

	"github.com/taibuivan/comunidad/internal/platform/apperr"
	"github.com/taibuivan/comunidad/internal/platform/validate"
	"github.com/taibuivan/comunidad/pkg/uuid"
)

// Service handles contact form submissions and the inbox.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a contact [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

/*
Submit validates and stores a public contact form message.

Returns:
  - *Message: The stored message
  - error: VALIDATION_ERROR with one detail per bad field
*/
func (service *Service) Submit(context context.Context, submission Submission) (*Message, error) {
	message := &Message{
		Name:    strings.TrimSpace(submission.Name),
		Email:   strings.ToLower(strings.TrimSpace(submission.Email)),
		Phone:   blankToNil(submission.Phone),
		Subject: blankToNil(submission.Subject),
		Message: strings.TrimSpace(submission.Message),
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, message.Name).MaxLen(FieldName, message.Name, 120)
	validator.Required(FieldEmail, message.Email).Email(FieldEmail, message.Email)
	validator.Required(FieldMessage, message.Message).MinLen(FieldMessage, message.Message, 10).MaxLen(FieldMessage, message.Message, 5000)
	if message.Phone != nil {
		validator.MaxLen(FieldPhone, *message.Phone, 40)
	}
	if message.Subject != nil {
		validator.MaxLen(FieldSubject, *message.Subject, 200)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	message.ID = uuid.New()
	if err := service.repo.Create(context, message); err != nil {
		return nil, err
	}

	service.logger.Info("contact_message_received", slog.String("message_id", message.ID))
	return message, nil
}

// List returns a page of the inbox.
func (service *Service) List(context context.Context, filter Filter, limit, offset int) ([]*Message, int, error) {
	return service.repo.List(context, filter, limit, offset)
}

// CountUnread returns the inbox badge count.
func (service *Service) CountUnread(context context.Context) (int, error) {
	return service.repo.CountUnread(context)
}

// SetRead flags a message read or unread.
func (service *Service) SetRead(context context.Context, id string, read bool) (*Message, error) {
	if !uuid.IsValid(id) {
		return nil, apperr.NotFound("Message")
	}
	return service.repo.SetRead(context, id, read)
}

// Delete removes a message.
func (service *Service) Delete(context context.Context, id string) error {
	if !uuid.IsValid(id) {
		return apperr.NotFound("Message")
	}
	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("contact_message_deleted", slog.String("message_id", id))
	return nil
}

func blankToNil(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
