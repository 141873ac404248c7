package services

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"WorkForce360/config/storage"
	"WorkForce360/models"
	"WorkForce360/repository"
	"WorkForce360/util"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DocumentService struct {
	docs  repository.DocumentRepository
	users repository.UserRepository
	store storage.Uploader
	now   clock
	log   *logrus.Logger
}

func NewDocumentService(docs repository.DocumentRepository, users repository.UserRepository,
	store storage.Uploader, log *logrus.Logger) *DocumentService {
	if store == nil {
		store = storage.Disabled{}
	}
	return &DocumentService{docs: docs, users: users, store: store, now: time.Now, log: log}
}

type UploadInput struct {
	Title       string
	Category    string
	EmployeeID  string
	FileName    string
	ContentType string
	Size        int64
	File        io.Reader
}

// storageKey is unique per upload and grouped by organization.
func storageKey(t repository.Tenant, fileName string) string {
	base := strings.TrimSuffix(path.Base(fileName), path.Ext(fileName))
	return strings.ToLower(t.Code()) + "/" + uuid.NewString() + "-" + base
}

func (s *DocumentService) UploadDocument(ctx context.Context, t repository.Tenant, in UploadInput, actor Actor) (*models.Document, error) {
	if in.File == nil || strings.TrimSpace(in.FileName) == "" {
		return nil, util.Validation("file is required")
	}
	category := strings.ToLower(strings.TrimSpace(in.Category))
	if category == "" {
		category = models.DocumentOther
	}
	if !models.ValidDocumentCategory(category) {
		return nil, util.Validation(util.INVALID_CATEGORY)
	}
	var employeeID *primitive.ObjectID
	if in.EmployeeID != "" {
		id, err := ParseID(in.EmployeeID)
		if err != nil {
			return nil, err
		}
		if _, err := s.users.FindByID(ctx, t, id); err != nil {
			return nil, storeError(err, util.EMPLOYEE_NOT_FOUND)
		}
		employeeID = &id
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		title = in.FileName
	}

	key := storageKey(t, in.FileName)
	url, err := s.store.Upload(ctx, key, in.File)
	if errors.Is(err, storage.ErrNotConfigured) {
		return nil, util.Validation(util.STORAGE_NOT_CONFIGURED)
	}
	if err != nil {
		s.log.WithError(err).WithField("key", key).Error("document upload failed")
		return nil, util.Internal("upload document", err)
	}

	doc := &models.Document{
		OrganizationCode: t.Code(),
		EmployeeID:       employeeID,
		Title:            title,
		Category:         category,
		FileName:         in.FileName,
		ContentType:      in.ContentType,
		Size:             in.Size,
		URL:              url,
		StorageKey:       key,
		UploadedBy:       actor.UserID,
		CreatedAt:        s.now(),
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		logFailure(s.log, err, logrus.Fields{"key": key})
		return nil, storeError(err, util.DOCUMENT_NOT_FOUND)
	}
	return doc, nil
}

func (s *DocumentService) ListDocuments(ctx context.Context, t repository.Tenant, employeeID *primitive.ObjectID) ([]models.Document, error) {
	docs, err := s.docs.List(ctx, t, employeeID)
	if err != nil {
		return nil, storeError(err, util.DOCUMENT_NOT_FOUND)
	}
	return docs, nil
}

func (s *DocumentService) GetDocument(ctx context.Context, t repository.Tenant, id primitive.ObjectID) (*models.Document, error) {
	doc, err := s.docs.FindByID(ctx, t, id)
	if err != nil {
		return nil, storeError(err, util.DOCUMENT_NOT_FOUND)
	}
	return doc, nil
}

// DeleteDocument removes the stored object first; a storage failure is logged and the metadata still goes.
func (s *DocumentService) DeleteDocument(ctx context.Context, t repository.Tenant, id primitive.ObjectID) error {
	doc, err := s.docs.FindByID(ctx, t, id)
	if err != nil {
		return storeError(err, util.DOCUMENT_NOT_FOUND)
	}
	if err := s.store.Delete(ctx, doc.StorageKey); err != nil {
		s.log.WithError(err).WithField("key", doc.StorageKey).Warn("stored object not deleted")
	}
	if err := s.docs.Delete(ctx, t, id); err != nil {
		return storeError(err, util.DOCUMENT_NOT_FOUND)
	}
	return nil
}
