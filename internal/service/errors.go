package service

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/college-admin-api/internal/models"
	appErrors "github.com/noah-isme/college-admin-api/pkg/errors"
)

func internalError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

// storeError maps a repository error: missing documents become notFound,
// typed application errors pass through, anything else is internal.
func storeError(err error, notFound, message string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	var appErr *appErrors.Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return internalError(err, message)
}

// objectID parses a hex id. Malformed ids are reported as not found.
func objectID(raw, notFound string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return id, nil
}

// checkVersion rejects a write based on a stale read.
func checkVersion(expected *int64, actual int64) error {
	if expected != nil && *expected != actual {
		return appErrors.ErrStaleWrite
	}
	return nil
}

func transitionError(err error) error {
	var te *models.TransitionError
	if errors.As(err, &te) {
		return appErrors.Wrap(err, appErrors.ErrInvalidTransition.Code, appErrors.ErrInvalidTransition.Status, te.Error())
	}
	return err
}

func validationError(err error, message string) error {
	return appErrors.Validation(err, message)
}

// isMissing reports whether err means the referenced document is gone.
func isMissing(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments) || errors.Is(err, appErrors.ErrNotFound)
}
