// internal/app/features/shared/respond/respond.go
//
// Package respond holds the JSON request/response plumbing shared by the
// feature handlers.
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dalemusser/edutrack/internal/app/system/apperr"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxBody bounds request payloads.
const maxBody = 1 << 20

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Message writes {"message": msg}.
func Message(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"message": msg})
}

// Decode reads a JSON payload into dst. Unknown fields are rejected.
func Decode(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("request body is required")
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return apperr.Validation("invalid payload", fmt.Sprintf("%s has the wrong type", typeErr.Field))
		}
		if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
			return apperr.Validation("invalid payload", fmt.Sprintf("%s is not allowed", strings.Trim(field, `"`)))
		}
		return apperr.Validation("malformed JSON body")
	}
	return nil
}

// ObjectID parses the named URL parameter as an ObjectID.
func ObjectID(r *http.Request, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation("invalid id", name+" must be a valid id")
	}
	return id, nil
}

// OptionalID converts a hex id from a payload. The field is expected to
// have passed the objectid validator already; nil or empty input is nil.
func OptionalID(hex *string) *primitive.ObjectID {
	if hex == nil || *hex == "" {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(*hex)
	if err != nil {
		return nil
	}
	return &id
}

// MustID is OptionalID for required fields.
func MustID(hex string) primitive.ObjectID {
	id, _ := primitive.ObjectIDFromHex(hex)
	return id
}

// StoreError classifies an error from an entity store. what names the
// entity for not-found messages; sentinels in conflicts become Conflict
// with their own text. Errors that are already classified pass through.
func StoreError(err error, what string, conflicts ...error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	if errors.Is(err, docstore.ErrNotFound) {
		return apperr.NotFound(what)
	}
	for _, c := range conflicts {
		if errors.Is(err, c) {
			return apperr.Conflict(c.Error())
		}
	}
	if errors.Is(err, docstore.ErrDuplicate) {
		return apperr.Conflict(what + " already exists")
	}
	return apperr.Unexpected(err)
}

// DeletedBody reports a delete and, for cascades, what went with it.
type DeletedBody struct {
	Message string           `json:"message"`
	Deleted map[string]int64 `json:"deleted,omitempty"`
}

// Deleted builds a DeletedBody.
func Deleted(msg string, counts map[string]int64) DeletedBody {
	return DeletedBody{Message: msg, Deleted: counts}
}

// InvalidQueryID reports a malformed id in a query parameter.
func InvalidQueryID(name string) error {
	return apperr.Validation("invalid query", name+" must be a valid id")
}
