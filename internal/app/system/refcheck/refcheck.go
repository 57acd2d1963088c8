// internal/app/system/refcheck/refcheck.go
//
// Package refcheck verifies, before a write, that every reference field on
// the payload points to an existing document of the right kind.
package refcheck

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/dalemusser/edutrack/internal/app/system/apperr"
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ref is one reference to check.
type Ref struct {
	Field string          // payload field, used in messages
	Coll  string          // target collection
	Key   any             // nil and nil pointers are skipped
	Where docstore.Filter // extra constraints on the target
}

// To builds a Ref from field to key in coll.
func To(field, coll string, key any) Ref {
	return Ref{Field: field, Coll: coll, Key: key}
}

// ToParent builds a Ref to a user holding the PARENT role.
func ToParent(field string, key any) Ref {
	return Ref{Field: field, Coll: models.CollUsers, Key: key, Where: docstore.Filter{"role": models.RoleParent}}
}

// Checker resolves Refs against a store.
type Checker struct {
	ds docstore.Store
}

// New returns a Checker over ds.
func New(ds docstore.Store) *Checker {
	return &Checker{ds: ds}
}

// Check resolves every ref and returns a ReferenceNotFound error listing
// each one that does not resolve. Store failures are returned unwrapped.
func (c *Checker) Check(ctx context.Context, refs ...Ref) error {
	var missing []string
	for _, r := range refs {
		key, ok := deref(r.Key)
		if !ok {
			continue
		}
		f := docstore.Filter{"_id": key}
		for k, v := range r.Where {
			f[k] = v
		}
		n, err := c.ds.Count(ctx, r.Coll, f)
		if err != nil {
			return fmt.Errorf("check %s: %w", r.Field, err)
		}
		if n == 0 {
			missing = append(missing, fmt.Sprintf("%s: no %s with id %s", r.Field, describe(r), keyText(key)))
		}
	}
	if len(missing) > 0 {
		return apperr.ReferenceNotFound(missing...)
	}
	return nil
}

func deref(key any) (any, bool) {
	if key == nil {
		return nil, false
	}
	v := reflect.ValueOf(key)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false
		}
		return v.Elem().Interface(), true
	}
	if s, ok := key.(string); ok && s == "" {
		return nil, false
	}
	return key, true
}

// keyText renders a key the way clients sent it.
func keyText(key any) string {
	switch k := key.(type) {
	case primitive.ObjectID:
		return k.Hex()
	case string:
		return k
	}
	return fmt.Sprint(key)
}

func describe(r Ref) string {
	if role, ok := r.Where["role"].(string); ok {
		return strings.ToLower(role)
	}
	return singular(r.Coll)
}

func singular(coll string) string {
	switch coll {
	case models.CollBranches:
		return "branch"
	case models.CollBatches:
		return "batch"
	case models.CollCategories:
		return "category"
	case models.CollActivities:
		return "activity"
	}
	return strings.TrimSuffix(coll, "s")
}

// Privileges expands an institute's activity privileges into Refs for every
// level, category, and activity they name.
func Privileges(ps []models.Privilege) []Ref {
	var refs []Ref
	for i, p := range ps {
		refs = append(refs, To(fmt.Sprintf("activity_privileges[%d].level_id", i), models.CollLevels, p.LevelID))
		for j, cp := range p.Categories {
			base := fmt.Sprintf("activity_privileges[%d].categories[%d]", i, j)
			refs = append(refs, To(base+".category_id", models.CollCategories, cp.CategoryID))
			for k, a := range cp.ActivityIDs {
				refs = append(refs, To(fmt.Sprintf("%s.activity_ids[%d]", base, k), models.CollActivities, a))
			}
		}
	}
	return refs
}

// Points expands a student's points into Refs for every category and
// activity they name.
func Points(ps []models.CategoryPoints) []Ref {
	var refs []Ref
	for i, cp := range ps {
		refs = append(refs, To(fmt.Sprintf("points[%d].category_id", i), models.CollCategories, cp.CategoryID))
		for j, a := range cp.Activities {
			refs = append(refs, To(fmt.Sprintf("points[%d].activities[%d].activity_id", i, j), models.CollActivities, a.ActivityID))
		}
	}
	return refs
}
