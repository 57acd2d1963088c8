// internal/app/features/users/types.go
package users

import (
	"github.com/dalemusser/edutrack/internal/app/features/shared/respond"
	"github.com/dalemusser/edutrack/internal/domain/models"
)

type superAdminInput struct {
	Name     string `json:"name" validate:"max=200"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"omitempty,oneof=SUPERADMIN"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type adminInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	Role        string `json:"role" validate:"omitempty,oneof=ADMIN"`
	InstituteID string `json:"institute_id" validate:"required,objectid"`
}

type adminPatch struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Email       *string `json:"email" validate:"omitempty,email"`
	Password    *string `json:"password" validate:"omitempty,min=6"`
	InstituteID *string `json:"institute_id" validate:"omitempty,objectid"`
}

type activityPointsInput struct {
	ActivityID string `json:"activity_id" validate:"required,objectid"`
	Point      int    `json:"point" validate:"min=0"`
}

type pointsInput struct {
	CategoryID string                `json:"category_id" validate:"required,objectid"`
	Activities []activityPointsInput `json:"activities" validate:"dive"`
}

type studentInput struct {
	Name        string        `json:"name" validate:"required,max=200"`
	Role        string        `json:"role" validate:"omitempty,oneof=STUDENT"`
	ParentID    string        `json:"parent_id" validate:"required"`
	BatchID     string        `json:"batch_id" validate:"required,objectid"`
	BranchID    string        `json:"branch_id" validate:"required,objectid"`
	InstituteID string        `json:"institute_id" validate:"required,objectid"`
	Points      []pointsInput `json:"points" validate:"dive"`
}

type studentPatch struct {
	Name        *string        `json:"name" validate:"omitempty,max=200"`
	ParentID    *string        `json:"parent_id" validate:"omitnil,min=1"`
	BatchID     *string        `json:"batch_id" validate:"omitempty,objectid"`
	BranchID    *string        `json:"branch_id" validate:"omitempty,objectid"`
	InstituteID *string        `json:"institute_id" validate:"omitempty,objectid"`
	Points      *[]pointsInput `json:"points" validate:"omitempty,dive"`
}

type parentInput struct {
	Name        string `json:"name" validate:"required,max=200"`
	Mobile      string `json:"mobile" validate:"required,mobile"`
	Role        string `json:"role" validate:"omitempty,oneof=PARENT"`
	InstituteID string `json:"institute_id" validate:"required,objectid"`
}

type parentPatch struct {
	Name        *string `json:"name" validate:"omitempty,max=200"`
	Mobile      *string `json:"mobile" validate:"omitempty,mobile"`
	InstituteID *string `json:"institute_id" validate:"omitempty,objectid"`
}

// tokenBody is returned by signup and login. User is omitted on login.
type tokenBody struct {
	Message string       `json:"message"`
	User    *models.User `json:"user,omitempty"`
	Token   string       `json:"token"`
}

type userBody struct {
	Message string      `json:"message"`
	User    models.User `json:"user"`
}

func toPoints(in []pointsInput) []models.CategoryPoints {
	out := make([]models.CategoryPoints, 0, len(in))
	for _, p := range in {
		cp := models.CategoryPoints{
			CategoryID: respond.MustID(p.CategoryID),
			Activities: make([]models.ActivityPoints, 0, len(p.Activities)),
		}
		for _, a := range p.Activities {
			cp.Activities = append(cp.Activities, models.ActivityPoints{
				ActivityID: respond.MustID(a.ActivityID),
				Point:      a.Point,
			})
		}
		out = append(out, cp)
	}
	return out
}

func strPtr(s string) *string { return &s }
