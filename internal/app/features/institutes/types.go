// internal/app/features/institutes/types.go
package institutes

import (
	"time"

	"github.com/dalemusser/edutrack/internal/app/features/shared/respond"
	"github.com/dalemusser/edutrack/internal/domain/models"
)

type categoryPrivilegeInput struct {
	CategoryID  string   `json:"category_id" validate:"required,objectid"`
	ActivityIDs []string `json:"activity_ids" validate:"omitempty,dive,objectid"`
}

type privilegeInput struct {
	LevelID    string                   `json:"level_id" validate:"required,objectid"`
	Categories []categoryPrivilegeInput `json:"categories" validate:"omitempty,dive"`
}

type createInput struct {
	Name               string           `json:"name" validate:"required,max=200"`
	SubscriptionType   string           `json:"subscription_type" validate:"required,oneof=FREE PAID"`
	SubscriptionExpiry *time.Time       `json:"subscription_expiry" validate:"required_if=SubscriptionType PAID"`
	ActivityPrivileges []privilegeInput `json:"activity_privileges" validate:"omitempty,dive"`
}

type updateInput struct {
	Name               *string           `json:"name" validate:"omitempty,min=1,max=200"`
	SubscriptionType   *string           `json:"subscription_type" validate:"omitempty,oneof=FREE PAID"`
	SubscriptionExpiry *time.Time        `json:"subscription_expiry"`
	ActivityPrivileges *[]privilegeInput `json:"activity_privileges" validate:"omitempty,dive"`
}

func toPrivileges(in []privilegeInput) []models.Privilege {
	if in == nil {
		return nil
	}
	out := make([]models.Privilege, 0, len(in))
	for _, p := range in {
		mp := models.Privilege{LevelID: respond.MustID(p.LevelID)}
		for _, c := range p.Categories {
			cp := models.CategoryPrivilege{CategoryID: respond.MustID(c.CategoryID)}
			for _, a := range c.ActivityIDs {
				cp.ActivityIDs = append(cp.ActivityIDs, respond.MustID(a))
			}
			mp.Categories = append(mp.Categories, cp)
		}
		out = append(out, mp)
	}
	return out
}
