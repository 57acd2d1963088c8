// internal/app/system/cascade/rules.go
package cascade

import (
	"github.com/dalemusser/edutrack/internal/app/system/docstore"
	"github.com/dalemusser/edutrack/internal/domain/models"
)

// RootKind names an entity type that can be the root of a cascade.
type RootKind string

const (
	Institute RootKind = "institute"
	Level     RootKind = "level"
	Branch    RootKind = "branch"
	Batch     RootKind = "batch"
	Category  RootKind = "category"
	Parent    RootKind = "parent"
)

// rule selects dependents in coll whose field holds one of the keys found
// one level up, then applies its own children to those dependents.
type rule struct {
	coll     string
	field    string
	children []rule
}

// tree is the cascade for one root kind.
type tree struct {
	coll  string
	where docstore.Filter // extra constraints on the root document
	rules []rule
}

func dep(coll, field string, children ...rule) rule {
	return rule{coll: coll, field: field, children: children}
}

// Rules are written against the foreign-key fields as they are stored.
// Users of a branch are found both through the branch's batches and
// through their own branch_id, so a student whose batch belongs to another
// branch still leaves with their branch.
var trees = map[RootKind]tree{
	Institute: {
		coll: models.CollInstitutes,
		rules: []rule{
			dep(models.CollBranches, "institute_id",
				dep(models.CollBatches, "branch_id",
					dep(models.CollUsers, "batch_id"),
				),
				dep(models.CollUsers, "branch_id"),
			),
			dep(models.CollBatches, "institute_id",
				dep(models.CollUsers, "batch_id"),
			),
			dep(models.CollUsers, "institute_id",
				dep(models.CollUsers, "parent_id"),
			),
		},
	},
	Level: {
		coll: models.CollLevels,
		rules: []rule{
			dep(models.CollCategories, "level_id",
				dep(models.CollActivities, "category_id"),
				dep(models.CollVideos, "category_id"),
			),
			dep(models.CollBatches, "level_id"),
		},
	},
	Branch: {
		coll: models.CollBranches,
		rules: []rule{
			dep(models.CollBatches, "branch_id",
				dep(models.CollUsers, "batch_id"),
			),
			dep(models.CollUsers, "branch_id"),
		},
	},
	Batch: {
		coll: models.CollBatches,
		rules: []rule{
			dep(models.CollUsers, "batch_id"),
		},
	},
	Category: {
		coll: models.CollCategories,
		rules: []rule{
			dep(models.CollActivities, "category_id"),
			dep(models.CollVideos, "category_id"),
		},
	},
	Parent: {
		coll:  models.CollUsers,
		where: docstore.Filter{"role": models.RoleParent},
		rules: []rule{
			dep(models.CollUsers, "parent_id"),
		},
	},
}

// Collection returns the collection that holds roots of kind k.
func (k RootKind) Collection() string { return trees[k].coll }

// Valid reports whether k has a cascade.
func (k RootKind) Valid() bool {
	_, ok := trees[k]
	return ok
}
