// internal/domain/models/collections.go
package models

// Collection names.
const (
	CollInstitutes = "institutes"
	CollBranches   = "branches"
	CollLevels     = "levels"
	CollBatches    = "batches"
	CollCategories = "categories"
	CollActivities = "activities"
	CollVideos     = "videos"
	CollUsers      = "users"
)
