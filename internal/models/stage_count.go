package models

import "time"

// StageCount is a persisted counter of waterfall outcomes per stage.
type StageCount struct {
	Stage      Stage
	Count      int64
	LastSeenAt time.Time
}
