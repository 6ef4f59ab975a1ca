package domain

import "time"

type ActivityType string

const (
	ActivityReviewCompleted ActivityType = "review_completed"
	ActivityProjectCreated  ActivityType = "project_created"
	ActivityCommentAdded    ActivityType = "comment_added"
	ActivitySettingsUpdated ActivityType = "settings_updated"
	ActivityReviewStarted   ActivityType = "review_started"

	MaxActivityDescriptionLength = 500
	MaxActivityTargetNameLength  = 255
)

var activityLabels = map[ActivityType]string{
	ActivityReviewCompleted: "Review completed",
	ActivityProjectCreated:  "Project created",
	ActivityCommentAdded:    "Comment added",
	ActivitySettingsUpdated: "Settings updated",
	ActivityReviewStarted:   "Review started",
}

func ActivityTypes() []ActivityType {
	return []ActivityType{
		ActivityReviewCompleted,
		ActivityProjectCreated,
		ActivityCommentAdded,
		ActivitySettingsUpdated,
		ActivityReviewStarted,
	}
}

func (t ActivityType) Valid() bool {
	_, ok := activityLabels[t]
	return ok
}

// Label is the human readable form shown on the dashboard feed.
func (t ActivityType) Label() string {
	if l, ok := activityLabels[t]; ok {
		return l
	}
	return string(t)
}

// Activity is immutable once written.
type Activity struct {
	ID          string       `gorm:"primaryKey;size:36" json:"id"`
	Type        ActivityType `gorm:"size:32;not null" json:"type"`
	Description string       `gorm:"size:500;not null" json:"description"`
	TargetName  string       `gorm:"size:255;not null" json:"targetName"`
	UserID      string       `gorm:"size:36;not null;index:idx_activities_user_created,priority:1" json:"userId"`
	CreatedAt   time.Time    `gorm:"index:idx_activities_user_created,priority:2,sort:desc" json:"createdAt"`
	UpdatedAt   time.Time    `json:"-"`
}
