package models

import "time"

// UserSettings holds per-user editor preferences.
type UserSettings struct {
	Theme                     string `json:"theme,omitempty"`
	Notifications             bool   `json:"notifications"`
	DefaultWorkflowVisibility string `json:"defaultWorkflowVisibility,omitempty"`
}

// DefaultUserSettings are assigned when a user document is first created.
func DefaultUserSettings() UserSettings {
	return UserSettings{
		Theme:                     "light",
		Notifications:             true,
		DefaultWorkflowVisibility: "private",
	}
}

// User is the identity document stamped onto saved workflows.
type User struct {
	ID          string        `json:"id"    validate:"required"`
	Email       string        `json:"email" validate:"required,email"`
	DisplayName string        `json:"displayName,omitempty"`
	WorkflowIDs []string      `json:"workflowIds"`
	Settings    *UserSettings `json:"settings,omitempty"`
	CreatedAt   *time.Time    `json:"createdAt,omitempty"`
	UpdatedAt   *time.Time    `json:"updatedAt,omitempty"`
}
