package models

import "time"

// SharePermission controls what a share recipient may do with a workflow.
type SharePermission string

const (
	SharePermissionView SharePermission = "view"
	SharePermissionEdit SharePermission = "edit"
)

// IsValid reports whether the permission is one of the supported levels.
func (p SharePermission) IsValid() bool {
	return p == SharePermissionView || p == SharePermissionEdit
}

// WorkflowShare links a workflow to a recipient user. Listing a user's
// shared workflows resolves each share with a follow-up single-document
// read of the workflow itself.
type WorkflowShare struct {
	ID               string          `json:"id"`
	WorkflowID       string          `json:"workflowId"       validate:"required"`
	SharedByUserID   string          `json:"sharedByUserId"   validate:"required"`
	SharedWithUserID string          `json:"sharedWithUserId" validate:"required"`
	Permissions      SharePermission `json:"permissions"      validate:"required,oneof=view edit"`
	CreatedAt        *time.Time      `json:"createdAt,omitempty"`
}
