package model

import "time"

type EventType string

const (
	EventTypeWorkspaceCreated         EventType = "workspace.created"
	EventTypeWorkspaceUpdated         EventType = "workspace.updated"
	EventTypeWorkspaceDeleted         EventType = "workspace.deleted"
	EventTypeWorkspaceInviteCodeReset EventType = "workspace.invite_code_reset"
	EventTypeMemberJoined             EventType = "workspace.member_joined"
)

// WorkspaceEvent describes a committed workspace mutation.
type WorkspaceEvent struct {
	OccurredAt  time.Time `json:"occurred_at"`
	Type        EventType `json:"type"`
	ActorID     string    `json:"actor_id"`
	WorkspaceID int64     `json:"workspace_id,string"`
}
