package dto

import (
	"time"

	"planie.app/api/internal/model"
)

// Envelope wraps every successful response body.
type Envelope[T any] struct {
	Data T `json:"data"`
}

// CreateWorkspaceRequest is bound from a multipart or urlencoded form. The
// optional image file is read separately.
type CreateWorkspaceRequest struct {
	Name string `form:"name" json:"name" binding:"required,max=256"`
}

type JoinWorkspaceRequest struct {
	Code string `json:"code" binding:"required"`
}

type WorkspaceResponse struct {
	ID         int64     `json:"id,string"`
	Name       string    `json:"name"`
	ImageURL   *string   `json:"image_url"`
	UserID     string    `json:"user_id"`
	InviteCode string    `json:"invite_code"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type WorkspaceListResponse struct {
	Documents []WorkspaceResponse `json:"documents"`
	Total     int                 `json:"total"`
}

type DeleteWorkspaceResponse struct {
	ID int64 `json:"id,string"`
}

func ToWorkspaceResponse(ws *model.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		ID:         ws.ID,
		Name:       ws.Name,
		ImageURL:   ws.ImageURL,
		UserID:     ws.UserID,
		InviteCode: ws.InviteCode,
		CreatedAt:  ws.CreatedAt,
		UpdatedAt:  ws.UpdatedAt,
	}
}

func ToWorkspaceListResponse(workspaces []model.Workspace) WorkspaceListResponse {
	docs := make([]WorkspaceResponse, len(workspaces))
	for i := range workspaces {
		docs[i] = ToWorkspaceResponse(&workspaces[i])
	}
	return WorkspaceListResponse{Documents: docs, Total: len(docs)}
}
