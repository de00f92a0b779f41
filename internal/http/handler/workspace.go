package handler

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"planie.app/api/common/id"
	"planie.app/api/internal/http/dto"
	"planie.app/api/internal/http/middleware"
	"planie.app/api/internal/service"
)

type WorkspaceHandler struct {
	workspaces    service.WorkspaceService
	join          service.JoinService
	imageMaxBytes int64
}

func NewWorkspaceHandler(workspaces service.WorkspaceService, join service.JoinService, imageMaxBytes int64) *WorkspaceHandler {
	return &WorkspaceHandler{
		workspaces:    workspaces,
		join:          join,
		imageMaxBytes: imageMaxBytes,
	}
}

var errImageTooLarge = errors.New("image exceeds size limit")

// List never fails: lookup errors degrade to an empty list.
func (h *WorkspaceHandler) List(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	workspaces := h.workspaces.ListForUser(c.Request.Context(), userID)
	c.JSON(http.StatusOK, dto.Envelope[dto.WorkspaceListResponse]{Data: dto.ToWorkspaceListResponse(workspaces)})
}

func (h *WorkspaceHandler) Get(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	workspaceID, ok := workspaceIDParam(c)
	if !ok {
		return
	}

	ws, err := h.workspaces.Get(c.Request.Context(), userID, workspaceID)
	if err != nil {
		writeWorkspaceError(c, err, "get")
		return
	}

	c.JSON(http.StatusOK, dto.Envelope[dto.WorkspaceResponse]{Data: dto.ToWorkspaceResponse(ws)})
}

func (h *WorkspaceHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := h.userID(c)
	if !ok {
		return
	}

	var req dto.CreateWorkspaceRequest
	if err := c.ShouldBind(&req); err != nil {
		slog.WarnContext(ctx, "invalid create workspace request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required and must be at most 256 characters", "code": "validation_error"})
		return
	}

	image, err := h.readImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation_error"})
		return
	}

	ws, err := h.workspaces.Create(ctx, userID, service.CreateWorkspaceInput{
		Name:           req.Name,
		Image:          image,
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		writeWorkspaceError(c, err, "create")
		return
	}

	c.JSON(http.StatusOK, dto.Envelope[dto.WorkspaceResponse]{Data: dto.ToWorkspaceResponse(ws)})
}

// Update applies a partial update. An absent name keeps the current one; an
// image file replaces the image, a non-empty image string is stored as the
// URL, and no image at all clears it.
func (h *WorkspaceHandler) Update(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	workspaceID, ok := workspaceIDParam(c)
	if !ok {
		return
	}

	var in service.UpdateWorkspaceInput
	if name, present := c.GetPostForm("name"); present {
		in.Name = &name
	}

	image, err := h.readImage(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation_error"})
		return
	}
	if image != nil {
		in.Image = image
	} else if url := c.PostForm("image"); url != "" {
		in.ImageURL = &url
	}

	ws, err := h.workspaces.Update(c.Request.Context(), userID, workspaceID, in)
	if err != nil {
		writeWorkspaceError(c, err, "update")
		return
	}

	c.JSON(http.StatusOK, dto.Envelope[dto.WorkspaceResponse]{Data: dto.ToWorkspaceResponse(ws)})
}

func (h *WorkspaceHandler) Delete(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	workspaceID, ok := workspaceIDParam(c)
	if !ok {
		return
	}

	deletedID, err := h.workspaces.Delete(c.Request.Context(), userID, workspaceID)
	if err != nil {
		writeWorkspaceError(c, err, "delete")
		return
	}

	c.JSON(http.StatusOK, dto.Envelope[dto.DeleteWorkspaceResponse]{Data: dto.DeleteWorkspaceResponse{ID: deletedID}})
}

func (h *WorkspaceHandler) ResetInviteCode(c *gin.Context) {
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	workspaceID, ok := workspaceIDParam(c)
	if !ok {
		return
	}

	ws, err := h.workspaces.ResetInviteCode(c.Request.Context(), userID, workspaceID)
	if err != nil {
		writeWorkspaceError(c, err, "reset invite code for")
		return
	}

	c.JSON(http.StatusOK, dto.Envelope[dto.WorkspaceResponse]{Data: dto.ToWorkspaceResponse(ws)})
}

func (h *WorkspaceHandler) Join(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := h.userID(c)
	if !ok {
		return
	}
	workspaceID, ok := workspaceIDParam(c)
	if !ok {
		return
	}

	var req dto.JoinWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.WarnContext(ctx, "invalid join request", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "code is required", "code": "validation_error"})
		return
	}

	ws, err := h.join.Join(ctx, userID, workspaceID, req.Code)
	if err != nil {
		writeWorkspaceError(c, err, "join")
		return
	}

	c.JSON(http.StatusOK, dto.Envelope[dto.WorkspaceResponse]{Data: dto.ToWorkspaceResponse(ws)})
}

func (h *WorkspaceHandler) userID(c *gin.Context) (string, bool) {
	identity, ok := middleware.GetIdentity(c)
	if !ok || identity.UserID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "code": "unauthenticated"})
		return "", false
	}
	return identity.UserID, true
}

// readImage returns the uploaded "image" file, or nil when the form carries none.
func (h *WorkspaceHandler) readImage(c *gin.Context) (*service.ImageUpload, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if h.imageMaxBytes > 0 && fh.Size > h.imageMaxBytes {
		return nil, errImageTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return &service.ImageUpload{Data: data}, nil
}

func workspaceIDParam(c *gin.Context) (int64, bool) {
	workspaceID, err := id.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid workspace id", "code": "validation_error"})
		return 0, false
	}
	return workspaceID, true
}

func writeWorkspaceError(c *gin.Context, err error, verb string) {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized", "code": "unauthorized"})
	case errors.Is(err, service.ErrWorkspaceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "workspace not found", "code": "not_found"})
	case errors.Is(err, service.ErrAlreadyMember):
		c.JSON(http.StatusBadRequest, gin.H{"error": "already a member of this workspace", "code": "already_member"})
	case errors.Is(err, service.ErrInvalidInviteCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid invite code", "code": "invalid_invite_code"})
	case errors.Is(err, service.ErrInvalidName), errors.Is(err, service.ErrInvalidImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "code": "validation_error"})
	case errors.Is(err, service.ErrCreateInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "a create with this idempotency key is in progress", "code": "create_in_progress"})
	default:
		slog.ErrorContext(c.Request.Context(), "workspace request failed", "error", err, "operation", verb)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to " + verb + " workspace", "code": "internal_error"})
	}
}
