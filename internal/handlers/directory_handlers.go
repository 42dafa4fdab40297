package handlers

import (
	"errors"
	"net/http"

	"church_directory_admin/internal/repositories"
	"church_directory_admin/internal/services"
	"church_directory_admin/pkg/utils"

	"github.com/gin-gonic/gin"
)

// DirectoryHandler holds the directory and form services.
type DirectoryHandler struct {
	directory services.DirectoryService
	form      services.FormService
}

// NewDirectoryHandler creates a new DirectoryHandler.
func NewDirectoryHandler(directory services.DirectoryService, form services.FormService) *DirectoryHandler {
	return &DirectoryHandler{directory: directory, form: form}
}

// setFieldRequest is the body for updating a single draft field.
type setFieldRequest struct {
	Field string `json:"field" binding:"required"`
	Value string `json:"value"`
}

// respondUpstreamError maps repository and service errors to API errors.
func respondUpstreamError(c *gin.Context, err error, message string) {
	switch {
	case errors.Is(err, services.ErrMemberNotFound), errors.Is(err, repositories.ErrNotFound):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Member not found.", err.Error()))
	case errors.Is(err, services.ErrMemberValidation):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
	case errors.Is(err, repositories.ErrUnavailable), errors.Is(err, repositories.ErrUpstream):
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadGateway, utils.ErrCodeUpstreamError, message, err.Error()))
	default:
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, message, "Internal error"))
	}
}

// snapshot builds the JSON view of the directory for the given query.
func (h *DirectoryHandler) snapshot(query string) gin.H {
	members := h.directory.Filtered(query)
	return gin.H{
		"data":    members,
		"total":   len(members),
		"loading": h.directory.Loading(),
		"error":   h.directory.LastError(),
	}
}

// GetMembers handles fetching the cached directory filtered by ?q=.
func (h *DirectoryHandler) GetMembers(c *gin.Context) {
	if !h.directory.Loaded() {
		if err := h.directory.Load(c.Request.Context()); err != nil {
			utils.LogError(err, "GetMembers: initial directory load failed")
		}
	}
	c.JSON(http.StatusOK, h.snapshot(c.Query("q")))
}

// ReloadMembers handles an explicit refresh of the directory snapshot.
func (h *DirectoryHandler) ReloadMembers(c *gin.Context) {
	if err := h.directory.Load(c.Request.Context()); err != nil {
		utils.LogError(err, "ReloadMembers: Error from directory.Load")
		respondUpstreamError(c, err, "Failed to load members.")
		return
	}
	c.JSON(http.StatusOK, h.snapshot(c.Query("q")))
}

// DeleteMember handles deleting a member and pruning it from the cache.
func (h *DirectoryHandler) DeleteMember(c *gin.Context) {
	idStr := c.Param("id")
	memberID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid member ID format.", err.Error()))
		return
	}

	if err := h.directory.Remove(c.Request.Context(), memberID); err != nil {
		utils.LogError(err, "DeleteMember: Error from directory.Remove for ID "+idStr)
		respondUpstreamError(c, err, "Failed to delete member.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Member deleted successfully"})
}

// GetForm handles fetching the current draft and edit state.
func (h *DirectoryHandler) GetForm(c *gin.Context) {
	response := gin.H{"draft": h.form.Draft(), "editingId": nil}
	if id, editing := h.form.EditingID(); editing {
		response["editingId"] = id
	}
	c.JSON(http.StatusOK, response)
}

// SetFormField handles updating a single draft field.
func (h *DirectoryHandler) SetFormField(c *gin.Context) {
	var req setFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
		return
	}

	if err := h.form.SetField(req.Field, req.Value); err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": h.form.Draft()})
}

// EditMember handles moving the form into edit mode for a cached member.
func (h *DirectoryHandler) EditMember(c *gin.Context) {
	idStr := c.Param("id")
	memberID, err := utils.StrToInt64(idStr)
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid member ID format.", err.Error()))
		return
	}

	member, ok := h.directory.Member(memberID)
	if !ok {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Member not found.", "no cached member with id "+idStr))
		return
	}

	h.form.BeginEdit(member)
	c.JSON(http.StatusOK, gin.H{"draft": h.form.Draft(), "editingId": member.ID})
}

// CancelForm handles returning the form to create mode with an empty draft.
func (h *DirectoryHandler) CancelForm(c *gin.Context) {
	h.form.CancelEdit()
	c.JSON(http.StatusOK, gin.H{"draft": h.form.Draft(), "editingId": nil})
}

// SubmitForm handles submitting the draft: create when no edit target is set,
// full-payload update when one is. An optional body replaces the draft fields
// before submission, for clients that do not drive SetFormField per keystroke.
func (h *DirectoryHandler) SubmitForm(c *gin.Context) {
	if c.Request.ContentLength > 0 {
		var fields map[string]string
		if err := c.ShouldBindJSON(&fields); err != nil {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid request payload: "+err.Error(), err.Error()))
			return
		}
		for name, value := range fields {
			if err := h.form.SetField(name, value); err != nil {
				utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Validation failed: "+err.Error(), err.Error()))
				return
			}
		}
	}

	if err := h.form.Submit(c.Request.Context()); err != nil {
		utils.LogError(err, "SubmitForm: Error from form.Submit")
		respondUpstreamError(c, err, "Failed to save member.")
		return
	}
	c.JSON(http.StatusOK, h.snapshot(c.Query("q")))
}
