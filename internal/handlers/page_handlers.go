package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"

	"church_directory_admin/internal/services"
	"church_directory_admin/pkg/utils"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// PageHandler serves the server-rendered admin page over the same directory
// and form services the JSON API uses.
type PageHandler struct {
	directory services.DirectoryService
	form      services.FormService
}

// NewPageHandler creates a new PageHandler.
func NewPageHandler(directory services.DirectoryService, form services.FormService) *PageHandler {
	return &PageHandler{directory: directory, form: form}
}

// RegisterTemplates installs the embedded page templates on the engine.
func RegisterTemplates(engine *gin.Engine) {
	engine.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))
}

// GetIndex renders the directory page: filtered member table, the create/edit
// form, and the error banner. The first visit of a session triggers a load.
func (h *PageHandler) GetIndex(c *gin.Context) {
	if !h.directory.Loaded() {
		if err := h.directory.Load(c.Request.Context()); err != nil {
			utils.LogError(err, "GetIndex: initial directory load failed")
		}
	}

	query := c.Query("q")
	_, editing := h.form.EditingID()

	c.HTML(http.StatusOK, "index", gin.H{
		"Members": h.directory.Filtered(query),
		"Query":   query,
		"Draft":   h.form.Draft(),
		"Editing": editing,
		"Error":   h.directory.LastError(),
		"Loading": h.directory.Loading(),
	})
}

// PostSave handles the HTML form submission for both create and update.
func (h *PageHandler) PostSave(c *gin.Context) {
	for _, name := range []string{services.FieldFullName, services.FieldEmail, services.FieldPhone, services.FieldMinistry} {
		if err := h.form.SetField(name, c.PostForm(name)); err != nil {
			utils.LogError(err, "PostSave: rejected form field")
		}
	}

	if err := h.form.Submit(c.Request.Context()); err != nil {
		// The banner carries the failure; the draft is preserved for retry.
		utils.LogError(err, "PostSave: Error from form.Submit")
	}
	h.redirectToIndex(c)
}

// GetEdit moves the form into edit mode for the given member and returns to
// the page, which renders the pre-filled form.
func (h *PageHandler) GetEdit(c *gin.Context) {
	memberID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		h.redirectToIndex(c)
		return
	}

	if member, ok := h.directory.Member(memberID); ok {
		h.form.BeginEdit(member)
	}
	h.redirectToIndex(c)
}

// PostCancel returns the form to create mode.
func (h *PageHandler) PostCancel(c *gin.Context) {
	h.form.CancelEdit()
	h.redirectToIndex(c)
}

// PostDelete removes a member. The browser's confirm dialog has already run by
// the time this request arrives.
func (h *PageHandler) PostDelete(c *gin.Context) {
	memberID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		h.redirectToIndex(c)
		return
	}

	if err := h.directory.Remove(c.Request.Context(), memberID); err != nil {
		utils.LogError(err, "PostDelete: Error from directory.Remove")
	}
	h.redirectToIndex(c)
}

// redirectToIndex sends the browser back to the page, preserving the search
// query so the filter survives the round trip.
func (h *PageHandler) redirectToIndex(c *gin.Context) {
	target := "/"
	if q := c.Query("q"); q != "" {
		target = "/?q=" + url.QueryEscape(q)
	}
	c.Redirect(http.StatusSeeOther, target)
}
