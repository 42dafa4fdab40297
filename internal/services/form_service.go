package services

import (
	"context"
	"fmt"

	"church_directory_admin/internal/models"
	"church_directory_admin/pkg/utils"
)

// Draft field names accepted by SetField. These match the wire names of the
// member payload.
const (
	FieldFullName = "fullName"
	FieldEmail    = "email"
	FieldPhone    = "phone"
	FieldMinistry = "ministry"
)

// FormService is the record form controller: one draft payload and an optional
// edit target. The form is either in create mode (no editing id) or edit mode.
type FormService interface {
	// SetField updates exactly one draft field, leaving the rest and the edit
	// target untouched. Unknown field names are rejected.
	SetField(name, value string) error

	// BeginEdit copies the member's four fields into the draft and marks that
	// member as the edit target.
	BeginEdit(member models.Member)

	// CancelEdit clears the edit target and resets every draft field.
	CancelEdit()

	// Submit validates the draft, then creates a new member or updates the edit
	// target. On success the directory is reloaded and the form resets to
	// create mode; on failure the draft and edit target are kept for retry.
	Submit(ctx context.Context) error

	Draft() models.MemberPayload
	EditingID() (int64, bool)
}

func (s *DirectorySession) SetField(name, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch name {
	case FieldFullName:
		s.draft.FullName = value
	case FieldEmail:
		s.draft.Email = value
	case FieldPhone:
		s.draft.Phone = value
	case FieldMinistry:
		s.draft.Ministry = value
	default:
		return fmt.Errorf("%w: unknown form field %q", ErrMemberValidation, name)
	}
	return nil
}

func (s *DirectorySession) BeginEdit(member models.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := member.ID
	s.editingID = &id
	s.draft = models.MemberPayload{
		FullName: member.FullName,
		Email:    member.Email,
		Phone:    member.Phone,
		Ministry: member.Ministry,
	}
}

func (s *DirectorySession) CancelEdit() {
	s.mu.Lock()
	s.resetDraftLocked()
	s.mu.Unlock()
}

func (s *DirectorySession) Submit(ctx context.Context) error {
	s.mu.Lock()
	draft := s.draft
	editingID := s.editingID
	s.lastError = ""
	s.mu.Unlock()

	// Fail fast on validation before touching the network.
	if utils.IsEmpty(draft.FullName) || utils.IsEmpty(draft.Email) {
		err := fmt.Errorf("%w: full name and email are required", ErrMemberValidation)
		s.failAttempt("Full name and email are required.")
		return err
	}

	s.beginAttempt()

	var err error
	if editingID == nil {
		err = s.repo.CreateMember(ctx, draft)
	} else {
		err = s.repo.UpdateMember(ctx, *editingID, draft)
	}
	if err != nil {
		// Draft and edit target are left alone so the operator can retry
		// without retyping.
		s.failAttempt("Failed to save member: " + err.Error())
		return fmt.Errorf("saving member: %w", err)
	}

	if err := s.Load(ctx); err != nil {
		// The save itself succeeded; the stale list plus banner from Load is
		// the surfaced state. The form still resets.
		s.mu.Lock()
		s.resetDraftLocked()
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.resetDraftLocked()
	s.loading = false
	s.mu.Unlock()
	return nil
}

func (s *DirectorySession) Draft() models.MemberPayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.draft
}

// EditingID returns the edit target id, and whether the form is in edit mode.
func (s *DirectorySession) EditingID() (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editingID == nil {
		return 0, false
	}
	return *s.editingID, true
}

// resetDraftLocked returns the form to create mode with all-empty fields.
// Callers must hold s.mu.
func (s *DirectorySession) resetDraftLocked() {
	s.editingID = nil
	s.draft = models.MemberPayload{}
}
