package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"church_directory_admin/internal/models"
	"church_directory_admin/internal/repositories"
)

// --- Custom Service Errors for the Directory ---
var (
	ErrMemberNotFound   = errors.New("member not found in the directory")
	ErrMemberValidation = errors.New("member data validation error")
)

// DirectoryService is the session cache of the remote member collection.
type DirectoryService interface {
	// Load replaces the cached list with a fresh snapshot of the remote
	// collection. On failure the previous list is kept and the error is
	// recorded for the banner.
	Load(ctx context.Context) error

	// Remove deletes the member remotely and, on success only, prunes it from
	// the cached list without a re-fetch.
	Remove(ctx context.Context, id int64) error

	// Filtered returns the members whose fullName, email, phone or ministry
	// case-insensitively contains the query. A blank query matches everything.
	Filtered(query string) []models.Member

	Member(id int64) (models.Member, bool)
	Members() []models.Member
	Loaded() bool
	Loading() bool
	LastError() string
}

// DirectorySession is the single owned state container behind one admin page:
// the cached member list, the loading flag, the error banner, and the form
// draft (see form_service.go). It implements DirectoryService and FormService.
// Access is serialized with a mutex, but overlapping mutations are not
// sequenced beyond that: the last applied mutation wins.
type DirectorySession struct {
	repo repositories.MemberRepository

	mu        sync.Mutex
	members   []models.Member
	loaded    bool
	loading   bool
	lastError string

	draft     models.MemberPayload
	editingID *int64
}

// NewDirectorySession creates the state container for one admin session.
// The initial state is an empty directory and a form in create mode.
func NewDirectorySession(repo repositories.MemberRepository) *DirectorySession {
	return &DirectorySession{repo: repo}
}

// beginAttempt marks a remote operation as started: the loading flag goes up
// and any banner from a previous operation is cleared.
func (s *DirectorySession) beginAttempt() {
	s.mu.Lock()
	s.loading = true
	s.lastError = ""
	s.mu.Unlock()
}

// failAttempt records the banner message for a failed operation.
func (s *DirectorySession) failAttempt(msg string) {
	s.mu.Lock()
	s.loading = false
	s.lastError = msg
	s.mu.Unlock()
}

func (s *DirectorySession) Load(ctx context.Context) error {
	s.beginAttempt()

	members, err := s.repo.ListMembers(ctx)
	if err != nil {
		s.failAttempt("Failed to load members: " + err.Error())
		return fmt.Errorf("loading member directory: %w", err)
	}

	sortMembers(members)

	s.mu.Lock()
	s.members = members
	s.loaded = true
	s.loading = false
	s.mu.Unlock()
	return nil
}

func (s *DirectorySession) Remove(ctx context.Context, id int64) error {
	s.beginAttempt()

	if err := s.repo.DeleteMember(ctx, id); err != nil {
		s.failAttempt("Failed to delete member: " + err.Error())
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("deleting member %d: %w", id, err)
	}

	s.mu.Lock()
	kept := s.members[:0]
	for _, m := range s.members {
		if m.ID != id {
			kept = append(kept, m)
		}
	}
	s.members = kept
	s.loading = false
	s.mu.Unlock()
	return nil
}

func (s *DirectorySession) Filtered(query string) []models.Member {
	q := strings.ToLower(strings.TrimSpace(query))

	s.mu.Lock()
	defer s.mu.Unlock()

	matched := make([]models.Member, 0, len(s.members))
	for _, m := range s.members {
		if q == "" || memberMatches(m, q) {
			matched = append(matched, m)
		}
	}
	return matched
}

// Member looks up a cached member by id.
func (s *DirectorySession) Member(id int64) (models.Member, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.ID == id {
			return m, true
		}
	}
	return models.Member{}, false
}

// Members returns a copy of the cached snapshot.
func (s *DirectorySession) Members() []models.Member {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Member, len(s.members))
	copy(out, s.members)
	return out
}

// Loaded reports whether at least one load has succeeded this session.
func (s *DirectorySession) Loaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loaded
}

func (s *DirectorySession) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// LastError returns the current banner message, empty when the last operation
// succeeded.
func (s *DirectorySession) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastError
}

// memberMatches reports whether any of the member's four text fields contains
// the already-lowercased query.
func memberMatches(m models.Member, q string) bool {
	for _, field := range []string{m.FullName, m.Email, m.Phone, m.Ministry} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// sortMembers orders a snapshot by fullName (case-insensitive), then id, so
// repeated loads present the directory stably.
func sortMembers(members []models.Member) {
	sort.Slice(members, func(i, j int) bool {
		a := strings.ToLower(members[i].FullName)
		b := strings.ToLower(members[j].FullName)
		if a != b {
			return a < b
		}
		return members[i].ID < members[j].ID
	})
}
