package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"church_directory_admin/internal/models"
)

// MemberRepository defines the interface for member data access against the
// remote member service.
type MemberRepository interface {
	ListMembers(ctx context.Context) ([]models.Member, error)
	CreateMember(ctx context.Context, payload models.MemberPayload) error
	UpdateMember(ctx context.Context, id int64, payload models.MemberPayload) error
	DeleteMember(ctx context.Context, id int64) error
}

type memberRepository struct {
	baseURL string
	client  HTTPDoer
}

// NewMemberRepository creates a new instance of MemberRepository addressing the
// member collection at {baseURL}/api/members.
func NewMemberRepository(baseURL string, client HTTPDoer) MemberRepository {
	return &memberRepository{baseURL: baseURL, client: client}
}

func (r *memberRepository) collectionURL() string {
	return r.baseURL + "/api/members"
}

func (r *memberRepository) memberURL(id int64) string {
	return fmt.Sprintf("%s/api/members/%d", r.baseURL, id)
}

// do issues the request and normalizes failures: transport errors wrap
// ErrUnavailable, non-2xx statuses wrap ErrUpstream (404 wraps ErrNotFound).
// The response body is returned for the caller to decode and close.
func (r *memberRepository) do(ctx context.Context, method, url string, body any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", ErrUnavailable, method, url, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		if resp.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %s %s", ErrNotFound, method, url)
		}
		return nil, fmt.Errorf("%w: %s %s: status %d", ErrUpstream, method, url, resp.StatusCode)
	}
	return resp, nil
}

// ListMembers retrieves the full member collection.
func (r *memberRepository) ListMembers(ctx context.Context) ([]models.Member, error) {
	resp, err := r.do(ctx, http.MethodGet, r.collectionURL(), nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var members []models.Member
	if err := json.NewDecoder(resp.Body).Decode(&members); err != nil {
		return nil, fmt.Errorf("%w: decoding member list: %v", ErrUpstream, err)
	}
	return members, nil
}

// CreateMember submits a new member payload; the service assigns the id.
func (r *memberRepository) CreateMember(ctx context.Context, payload models.MemberPayload) error {
	resp, err := r.do(ctx, http.MethodPost, r.collectionURL(), payload)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// UpdateMember replaces the full payload of the member with the given id.
func (r *memberRepository) UpdateMember(ctx context.Context, id int64, payload models.MemberPayload) error {
	resp, err := r.do(ctx, http.MethodPut, r.memberURL(id), payload)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

// DeleteMember removes the member with the given id.
func (r *memberRepository) DeleteMember(ctx context.Context, id int64) error {
	resp, err := r.do(ctx, http.MethodDelete, r.memberURL(id), nil)
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}
