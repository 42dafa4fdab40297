package handlers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"church_directory_admin/internal/models"
	"church_directory_admin/internal/repositories"
	"church_directory_admin/internal/router"

	"github.com/gin-gonic/gin"
)

// ─────────────────────────────────────────────────────────────────────────────
// Test fixture
// ─────────────────────────────────────────────────────────────────────────────

type fakeMemberRepo struct {
	members   []models.Member
	listErr   error
	createErr error
	updateErr error
	deleteErr error

	listCalls   int
	createCalls int
	updateCalls int
	deleteCalls int
}

func (f *fakeMemberRepo) ListMembers(ctx context.Context) ([]models.Member, error) {
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.Member, len(f.members))
	copy(out, f.members)
	return out, nil
}

func (f *fakeMemberRepo) CreateMember(ctx context.Context, payload models.MemberPayload) error {
	f.createCalls++
	return f.createErr
}

func (f *fakeMemberRepo) UpdateMember(ctx context.Context, id int64, payload models.MemberPayload) error {
	f.updateCalls++
	return f.updateErr
}

func (f *fakeMemberRepo) DeleteMember(ctx context.Context, id int64) error {
	f.deleteCalls++
	return f.deleteErr
}

type membersResponse struct {
	Data    []models.Member `json:"data"`
	Total   int             `json:"total"`
	Loading bool            `json:"loading"`
	Error   string          `json:"error"`
}

func newTestEngine(t *testing.T, repo repositories.MemberRepository) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	router.Setup(engine, repo)
	return engine
}

func doRequest(t *testing.T, engine *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	recorder := httptest.NewRecorder()
	engine.ServeHTTP(recorder, req)
	return recorder
}

func directoryFixture() []models.Member {
	return []models.Member{
		{ID: 1, FullName: "Sarah Mensah", Email: "s@x.com", Phone: "", Ministry: "Tech"},
		{ID: 2, FullName: "Kofi Boateng", Email: "kofi@x.com", Phone: "0244000000", Ministry: "Ushering"},
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// JSON API: directory
// ─────────────────────────────────────────────────────────────────────────────

func TestGetMembers_FiltersByQuery(t *testing.T) {
	engine := newTestEngine(t, &fakeMemberRepo{members: directoryFixture()})

	recorder := doRequest(t, engine, http.MethodGet, "/api/v1/directory/members?q=tech", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", recorder.Code, recorder.Body.String())
	}

	var resp membersResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Total != 1 || len(resp.Data) != 1 || resp.Data[0].ID != 1 {
		t.Fatalf("expected only the Tech member, got %+v", resp)
	}
	if resp.Error != "" {
		t.Fatalf("unexpected error state: %q", resp.Error)
	}
}

func TestGetMembers_UpstreamFailureSurfacesBanner(t *testing.T) {
	repo := &fakeMemberRepo{listErr: repositories.ErrUnavailable}
	engine := newTestEngine(t, repo)

	recorder := doRequest(t, engine, http.MethodGet, "/api/v1/directory/members", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("snapshot reads stay 200, got %d", recorder.Code)
	}

	var resp membersResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Error == "" {
		t.Fatal("expected the load failure in the error state")
	}
	if resp.Total != 0 {
		t.Fatalf("expected an empty directory, got %+v", resp)
	}
}

func TestReloadMembers_UpstreamFailureIs502(t *testing.T) {
	engine := newTestEngine(t, &fakeMemberRepo{listErr: repositories.ErrUpstream})

	recorder := doRequest(t, engine, http.MethodPost, "/api/v1/directory/reload", "")
	if recorder.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", recorder.Code, recorder.Body.String())
	}
}

func TestDeleteMember_PrunesWithoutRefetch(t *testing.T) {
	repo := &fakeMemberRepo{members: directoryFixture()}
	engine := newTestEngine(t, repo)

	// Prime the cache, then delete.
	doRequest(t, engine, http.MethodGet, "/api/v1/directory/members", "")
	listCallsBefore := repo.listCalls

	recorder := doRequest(t, engine, http.MethodDelete, "/api/v1/directory/members/1", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", recorder.Code, recorder.Body.String())
	}
	if repo.deleteCalls != 1 {
		t.Fatalf("expected one upstream delete, got %d", repo.deleteCalls)
	}
	if repo.listCalls != listCallsBefore {
		t.Fatal("delete must not trigger a re-fetch")
	}

	var resp membersResponse
	recorder = doRequest(t, engine, http.MethodGet, "/api/v1/directory/members", "")
	if err := json.Unmarshal(recorder.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if resp.Total != 1 || resp.Data[0].ID != 2 {
		t.Fatalf("expected member 1 pruned, got %+v", resp)
	}
}

func TestDeleteMember_InvalidID(t *testing.T) {
	engine := newTestEngine(t, &fakeMemberRepo{})

	recorder := doRequest(t, engine, http.MethodDelete, "/api/v1/directory/members/abc", "")
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// JSON API: form
// ─────────────────────────────────────────────────────────────────────────────

func TestSubmitForm_CreateResetsForm(t *testing.T) {
	repo := &fakeMemberRepo{members: directoryFixture()}
	engine := newTestEngine(t, repo)

	recorder := doRequest(t, engine, http.MethodPost, "/api/v1/directory/form/submit",
		`{"fullName":"Ama","email":"ama@x.com"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", recorder.Code, recorder.Body.String())
	}
	if repo.createCalls != 1 {
		t.Fatalf("expected one create, got %d", repo.createCalls)
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected the post-create reload, got %d list calls", repo.listCalls)
	}

	recorder = doRequest(t, engine, http.MethodGet, "/api/v1/directory/form", "")
	var form struct {
		Draft     models.MemberPayload `json:"draft"`
		EditingID *int64               `json:"editingId"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &form); err != nil {
		t.Fatalf("decoding form: %v", err)
	}
	if form.Draft != (models.MemberPayload{}) || form.EditingID != nil {
		t.Fatalf("form should reset after a successful create, got %+v", form)
	}
}

func TestSubmitForm_ValidationFailureNeverReachesNetwork(t *testing.T) {
	repo := &fakeMemberRepo{}
	engine := newTestEngine(t, repo)

	recorder := doRequest(t, engine, http.MethodPost, "/api/v1/directory/form/submit",
		`{"fullName":"","email":"ama@x.com"}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", recorder.Code, recorder.Body.String())
	}
	if repo.createCalls != 0 || repo.updateCalls != 0 {
		t.Fatal("an invalid draft must not reach the upstream service")
	}
}

func TestEditSubmitFlow_UpdatesByID(t *testing.T) {
	repo := &fakeMemberRepo{members: directoryFixture()}
	engine := newTestEngine(t, repo)

	// Prime the cache so the edit target can be resolved.
	doRequest(t, engine, http.MethodGet, "/api/v1/directory/members", "")

	recorder := doRequest(t, engine, http.MethodPost, "/api/v1/directory/form/edit/2", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", recorder.Code, recorder.Body.String())
	}

	recorder = doRequest(t, engine, http.MethodPost, "/api/v1/directory/form/submit", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status %d, body %s", recorder.Code, recorder.Body.String())
	}
	if repo.updateCalls != 1 || repo.createCalls != 0 {
		t.Fatalf("expected one update and no create, got %d/%d", repo.updateCalls, repo.createCalls)
	}
}

func TestCancelForm_ClearsEditTarget(t *testing.T) {
	repo := &fakeMemberRepo{members: directoryFixture()}
	engine := newTestEngine(t, repo)
	doRequest(t, engine, http.MethodGet, "/api/v1/directory/members", "")
	doRequest(t, engine, http.MethodPost, "/api/v1/directory/form/edit/1", "")

	recorder := doRequest(t, engine, http.MethodPost, "/api/v1/directory/form/cancel", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status %d", recorder.Code)
	}

	var form struct {
		Draft     models.MemberPayload `json:"draft"`
		EditingID *int64               `json:"editingId"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &form); err != nil {
		t.Fatalf("decoding form: %v", err)
	}
	if form.Draft != (models.MemberPayload{}) || form.EditingID != nil {
		t.Fatalf("cancel should reset the form, got %+v", form)
	}
}

func TestSetFormField_RejectsUnknownField(t *testing.T) {
	engine := newTestEngine(t, &fakeMemberRepo{})

	recorder := doRequest(t, engine, http.MethodPut, "/api/v1/directory/form/fields",
		`{"field":"nickname","value":"Ko"}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", recorder.Code)
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Server-rendered page
// ─────────────────────────────────────────────────────────────────────────────

func TestGetIndex_RendersDirectory(t *testing.T) {
	engine := newTestEngine(t, &fakeMemberRepo{members: directoryFixture()})

	recorder := doRequest(t, engine, http.MethodGet, "/", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("status %d", recorder.Code)
	}

	page := recorder.Body.String()
	if !strings.Contains(page, "Sarah Mensah") || !strings.Contains(page, "Kofi Boateng") {
		t.Fatalf("page should list the loaded members:\n%s", page)
	}
	if !strings.Contains(page, "Add Member") {
		t.Fatal("page should start in create mode")
	}
}

func TestGetEdit_PreFillsPageForm(t *testing.T) {
	engine := newTestEngine(t, &fakeMemberRepo{members: directoryFixture()})
	doRequest(t, engine, http.MethodGet, "/", "")

	recorder := doRequest(t, engine, http.MethodGet, "/members/2/edit", "")
	if recorder.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", recorder.Code)
	}

	recorder = doRequest(t, engine, http.MethodGet, "/", "")
	page := recorder.Body.String()
	if !strings.Contains(page, "Edit Member") || !strings.Contains(page, `value="kofi@x.com"`) {
		t.Fatalf("page form should be pre-filled for member 2:\n%s", page)
	}
}
