package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"brandquiz/internal/config"
	"brandquiz/internal/model"
)

type recordedCall struct {
	Method string
	Path   string
	Body   map[string]interface{}
}

// fakeCRM serves scripted responses keyed by "METHOD /path"
type fakeCRM struct {
	t         *testing.T
	mu        sync.Mutex
	calls     []recordedCall
	responses map[string][]fakeResponse
}

type fakeResponse struct {
	status int
	body   string
}

func newFakeCRM(t *testing.T) (*fakeCRM, *httptest.Server) {
	f := &fakeCRM{t: t, responses: make(map[string][]fakeResponse)}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeCRM) on(method, path string, status int, body string) {
	key := method + " " + path
	f.responses[key] = append(f.responses[key], fakeResponse{status: status, body: body})
}

func (f *fakeCRM) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	assert.Equal(f.t, "Bearer ghl-key", r.Header.Get("Authorization"))
	assert.Equal(f.t, "2021-07-28", r.Header.Get("Version"))
	assert.Equal(f.t, "loc-1", r.Header.Get("Location"))

	call := recordedCall{Method: r.Method, Path: r.URL.Path}
	if r.Body != nil && r.ContentLength != 0 {
		_ = json.NewDecoder(r.Body).Decode(&call.Body)
	}

	f.mu.Lock()
	f.calls = append(f.calls, call)
	key := r.Method + " " + r.URL.Path
	queue := f.responses[key]
	var resp fakeResponse
	if len(queue) > 0 {
		resp = queue[0]
		if len(queue) > 1 {
			f.responses[key] = queue[1:]
		}
	} else {
		resp = fakeResponse{status: http.StatusNotFound, body: `{"message":"no route"}`}
	}
	f.mu.Unlock()

	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}

func (f *fakeCRM) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.Method + " " + c.Path
	}
	return out
}

func testCRMClient(baseURL string) *CRMClient {
	return NewCRMClient(
		config.CRMConfig{APIKey: "ghl-key", LocationID: "loc-1", BaseURL: baseURL, APIVersion: "2021-07-28"},
		config.EmailConfig{FromEmail: "noreply@example.com", AppName: "Brand Archetype Quiz"},
	)
}

func sampleContact() CRMContact {
	return NewCRMContact(
		model.Metadata{Name: "Ada King Lovelace", Email: "ada@example.com", CompanyName: "Acme", WebsiteURL: "https://acme.test"},
		model.SubmissionResults{
			DesiredBrandType: model.BrandType{Primary: "Sage", Secondary: "Host"},
			CurrentBrandType: model.BrandType{Primary: "Unknown", Secondary: "Unknown"},
		},
	)
}

func TestNewCRMContact(t *testing.T) {
	c := sampleContact()
	assert.Equal(t, "Ada", c.FirstName)
	assert.Equal(t, "King Lovelace", c.LastName)
	assert.Equal(t, "Sage", c.CustomField["desiredPrimaryArchetype"])
	assert.Equal(t, "Host", c.CustomField["desiredSecondaryArchetype"])
	assert.Equal(t, "Unknown", c.CustomField["currentPrimaryArchetype"])
}

func TestUpsertContact_UpdatesExisting(t *testing.T) {
	f, srv := newFakeCRM(t)
	f.on(http.MethodGet, "/contacts/lookup", http.StatusOK, `{"contacts":[{"id":"c-42"}]}`)
	f.on(http.MethodPut, "/contacts/c-42", http.StatusOK, `{"contact":{"id":"c-42"}}`)

	id, err := testCRMClient(srv.URL).UpsertContact(context.Background(), sampleContact())
	require.NoError(t, err)
	assert.Equal(t, "c-42", id)
	assert.Equal(t, []string{"GET /contacts/lookup", "PUT /contacts/c-42"}, f.paths())
}

func TestUpsertContact_CreatesNew(t *testing.T) {
	f, srv := newFakeCRM(t)
	f.on(http.MethodGet, "/contacts/lookup", http.StatusOK, `{"contacts":[]}`)
	f.on(http.MethodPost, "/contacts", http.StatusOK, `{"contact":{"id":"c-new"}}`)

	id, err := testCRMClient(srv.URL).UpsertContact(context.Background(), sampleContact())
	require.NoError(t, err)
	assert.Equal(t, "c-new", id)

	require.Len(t, f.calls, 2)
	created := f.calls[1].Body
	assert.Equal(t, "ada@example.com", created["email"])
	assert.Equal(t, []interface{}{"Brand Quiz"}, created["tags"])
}

func TestUpsertContact_DuplicateOnCreateIsSuccess(t *testing.T) {
	f, srv := newFakeCRM(t)
	f.on(http.MethodGet, "/contacts/lookup", http.StatusOK, `{"contacts":[]}`)
	f.on(http.MethodGet, "/contacts/lookup", http.StatusOK, `{"contacts":[{"id":"c-race"}]}`)
	f.on(http.MethodPost, "/contacts", http.StatusBadRequest, `{"message":"This location does not allow duplicated contacts."}`)

	id, err := testCRMClient(srv.URL).UpsertContact(context.Background(), sampleContact())
	require.NoError(t, err)
	assert.Equal(t, "c-race", id)
	assert.Equal(t, []string{"GET /contacts/lookup", "POST /contacts", "GET /contacts/lookup"}, f.paths())
}

func TestUpsertContact_FailureIsIntegrationError(t *testing.T) {
	f, srv := newFakeCRM(t)
	f.on(http.MethodGet, "/contacts/lookup", http.StatusOK, `{"contacts":[]}`)
	f.on(http.MethodPost, "/contacts", http.StatusInternalServerError, `{"message":"boom"}`)

	_, err := testCRMClient(srv.URL).UpsertContact(context.Background(), sampleContact())
	var ie *model.IntegrationError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "create contact", ie.Op)
	assert.Equal(t, http.StatusInternalServerError, ie.StatusCode)

	// single attempt, no retry
	assert.Equal(t, []string{"GET /contacts/lookup", "POST /contacts"}, f.paths())
}

func TestCRMClient_NotConfigured(t *testing.T) {
	client := NewCRMClient(config.CRMConfig{BaseURL: "http://127.0.0.1:1"}, config.EmailConfig{})

	_, err := client.UpsertContact(context.Background(), sampleContact())
	assert.ErrorIs(t, err, model.ErrCRMNotConfigured)

	err = client.SendReportEmail(context.Background(), ReportEmail{Email: "ada@example.com"})
	assert.ErrorIs(t, err, model.ErrCRMNotConfigured)
}

func TestSendReportEmail(t *testing.T) {
	f, srv := newFakeCRM(t)
	f.on(http.MethodPost, "/conversations/messages", http.StatusOK, `{"messageId":"m-1"}`)

	err := testCRMClient(srv.URL).SendReportEmail(context.Background(), ReportEmail{
		ContactID:        "c-42",
		Name:             "Ada",
		Email:            "ada@example.com",
		CompanyName:      "Acme",
		DesiredPrimary:   "Sage",
		DesiredSecondary: "Host",
		ReportHTML:       "<h1>Your report</h1>",
	})
	require.NoError(t, err)

	require.Len(t, f.calls, 1)
	body := f.calls[0].Body
	assert.Equal(t, "Your Acme Brand Archetype Report is Here!", body["subject"])
	assert.Equal(t, []interface{}{"ada@example.com"}, body["to"])
	assert.Equal(t, "c-42", body["contactId"])

	html, _ := body["html"].(string)
	assert.Contains(t, html, "Hi Ada,")
	assert.Contains(t, html, "<strong>Sage-Host</strong>")
	assert.Contains(t, html, "<h1>Your report</h1>")
	assert.Contains(t, html, "Upgrade to our premium playbook")
	assert.Contains(t, html, "Brand Archetype Quiz Team")
}

func TestSendReportEmail_Failure(t *testing.T) {
	f, srv := newFakeCRM(t)
	f.on(http.MethodPost, "/conversations/messages", http.StatusUnauthorized, `{"message":"bad token"}`)

	err := testCRMClient(srv.URL).SendReportEmail(context.Background(), ReportEmail{Email: "ada@example.com", CompanyName: "Acme"})
	var ie *model.IntegrationError
	require.ErrorAs(t, err, &ie)
	assert.Equal(t, http.StatusUnauthorized, ie.StatusCode)
}
