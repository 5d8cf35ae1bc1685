package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"brandquiz/internal/config"
	"brandquiz/internal/model"
)

// CRMClient wraps GoHighLevel contact and messaging API calls.
// Every call is a single attempt; callers treat failures as soft.
type CRMClient struct {
	baseURL    string
	apiKey     string
	locationID string
	apiVersion string
	fromEmail  string
	appName    string
	httpClient *http.Client
}

// NewCRMClient creates a new GoHighLevel API client
func NewCRMClient(crm config.CRMConfig, email config.EmailConfig) *CRMClient {
	if !crm.IsConfigured() {
		log.Println("[CRM Client] Warning: GoHighLevel credentials not set, CRM sync and email are disabled")
	}

	return &CRMClient{
		baseURL:    strings.TrimRight(crm.BaseURL, "/"),
		apiKey:     crm.APIKey,
		locationID: crm.LocationID,
		apiVersion: crm.APIVersion,
		fromEmail:  email.FromEmail,
		appName:    email.AppName,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CRMContact is the contact payload sent to GoHighLevel
type CRMContact struct {
	Email       string            `json:"email"`
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
	Name        string            `json:"name"`
	CompanyName string            `json:"companyName"`
	Website     string            `json:"website"`
	CustomField map[string]string `json:"customField,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
}

// NewCRMContact builds the contact for a scored submission
func NewCRMContact(meta model.Metadata, results model.SubmissionResults) CRMContact {
	return CRMContact{
		Email:       meta.Email,
		FirstName:   meta.FirstName(),
		LastName:    meta.LastName(),
		Name:        meta.Name,
		CompanyName: meta.CompanyName,
		Website:     meta.WebsiteURL,
		CustomField: map[string]string{
			"desiredPrimaryArchetype":   results.DesiredBrandType.Primary,
			"desiredSecondaryArchetype": results.DesiredBrandType.Secondary,
			"currentPrimaryArchetype":   results.CurrentBrandType.Primary,
			"currentSecondaryArchetype": results.CurrentBrandType.Secondary,
		},
	}
}

// ReportEmail is one report email
type ReportEmail struct {
	ContactID        string
	Name             string
	Email            string
	CompanyName      string
	DesiredPrimary   string
	DesiredSecondary string
	ReportHTML       string
}

type crmLookupResponse struct {
	Contacts []struct {
		ID string `json:"id"`
	} `json:"contacts"`
}

type crmContactResponse struct {
	Contact struct {
		ID string `json:"id"`
	} `json:"contact"`
}

type crmEmailFrom struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type crmEmailRequest struct {
	Type      string       `json:"type"`
	ContactID string       `json:"contactId,omitempty"`
	To        []string     `json:"to"`
	From      crmEmailFrom `json:"from"`
	Subject   string       `json:"subject"`
	HTML      string       `json:"html"`
}

// crmAPIError is a non-2xx answer from the API
type crmAPIError struct {
	status int
	body   string
}

func (e *crmAPIError) Error() string {
	return fmt.Sprintf("GoHighLevel API error %d: %s", e.status, e.body)
}

// IsConfigured returns true if API key and location id are set
func (c *CRMClient) IsConfigured() bool {
	return c.apiKey != "" && c.locationID != ""
}

// doRequest performs a single HTTP request against the API
func (c *CRMClient) doRequest(ctx context.Context, method, path string, payload interface{}) ([]byte, error) {
	log.Printf("[CRM Client] %s %s", method, path)

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		log.Printf("[CRM Client] ERROR: Failed to create request: %v", err)
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Version", c.apiVersion)
	req.Header.Set("Location", c.locationID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[CRM Client] ERROR: HTTP request failed: %v", err)
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[CRM Client] ERROR: Failed to read response body: %v", err)
		return nil, err
	}

	if resp.StatusCode >= 400 {
		log.Printf("[CRM Client] ERROR: API returned %d for %s %s", resp.StatusCode, method, path)
		return nil, &crmAPIError{status: resp.StatusCode, body: string(respBody)}
	}

	log.Printf("[CRM Client] SUCCESS: %s %s completed", method, path)
	return respBody, nil
}

func integrationError(op string, err error) error {
	ie := &model.IntegrationError{Op: op, Err: err}
	var apiErr *crmAPIError
	if errors.As(err, &apiErr) {
		ie.StatusCode = apiErr.status
	}
	return ie
}

// lookupContact returns the id of the contact with email, or ErrContactNotFound
func (c *CRMClient) lookupContact(ctx context.Context, email string) (string, error) {
	path := "/contacts/lookup?email=" + url.QueryEscape(email)

	respBody, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		var apiErr *crmAPIError
		if errors.As(err, &apiErr) && apiErr.status == http.StatusNotFound {
			return "", model.ErrContactNotFound
		}
		return "", err
	}

	var lookup crmLookupResponse
	if err := json.Unmarshal(respBody, &lookup); err != nil {
		return "", fmt.Errorf("failed to parse lookup response: %w", err)
	}
	if len(lookup.Contacts) == 0 || lookup.Contacts[0].ID == "" {
		return "", model.ErrContactNotFound
	}
	return lookup.Contacts[0].ID, nil
}

// UpsertContact updates the contact with the same email or creates a new one
// and returns its id.
func (c *CRMClient) UpsertContact(ctx context.Context, contact CRMContact) (string, error) {
	if !c.IsConfigured() {
		return "", model.ErrCRMNotConfigured
	}

	contactID, err := c.lookupContact(ctx, contact.Email)
	switch {
	case err == nil:
		if _, err := c.doRequest(ctx, http.MethodPut, "/contacts/"+url.PathEscape(contactID), contact); err != nil {
			return "", integrationError("update contact", err)
		}
		log.Printf("[CRM Client] Updated contact %s", contactID)
		return contactID, nil
	case !errors.Is(err, model.ErrContactNotFound):
		return "", integrationError("lookup contact", err)
	}

	contact.Tags = append(contact.Tags, "Brand Quiz")
	respBody, err := c.doRequest(ctx, http.MethodPost, "/contacts", contact)
	if err != nil {
		if isDuplicateContact(err) {
			// created concurrently by another submission with the same email
			if id, lookupErr := c.lookupContact(ctx, contact.Email); lookupErr == nil {
				return id, nil
			}
		}
		return "", integrationError("create contact", err)
	}

	var created crmContactResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return "", integrationError("create contact", fmt.Errorf("failed to parse contact response: %w", err))
	}
	if created.Contact.ID == "" {
		return "", integrationError("create contact", errors.New("response has no contact id"))
	}

	log.Printf("[CRM Client] Created contact %s", created.Contact.ID)
	return created.Contact.ID, nil
}

func isDuplicateContact(err error) bool {
	var apiErr *crmAPIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.status {
	case http.StatusBadRequest, http.StatusConflict, http.StatusUnprocessableEntity:
		return strings.Contains(strings.ToLower(apiErr.body), "duplicate")
	}
	return false
}

var reportEmailTmpl = template.Must(template.New("email").Parse(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <p>Hi {{.Name}},</p>
  <p>Congratulations! Your personalized brand archetype report for {{.CompanyName}} is ready.</p>
  <p>Based on your quiz, your desired BrandType is <strong>{{.BrandType}}</strong>.
  Below, you'll find a detailed comparison with your current brand type, along with actionable recommendations.</p>
  <div style="margin: 30px 0;">
    {{.Report}}
  </div>
  <p><strong>Want more?</strong> Upgrade to our premium playbook for in-depth strategies tailored to your brand!</p>
  <p>Cheers,<br>{{.AppName}} Team</p>
</div>
`))

// RenderReportEmail wraps the report HTML in the email body
func (c *CRMClient) RenderReportEmail(email ReportEmail) (string, error) {
	brandType := email.DesiredPrimary
	if email.DesiredSecondary != "" {
		brandType += "-" + email.DesiredSecondary
	}

	var buf bytes.Buffer
	err := reportEmailTmpl.Execute(&buf, map[string]interface{}{
		"Name":        email.Name,
		"CompanyName": email.CompanyName,
		"BrandType":   brandType,
		"Report":      template.HTML(email.ReportHTML),
		"AppName":     c.appName,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// SendReportEmail sends the report through the conversations API
func (c *CRMClient) SendReportEmail(ctx context.Context, email ReportEmail) error {
	if !c.IsConfigured() {
		return model.ErrCRMNotConfigured
	}

	html, err := c.RenderReportEmail(email)
	if err != nil {
		return integrationError("render report email", err)
	}

	payload := crmEmailRequest{
		Type:      "Email",
		ContactID: email.ContactID,
		To:        []string{email.Email},
		From:      crmEmailFrom{Email: c.fromEmail, Name: c.appName},
		Subject:   fmt.Sprintf("Your %s Brand Archetype Report is Here!", email.CompanyName),
		HTML:      html,
	}

	if _, err := c.doRequest(ctx, http.MethodPost, "/conversations/messages", payload); err != nil {
		return integrationError("send report email", err)
	}

	log.Printf("[CRM Client] Report email sent for contact %s", email.ContactID)
	return nil
}
