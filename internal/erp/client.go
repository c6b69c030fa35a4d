package erp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"safety-survey-go/internal/config"
)

const (
	projectsFilter = "ProjectStage eq Microsoft.Dynamics.DataEntities.ProjStatus'InProcess'"
	projectsSelect = "ProjectID,dataAreaId,ProjectName,DimensionDisplayValue,WorkerResponsiblePersonnelNumber,CustomerAccount"
)

// Client talks to the ERP OData interface. Access tokens come from the
// tenant's client-credentials endpoint and are cached per resource until
// close to expiry.
type Client struct {
	cfg    config.ERPConfig
	client *http.Client
	tokens *tokenCache
	now    func() time.Time
}

func NewClient(cfg config.ERPConfig) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		cfg: cfg,
		client: &http.Client{
			Timeout: timeout,
		},
		tokens: newTokenCache(),
		now:    time.Now,
	}
}

// Resource returns the OData resource for the requested environment.
func (c *Client) Resource(sandbox bool) string {
	if sandbox {
		return c.cfg.SandboxResource
	}
	return c.cfg.Resource
}

type tokenResponse struct {
	AccessToken string      `json:"access_token"`
	ExpiresIn   json.Number `json:"expires_in"`
}

// AccessToken returns a valid token for the resource, fetching a new one when
// the cache has none or the cached token expires within a minute.
func (c *Client) AccessToken(ctx context.Context, resource string) (string, error) {
	if token, ok := c.tokens.get(resource, c.now()); ok {
		return token, nil
	}

	tokenURL := strings.TrimRight(c.cfg.LoginBaseURL, "/") + "/" + c.cfg.TenantID + "/oauth2/token"
	payload := url.Values{}
	payload.Set("client_id", c.cfg.ClientID)
	payload.Set("client_secret", c.cfg.ClientSecret)
	payload.Set("grant_type", "client_credentials")
	payload.Set("resource", resource)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(payload.Encode()))
	if err != nil {
		return "", fmt.Errorf("build token request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("authentication failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("authentication failed: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var token tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("decode token response: %v", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token response missing access_token")
	}

	expiresIn, err := token.ExpiresIn.Int64()
	if err != nil || expiresIn <= 0 {
		// The token endpoint reports lifetime in seconds, fall back to the
		// usual hour when the field is absent.
		expiresIn = 3600
	}
	c.tokens.put(resource, token.AccessToken, c.now().Add(time.Duration(expiresIn)*time.Second))

	return token.AccessToken, nil
}

// ProjectRow is one project record from the OData feed.
type ProjectRow struct {
	ProjectID                        string `json:"ProjectID"`
	DataAreaID                       string `json:"dataAreaId"`
	ProjectName                      string `json:"ProjectName"`
	DimensionDisplayValue            string `json:"DimensionDisplayValue"`
	WorkerResponsiblePersonnelNumber string `json:"WorkerResponsiblePersonnelNumber"`
	CustomerAccount                  string `json:"CustomerAccount"`
}

type projectsResponse struct {
	Value []ProjectRow `json:"value"`
}

// FetchProjects pulls the in-process projects from the resource.
func (c *Client) FetchProjects(ctx context.Context, resource string) ([]ProjectRow, error) {
	token, err := c.AccessToken(ctx, resource)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("cross-company", "true")
	query.Set("$filter", projectsFilter)
	query.Set("$select", projectsSelect)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(resource, "/")+"/data/Projects?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build projects request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch projects: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("fetch projects: status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var payload projectsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode projects response: %v", err)
	}

	return payload.Value, nil
}
