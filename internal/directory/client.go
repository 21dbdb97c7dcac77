// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/canonical/directory-lifecycle/internal/logging"
	"github.com/canonical/directory-lifecycle/internal/monitoring"
	"github.com/canonical/directory-lifecycle/internal/tracing"
	"github.com/canonical/directory-lifecycle/internal/types"
	"golang.org/x/oauth2/clientcredentials"
)

type Config struct {
	BaseURL      string
	TokenURL     string
	TenantID     string
	ClientID     string
	ClientSecret string
	Scopes       []string
}

// Client talks to the directory's REST API with an app-only client
// credentials token. It owns the parse-and-validate boundary: responses are
// converted into typed records before anything downstream sees them.
type Client struct {
	http    *http.Client
	baseURL string

	tenantID string
	clientID string

	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
	logger  logging.LoggerInterface
}

var _ DirectoryInterface = (*Client)(nil)

func NewClient(cfg Config, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Client {
	oauthCfg := clientcredentials.Config{
		TokenURL:     cfg.TokenURL,
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Scopes:       cfg.Scopes,
	}

	return &Client{
		http:     oauthCfg.Client(context.Background()),
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		tenantID: cfg.TenantID,
		clientID: cfg.ClientID,
		tracer:   tracer,
		monitor:  monitor,
		logger:   logger,
	}
}

// account wire shapes; nullable directory attributes stay pointers or
// strings so absence survives until the typed conversion.
type accountResource struct {
	ID             string `json:"id"`
	PrincipalName  string `json:"userPrincipalName"`
	DisplayName    string `json:"displayName"`
	Mail           string `json:"mail"`
	UserType       string `json:"userType"`
	AccountEnabled bool   `json:"accountEnabled"`
	CreatedAt      string `json:"createdDateTime"`
	Department     string `json:"department"`

	AssignedLicenses []struct {
		SkuID string `json:"skuId"`
	} `json:"assignedLicenses"`

	SignInActivity struct {
		LastSignIn               string `json:"lastSignInDateTime"`
		LastNonInteractiveSignIn string `json:"lastNonInteractiveSignInDateTime"`
		LastSuccessfulSignIn     string `json:"lastSuccessfulSignInDateTime"`
	} `json:"signInActivity"`
}

type groupResource struct {
	ID              string `json:"id"`
	DisplayName     string `json:"displayName"`
	SecurityEnabled bool   `json:"securityEnabled"`
	MailEnabled     bool   `json:"mailEnabled"`
}

type listResponse struct {
	Value    json.RawMessage `json:"value"`
	NextLink string          `json:"nextLink"`
}

func (c *Client) ListAccounts(ctx context.Context, filter *types.AccountFilter) ([]*types.Account, error) {
	ctx, span := c.tracer.Start(ctx, "directory.ListAccounts")
	defer span.End()

	endpoint := c.baseURL + "/v1.0/accounts"
	if filter != nil {
		endpoint += "?filter=" + url.QueryEscape(buildFilter(filter))
	}

	var accounts []*types.Account
	for endpoint != "" {
		var page listResponse
		if err := c.get(ctx, endpoint, &page); err != nil {
			if filter != nil && isBadRequest(err) {
				return nil, fmt.Errorf("%w: %v", ErrFilterNotSupported, err)
			}
			return nil, fmt.Errorf("failed to list accounts: %w", err)
		}

		var resources []accountResource
		if err := json.Unmarshal(page.Value, &resources); err != nil {
			return nil, fmt.Errorf("failed to decode account page: %w", err)
		}

		for _, res := range resources {
			account, err := c.toAccount(res)
			if err != nil {
				c.logger.Warnf("skipping malformed account record: %v", err)
				continue
			}
			accounts = append(accounts, account)
		}

		endpoint = page.NextLink
	}

	return accounts, nil
}

func (c *Client) toAccount(res accountResource) (*types.Account, error) {
	if res.ID == "" || res.PrincipalName == "" {
		return nil, fmt.Errorf("account record missing id or principal name: %+v", res)
	}

	kind := types.AccountKind(res.UserType)
	switch kind {
	case types.KindMember, types.KindGuest:
	default:
		return nil, fmt.Errorf("account %s has unknown kind %q", res.ID, res.UserType)
	}

	var createdAt *time.Time
	if res.CreatedAt != "" {
		ts, err := time.Parse(time.RFC3339, res.CreatedAt)
		if err != nil {
			c.logger.Warnf("account %s has unparseable creation date %q", res.ID, res.CreatedAt)
		} else {
			createdAt = &ts
		}
	}

	licenses := make([]string, 0, len(res.AssignedLicenses))
	for _, l := range res.AssignedLicenses {
		if l.SkuID != "" {
			licenses = append(licenses, l.SkuID)
		}
	}

	return &types.Account{
		ID:               res.ID,
		PrincipalName:    res.PrincipalName,
		DisplayName:      res.DisplayName,
		Email:            res.Mail,
		Kind:             kind,
		Enabled:          res.AccountEnabled,
		CreatedAt:        createdAt,
		Department:       res.Department,
		AssignedLicenses: licenses,
		SignInActivity: types.SignInActivity{
			LastSignIn:               res.SignInActivity.LastSignIn,
			LastNonInteractiveSignIn: res.SignInActivity.LastNonInteractiveSignIn,
			LastSuccessfulSignIn:     res.SignInActivity.LastSuccessfulSignIn,
		},
	}, nil
}

func buildFilter(f *types.AccountFilter) string {
	parts := make([]string, 0, 2)
	if f.Kind != "" {
		parts = append(parts, fmt.Sprintf("userType eq '%s'", f.Kind))
	}
	if f.Enabled != nil {
		parts = append(parts, fmt.Sprintf("accountEnabled eq %t", *f.Enabled))
	}
	return strings.Join(parts, " and ")
}

func (c *Client) GetGroupByName(ctx context.Context, name string) (*types.Group, error) {
	ctx, span := c.tracer.Start(ctx, "directory.GetGroupByName")
	defer span.End()

	endpoint := c.baseURL + "/v1.0/groups?filter=" + url.QueryEscape(fmt.Sprintf("displayName eq '%s'", name))

	var page listResponse
	if err := c.get(ctx, endpoint, &page); err != nil {
		return nil, fmt.Errorf("failed to look up group %q: %w", name, err)
	}

	var groups []groupResource
	if err := json.Unmarshal(page.Value, &groups); err != nil {
		return nil, fmt.Errorf("failed to decode group response: %w", err)
	}

	if len(groups) == 0 {
		return nil, ErrNotFound
	}

	g := groups[0]
	return &types.Group{
		ID:              g.ID,
		DisplayName:     g.DisplayName,
		SecurityEnabled: g.SecurityEnabled,
		MailEnabled:     g.MailEnabled,
	}, nil
}

func (c *Client) CreateGroup(ctx context.Context, name string) (*types.Group, error) {
	ctx, span := c.tracer.Start(ctx, "directory.CreateGroup")
	defer span.End()

	body := map[string]interface{}{
		"displayName":     name,
		"securityEnabled": true,
		"mailEnabled":     false,
	}

	var g groupResource
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/v1.0/groups", body, &g); err != nil {
		return nil, fmt.Errorf("failed to create group %q: %w", name, err)
	}

	return &types.Group{
		ID:              g.ID,
		DisplayName:     g.DisplayName,
		SecurityEnabled: g.SecurityEnabled,
		MailEnabled:     g.MailEnabled,
	}, nil
}

func (c *Client) ListGroupMembers(ctx context.Context, groupID string) ([]string, error) {
	ctx, span := c.tracer.Start(ctx, "directory.ListGroupMembers")
	defer span.End()

	endpoint := c.baseURL + "/v1.0/groups/" + groupID + "/members"

	var members []string
	for endpoint != "" {
		var page listResponse
		if err := c.get(ctx, endpoint, &page); err != nil {
			return nil, fmt.Errorf("failed to list members of group %s: %w", groupID, err)
		}

		var resources []struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(page.Value, &resources); err != nil {
			return nil, fmt.Errorf("failed to decode member page: %w", err)
		}

		for _, res := range resources {
			members = append(members, res.ID)
		}

		endpoint = page.NextLink
	}

	return members, nil
}

func (c *Client) AddGroupMember(ctx context.Context, groupID, accountID string) error {
	ctx, span := c.tracer.Start(ctx, "directory.AddGroupMember")
	defer span.End()

	body := map[string]interface{}{"id": accountID}
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/v1.0/groups/"+groupID+"/members", body, nil); err != nil {
		return fmt.Errorf("failed to add %s to group %s: %w", accountID, groupID, err)
	}
	return nil
}

func (c *Client) RemoveGroupMember(ctx context.Context, groupID, accountID string) error {
	ctx, span := c.tracer.Start(ctx, "directory.RemoveGroupMember")
	defer span.End()

	endpoint := c.baseURL + "/v1.0/groups/" + groupID + "/members/" + accountID
	if err := c.do(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		return fmt.Errorf("failed to remove %s from group %s: %w", accountID, groupID, err)
	}
	return nil
}

func (c *Client) SetAccountEnabled(ctx context.Context, accountID string, enabled bool) error {
	ctx, span := c.tracer.Start(ctx, "directory.SetAccountEnabled")
	defer span.End()

	body := map[string]interface{}{"accountEnabled": enabled}
	if err := c.do(ctx, http.MethodPatch, c.baseURL+"/v1.0/accounts/"+accountID, body, nil); err != nil {
		return fmt.Errorf("failed to set enabled=%t on account %s: %w", enabled, accountID, err)
	}
	return nil
}

func (c *Client) RemoveAccount(ctx context.Context, accountID string) error {
	ctx, span := c.tracer.Start(ctx, "directory.RemoveAccount")
	defer span.End()

	// The directory keeps removed accounts recoverable for its own grace
	// window; this is a soft delete from the caller's point of view.
	if err := c.do(ctx, http.MethodDelete, c.baseURL+"/v1.0/accounts/"+accountID, nil, nil); err != nil {
		return fmt.Errorf("failed to remove account %s: %w", accountID, err)
	}
	return nil
}

func (c *Client) ListLicenseCatalog(ctx context.Context) (map[string]string, error) {
	ctx, span := c.tracer.Start(ctx, "directory.ListLicenseCatalog")
	defer span.End()

	var page listResponse
	if err := c.get(ctx, c.baseURL+"/v1.0/subscribedSkus", &page); err != nil {
		return nil, fmt.Errorf("failed to list license catalog: %w", err)
	}

	var skus []struct {
		SkuID   string `json:"skuId"`
		SkuName string `json:"skuPartNumber"`
	}
	if err := json.Unmarshal(page.Value, &skus); err != nil {
		return nil, fmt.Errorf("failed to decode license catalog: %w", err)
	}

	catalog := make(map[string]string, len(skus))
	for _, sku := range skus {
		if sku.SkuID == "" {
			continue
		}
		catalog[sku.SkuID] = sku.SkuName
	}

	return catalog, nil
}

func (c *Client) CurrentIdentity(ctx context.Context) (*types.IdentityContext, error) {
	ctx, span := c.tracer.Start(ctx, "directory.CurrentIdentity")
	defer span.End()

	var res struct {
		TenantID    string `json:"tenantId"`
		DisplayName string `json:"displayName"`
	}
	if err := c.get(ctx, c.baseURL+"/v1.0/organization", &res); err != nil {
		return nil, fmt.Errorf("failed to fetch identity context: %w", err)
	}

	return &types.IdentityContext{
		TenantID:    res.TenantID,
		ClientID:    c.clientID,
		DisplayName: res.DisplayName,
	}, nil
}

type httpError struct {
	status int
	body   string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("directory returned %d: %s", e.status, e.body)
}

func isBadRequest(err error) bool {
	if he, ok := err.(*httpError); ok {
		return he.status == http.StatusBadRequest
	}
	return false
}

func (c *Client) get(ctx context.Context, endpoint string, out interface{}) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		_ = c.monitor.SetDependencyAvailability(map[string]string{"component": "directory"}, 0)
		return err
	}
	defer resp.Body.Close()

	_ = c.monitor.SetDependencyAvailability(map[string]string{"component": "directory"}, 1)

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &httpError{status: resp.StatusCode, body: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
