// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/canonical/directory-lifecycle/internal/types"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/mock/gomock"
)

//go:generate mockgen -build_flags=--mod=mod -package directory -destination ./mock_logger.go -source=../logging/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package directory -destination ./mock_monitor.go -source=../monitoring/interfaces.go
//go:generate mockgen -build_flags=--mod=mod -package directory -destination ./mock_tracing.go -source=../tracing/interfaces.go

// setupClient points a Client at a test server that also plays the token
// endpoint, so the client credentials flow resolves locally.
func setupClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`)
	})
	mux.HandleFunc("/", handler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	ctrl := gomock.NewController(t)
	mockTracer := NewMockTracingInterface(ctrl)
	mockLogger := NewMockLoggerInterface(ctrl)
	mockMonitor := NewMockMonitorInterface(ctrl)

	mockTracer.EXPECT().Start(gomock.Any(), gomock.Any()).
		Return(context.TODO(), trace.SpanFromContext(context.TODO())).AnyTimes()
	mockLogger.EXPECT().Debugf(gomock.Any(), gomock.Any()).AnyTimes()
	mockLogger.EXPECT().Warnf(gomock.Any(), gomock.Any()).AnyTimes()
	mockMonitor.EXPECT().SetDependencyAvailability(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return NewClient(
		Config{
			BaseURL:      srv.URL,
			TokenURL:     srv.URL + "/token",
			TenantID:     "tenant-1",
			ClientID:     "client-1",
			ClientSecret: "secret",
		},
		mockTracer,
		mockMonitor,
		mockLogger,
	)
}

func writeJSON(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Fatalf("failed to encode response: %v", err)
	}
}

func TestListAccountsFollowsPagesAndSkipsMalformedRecords(t *testing.T) {
	var gotFilter string

	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1.0/accounts" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}

		if r.URL.Query().Get("page") == "2" {
			writeJSON(t, w, map[string]interface{}{
				"value": []map[string]interface{}{
					{"id": "acc-2", "userPrincipalName": "b@example.org", "userType": "Member", "accountEnabled": true},
				},
			})
			return
		}

		gotFilter = r.URL.Query().Get("filter")
		writeJSON(t, w, map[string]interface{}{
			"value": []map[string]interface{}{
				{
					"id":                "acc-1",
					"userPrincipalName": "a@example.org",
					"displayName":       "Account One",
					"userType":          "Member",
					"accountEnabled":    true,
					"createdDateTime":   "2024-01-15T10:00:00Z",
					"department":        "Engineering",
					"assignedLicenses":  []map[string]string{{"skuId": "sku-1"}, {"skuId": ""}},
					"signInActivity":    map[string]string{"lastSignInDateTime": "2025-05-01T00:00:00Z"},
				},
				{"userPrincipalName": "missing-id@example.org", "userType": "Member"},
				{"id": "acc-x", "userPrincipalName": "x@example.org", "userType": "ServiceAgent"},
			},
			"nextLink": fmt.Sprintf("http://%s/v1.0/accounts?page=2", r.Host),
		})
	})

	enabled := true
	accounts, err := client.ListAccounts(context.Background(), &types.AccountFilter{Kind: types.KindMember, Enabled: &enabled})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if gotFilter != "userType eq 'Member' and accountEnabled eq true" {
		t.Fatalf("unexpected server filter %q", gotFilter)
	}

	if len(accounts) != 2 {
		t.Fatalf("expected 2 accounts across pages, got %d", len(accounts))
	}

	first := accounts[0]
	if first.ID != "acc-1" || first.Department != "Engineering" {
		t.Fatalf("unexpected first account %+v", first)
	}
	if first.CreatedAt == nil || !first.CreatedAt.Equal(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected creation time %v", first.CreatedAt)
	}
	if len(first.AssignedLicenses) != 1 || first.AssignedLicenses[0] != "sku-1" {
		t.Fatalf("unexpected licenses %v", first.AssignedLicenses)
	}
	if first.SignInActivity.LastSignIn != "2025-05-01T00:00:00Z" {
		t.Fatalf("unexpected sign-in activity %+v", first.SignInActivity)
	}

	if accounts[1].ID != "acc-2" {
		t.Fatalf("expected second page account, got %+v", accounts[1])
	}
}

func TestListAccountsRejectedFilterIsReportedAsUnsupported(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("filter") != "" {
			http.Error(w, "filter not recognised", http.StatusBadRequest)
			return
		}
		writeJSON(t, w, map[string]interface{}{
			"value": []map[string]interface{}{
				{"id": "acc-1", "userPrincipalName": "a@example.org", "userType": "Member", "accountEnabled": true},
			},
		})
	})

	_, err := client.ListAccounts(context.Background(), &types.AccountFilter{Kind: types.KindMember})
	if !errors.Is(err, ErrFilterNotSupported) {
		t.Fatalf("expected ErrFilterNotSupported, got %v", err)
	}

	accounts, err := client.ListAccounts(context.Background(), nil)
	if err != nil {
		t.Fatalf("expected unfiltered listing to succeed, got %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(accounts))
	}
}

func TestListAccountsKeepsAccountWithUnparseableCreationDate(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, map[string]interface{}{
			"value": []map[string]interface{}{
				{"id": "acc-1", "userPrincipalName": "a@example.org", "userType": "Guest", "createdDateTime": "yesterday"},
			},
		})
	})

	accounts, err := client.ListAccounts(context.Background(), nil)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(accounts) != 1 {
		t.Fatalf("expected 1 account, got %d", len(accounts))
	}
	if accounts[0].CreatedAt != nil {
		t.Fatalf("expected nil creation time, got %v", accounts[0].CreatedAt)
	}
	if accounts[0].Kind != types.KindGuest {
		t.Fatalf("unexpected kind %q", accounts[0].Kind)
	}
}

func TestGetGroupByName(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("filter") == "displayName eq 'inactive-guest-review'" {
			writeJSON(t, w, map[string]interface{}{
				"value": []map[string]interface{}{
					{"id": "grp-1", "displayName": "inactive-guest-review", "securityEnabled": true},
				},
			})
			return
		}
		writeJSON(t, w, map[string]interface{}{"value": []map[string]interface{}{}})
	})

	group, err := client.GetGroupByName(context.Background(), "inactive-guest-review")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if group.ID != "grp-1" || !group.SecurityEnabled {
		t.Fatalf("unexpected group %+v", group)
	}

	_, err = client.GetGroupByName(context.Background(), "does-not-exist")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreateGroup(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1.0/groups" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		if body["displayName"] != "review" || body["securityEnabled"] != true || body["mailEnabled"] != false {
			t.Fatalf("unexpected create payload %+v", body)
		}

		writeJSON(t, w, map[string]interface{}{"id": "grp-new", "displayName": "review", "securityEnabled": true})
	})

	group, err := client.CreateGroup(context.Background(), "review")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if group.ID != "grp-new" || group.DisplayName != "review" {
		t.Fatalf("unexpected group %+v", group)
	}
}

func TestListGroupMembersFollowsPages(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1.0/groups/grp-1/members" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}

		if r.URL.Query().Get("page") == "2" {
			writeJSON(t, w, map[string]interface{}{
				"value": []map[string]string{{"id": "acc-3"}},
			})
			return
		}

		writeJSON(t, w, map[string]interface{}{
			"value":    []map[string]string{{"id": "acc-1"}, {"id": "acc-2"}},
			"nextLink": fmt.Sprintf("http://%s/v1.0/groups/grp-1/members?page=2", r.Host),
		})
	})

	members, err := client.ListGroupMembers(context.Background(), "grp-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(members) != 3 || members[2] != "acc-3" {
		t.Fatalf("unexpected members %v", members)
	}
}

func TestSetAccountEnabled(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPatch || r.URL.Path != "/v1.0/accounts/acc-1" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}

		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		if body["accountEnabled"] != false {
			t.Fatalf("unexpected payload %+v", body)
		}

		w.WriteHeader(http.StatusNoContent)
	})

	if err := client.SetAccountEnabled(context.Background(), "acc-1", false); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestRemoveAccountNotFound(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	err := client.RemoveAccount(context.Background(), "acc-gone")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListLicenseCatalog(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1.0/subscribedSkus" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		writeJSON(t, w, map[string]interface{}{
			"value": []map[string]string{
				{"skuId": "sku-1", "skuPartNumber": "OFFICE_SUITE_E3"},
				{"skuId": "sku-2", "skuPartNumber": "OFFICE_SUITE_F1"},
				{"skuId": "", "skuPartNumber": "ORPHANED"},
			},
		})
	})

	catalog, err := client.ListLicenseCatalog(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(catalog) != 2 {
		t.Fatalf("expected 2 catalog entries, got %d", len(catalog))
	}
	if catalog["sku-1"] != "OFFICE_SUITE_E3" || catalog["sku-2"] != "OFFICE_SUITE_F1" {
		t.Fatalf("unexpected catalog %v", catalog)
	}
}

func TestCurrentIdentity(t *testing.T) {
	client := setupClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1.0/organization" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Fatalf("unexpected authorization header %q", r.Header.Get("Authorization"))
		}
		writeJSON(t, w, map[string]string{"tenantId": "tenant-1", "displayName": "Example Org"})
	})

	identity, err := client.CurrentIdentity(context.Background())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if identity.TenantID != "tenant-1" || identity.ClientID != "client-1" || identity.DisplayName != "Example Org" {
		t.Fatalf("unexpected identity %+v", identity)
	}
}
