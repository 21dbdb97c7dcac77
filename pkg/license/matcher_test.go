// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package license

import (
	"context"
	"errors"
	"testing"

	"github.com/canonical/directory-lifecycle/internal/logging"
	"github.com/canonical/directory-lifecycle/internal/types"
)

type staticCatalogSource struct {
	catalog map[string]string
	err     error
}

func (s *staticCatalogSource) ListLicenseCatalog(_ context.Context) (map[string]string, error) {
	return s.catalog, s.err
}

func TestBuildCatalog(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		src := &staticCatalogSource{catalog: map[string]string{"sku-1": "Office Suite"}}

		catalog, err := BuildCatalog(context.Background(), src, logging.NewNoopLogger())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if catalog["sku-1"] != "Office Suite" {
			t.Errorf("expected catalog entry, got %v", catalog)
		}
	})

	t.Run("fetch failure degrades to empty catalog", func(t *testing.T) {
		src := &staticCatalogSource{err: errors.New("subscription API down")}

		catalog, err := BuildCatalog(context.Background(), src, logging.NewNoopLogger())
		if err == nil {
			t.Error("expected error to be reported")
		}
		if catalog == nil || len(catalog) != 0 {
			t.Errorf("expected empty catalog, got %v", catalog)
		}
	})
}

func TestMatcher_Matches(t *testing.T) {
	catalog := map[string]string{
		"sku-office": "Office Suite",
		"sku-mail":   "Mail Only",
	}

	testCases := []struct {
		name        string
		includeList []string
		licenses    []string
		expected    bool
	}{
		{
			name:        "empty include-list matches everyone",
			includeList: nil,
			licenses:    nil,
			expected:    true,
		},
		{
			name:        "friendly name match",
			includeList: []string{"Office Suite"},
			licenses:    []string{"sku-office"},
			expected:    true,
		},
		{
			name:        "raw sku fallback match",
			includeList: []string{"sku-unmapped"},
			licenses:    []string{"sku-unmapped"},
			expected:    true,
		},
		{
			name:        "no assigned licenses never matches non-empty list",
			includeList: []string{"Office Suite"},
			licenses:    nil,
			expected:    false,
		},
		{
			name:        "match is case-sensitive",
			includeList: []string{"office suite"},
			licenses:    []string{"sku-office"},
			expected:    false,
		},
		{
			name:        "match is exact, not substring",
			includeList: []string{"Office"},
			licenses:    []string{"sku-office"},
			expected:    false,
		},
		{
			name:        "one of several licenses matches",
			includeList: []string{"Mail Only"},
			licenses:    []string{"sku-office", "sku-mail"},
			expected:    true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := NewMatcher(catalog, tc.includeList, logging.NewNoopLogger())
			account := &types.Account{ID: "account-1", AssignedLicenses: tc.licenses}

			if got := m.Matches(account); got != tc.expected {
				t.Errorf("expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestMatcher_Names(t *testing.T) {
	m := NewMatcher(map[string]string{"sku-office": "Office Suite"}, nil, logging.NewNoopLogger())

	account := &types.Account{AssignedLicenses: []string{"sku-office", "sku-unknown"}}
	names := m.Names(account)

	if len(names) != 2 || names[0] != "Office Suite" || names[1] != "sku-unknown" {
		t.Errorf("unexpected names: %v", names)
	}

	if names := m.Names(&types.Account{}); names != nil {
		t.Errorf("expected nil for no licenses, got %v", names)
	}
}
