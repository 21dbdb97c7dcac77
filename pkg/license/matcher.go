// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package license

import (
	"context"

	"github.com/canonical/directory-lifecycle/internal/logging"
	"github.com/canonical/directory-lifecycle/internal/types"
)

type CatalogSourceInterface interface {
	ListLicenseCatalog(ctx context.Context) (map[string]string, error)
}

// BuildCatalog fetches the SKU catalog from the directory's subscription
// data. A failed fetch degrades to an empty catalog with a warning; raw SKU
// identifiers still participate in matching as fallback tokens, so license
// filtering becomes a pass-through rather than a hard failure.
func BuildCatalog(ctx context.Context, src CatalogSourceInterface, logger logging.LoggerInterface) (map[string]string, error) {
	catalog, err := src.ListLicenseCatalog(ctx)
	if err != nil {
		logger.Warnf("failed to build license catalog, license filtering degraded: %v", err)
		return map[string]string{}, err
	}
	return catalog, nil
}

type Matcher struct {
	catalog map[string]string
	include map[string]struct{}

	logger logging.LoggerInterface
}

func NewMatcher(catalog map[string]string, includeList []string, logger logging.LoggerInterface) *Matcher {
	include := make(map[string]struct{}, len(includeList))
	for _, name := range includeList {
		include[name] = struct{}{}
	}

	return &Matcher{
		catalog: catalog,
		include: include,
		logger:  logger,
	}
}

// Enabled reports whether the include-list is non-empty. An empty list
// disables license filtering entirely: every account matches.
func (m *Matcher) Enabled() bool {
	return len(m.include) > 0
}

// Matches tests the account's assigned licenses against the include-list.
// Each assigned license contributes its friendly name and its raw SKU
// identifier as match tokens; a single exact, case-sensitive token hit is
// enough.
func (m *Matcher) Matches(a *types.Account) bool {
	if !m.Enabled() {
		return true
	}

	for _, sku := range a.AssignedLicenses {
		if _, ok := m.include[sku]; ok {
			return true
		}
		if name, ok := m.catalog[sku]; ok {
			if _, ok := m.include[name]; ok {
				return true
			}
		}
	}

	return false
}

// Names maps the account's assigned SKUs to friendly names for reporting.
// Unknown SKUs are retained keyed by their raw identifier.
func (m *Matcher) Names(a *types.Account) []string {
	if len(a.AssignedLicenses) == 0 {
		return nil
	}

	names := make([]string, 0, len(a.AssignedLicenses))
	for _, sku := range a.AssignedLicenses {
		if name, ok := m.catalog[sku]; ok {
			names = append(names, name)
			continue
		}
		names = append(names, sku)
	}

	return names
}
