package usecase

import (
	"context"
	"log/slog"
	"strings"

	apperrors "github.com/brandwire/dispatch/internal/errors"
)

// ToolSpec describes how to locate one capability in a tenant's live
// catalog: an ordered list of exact names tried first, then a fuzzy
// predicate over the remaining tool names.
type ToolSpec struct {
	// Toolkits scopes the catalog listing.
	Toolkits []string
	// Exact is tried in order; the first name present in the catalog wins.
	Exact []string
	// Include terms must all appear in a tool name for a fuzzy match.
	Include []string
	// Exclude terms disqualify a tool name from fuzzy matching.
	Exclude []string
}

// maxSampleToolNames bounds how many catalog entries a resolution error
// lists, keeping error messages readable for large catalogs.
const maxSampleToolNames = 10

// ToolResolver locates an executable tool in a tenant's live catalog.
// Catalogs drift between aggregator releases, so exact names are preferred
// and a fuzzy term match covers renamed variants.
type ToolResolver struct {
	client CatalogClient
	logger *slog.Logger
}

// NewToolResolver creates a ToolResolver.
func NewToolResolver(client CatalogClient, logger *slog.Logger) *ToolResolver {
	return &ToolResolver{client: client, logger: logger}
}

// Resolve returns the name of the first tool matching the spec: exact
// candidates in order, then the fuzzy include/exclude predicate. When no
// tool matches, the error carries a sample of the catalog so an operator
// can see what was actually available.
func (r *ToolResolver) Resolve(ctx context.Context, tenantID string, spec ToolSpec) (string, error) {
	tools, err := r.client.ListTools(ctx, tenantID, spec.Toolkits)
	if err != nil {
		return "", err
	}

	available := make(map[string]bool, len(tools))
	names := make([]string, 0, len(tools))
	for _, tool := range tools {
		if tool.Name == "" {
			continue
		}
		available[strings.ToUpper(tool.Name)] = true
		names = append(names, tool.Name)
	}

	for _, candidate := range spec.Exact {
		if available[strings.ToUpper(candidate)] {
			return candidate, nil
		}
	}

	for _, name := range names {
		if matchesFuzzy(name, spec.Include, spec.Exclude) {
			r.logger.Debug("resolved tool by fuzzy match",
				"tenant_id", tenantID,
				"tool", name,
				"include", strings.Join(spec.Include, ","),
			)
			return name, nil
		}
	}

	return "", apperrors.Wrapf(
		apperrors.ErrCapabilityNotFound,
		"no tool matching %s in catalog of %d tools (sample: %s)",
		strings.Join(spec.Include, "+"), len(names), strings.Join(sampleNames(names), ", "),
	)
}

// matchesFuzzy reports whether name contains every include term and none of
// the exclude terms, case-insensitively.
func matchesFuzzy(name string, include, exclude []string) bool {
	if len(include) == 0 {
		return false
	}
	lowered := strings.ToLower(name)
	for _, term := range include {
		if !strings.Contains(lowered, strings.ToLower(term)) {
			return false
		}
	}
	for _, term := range exclude {
		if strings.Contains(lowered, strings.ToLower(term)) {
			return false
		}
	}
	return true
}

func sampleNames(names []string) []string {
	if len(names) <= maxSampleToolNames {
		return names
	}
	return names[:maxSampleToolNames]
}
