package dto

import (
	"sort"
	"strings"

	"github.com/brandwire/dispatch/internal/catalog/domain"
)

// ClassifyPlatform labels a connection with the first platform whose
// keywords appear in the connection's identification fields. Platforms are
// checked in name order so classification is deterministic.
func ClassifyPlatform(conn *domain.Connection, keywordsByPlatform map[string][]string) string {
	haystack := conn.Haystack()

	platforms := make([]string, 0, len(keywordsByPlatform))
	for platform := range keywordsByPlatform {
		platforms = append(platforms, platform)
	}
	sort.Strings(platforms)

	for _, platform := range platforms {
		for _, keyword := range keywordsByPlatform[platform] {
			if strings.Contains(haystack, strings.ToLower(keyword)) {
				return platform
			}
		}
	}
	return ""
}
