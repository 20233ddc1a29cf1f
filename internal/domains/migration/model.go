package migration

import (
	"regexp"
	"sort"
	"strings"
)

// S3Result counts the outcome of a local to S3 migration.
type S3Result struct {
	Total   int `json:"total"`
	Success int `json:"success"`
	Failed  int `json:"failed"`
	Skipped int `json:"skipped"`
}

// LegacyResult counts the outcome of a legacy image import.
type LegacyResult struct {
	Path     string `json:"path"`
	Mode     Mode   `json:"mode"`
	Migrated int    `json:"migrated"`
	Skipped  int    `json:"skipped"`
	Failed   int    `json:"failed"`
}

type LegacyPathInfo struct {
	ResolvedPath string `json:"resolvedPath"`
	Configured   bool   `json:"configured"`
}

// Mode is the layout detected below a legacy base directory.
type Mode string

const (
	ModeFixtures   Mode = "fixtures"
	ModeProduction Mode = "production"
	ModeFolder     Mode = "folder"
	ModeUnknown    Mode = "unknown"
)

// FixtureImage is one <image> element of a fixture image.xml.
type FixtureImage struct {
	ID        string
	ProductID string
	Cover     bool
}

var (
	imageElement   = regexp.MustCompile(`(?i)<image\s+id="([^"]+)"\s+id_product="([^"]+)"\s+cover="([^"]*)"`)
	resizedVariant = regexp.MustCompile(`-[a-z_]+_default\.jpg$`)
)

// ParseFixtureImages extracts the image elements of a fixture file.
func ParseFixtureImages(content string) []FixtureImage {
	var out []FixtureImage
	for _, m := range imageElement.FindAllStringSubmatch(content, -1) {
		out = append(out, FixtureImage{
			ID:        m[1],
			ProductID: m[2],
			Cover:     m[3] == "1" || strings.EqualFold(m[3], "true"),
		})
	}
	return out
}

// GroupByProduct groups fixture images by product, each group sorted by
// image id. Keys are returned sorted for a stable run order.
func GroupByProduct(images []FixtureImage) (map[string][]FixtureImage, []string) {
	groups := make(map[string][]FixtureImage)
	for _, img := range images {
		groups[img.ProductID] = append(groups[img.ProductID], img)
	}

	keys := make([]string, 0, len(groups))
	for k, g := range groups {
		sort.SliceStable(g, func(i, j int) bool { return g[i].ID < g[j].ID })
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return groups, keys
}

// PickCover returns the index of the first flagged image, else 0.
func PickCover(group []FixtureImage) int {
	for i, img := range group {
		if img.Cover {
			return i
		}
	}
	return 0
}

// CandidateFiles lists the file names tried for a fixture image id, in
// order of preference.
func CandidateFiles(imageID string) []string {
	return []string{
		imageID + ".jpg",
		imageID + ".jpeg",
		imageID + ".png",
		imageID + ".webp",
		imageID + "-large_default.jpg",
		imageID + "-medium_default.jpg",
	}
}

// IsBaseImage reports whether a file of the img/p folder is an original
// .jpg rather than a resized rendition like foo-home_default.jpg.
func IsBaseImage(name string) bool {
	return strings.HasSuffix(name, ".jpg") && !resizedVariant.MatchString(name)
}
