package dataset

import (
	"regexp"
	"strings"

	"github.com/CIRA18-HUB/sales-dashboard/internal/config"
	"github.com/CIRA18-HUB/sales-dashboard/internal/models"
)

// numericTokens matches size fragments like "250", "45G", "1.5" piecewise so
// they can be stripped from simplified names.
var numericTokens = regexp.MustCompile(`[0-9]+[0-9A-Za-z_]*\s*`)

// Normalizer derives display names and packaging types from catalog product
// names. All behavior is table-driven from AnalysisConfig.
type Normalizer struct {
	marker   string
	suffixes []string
	rules    []config.KeywordRule
}

func NewNormalizer(cfg config.AnalysisConfig) *Normalizer {
	return &Normalizer{
		marker:   cfg.NameMarker,
		suffixes: cfg.NameSuffixes,
		rules:    cfg.PackagingKeywords,
	}
}

// DisplayName shortens a catalog name to its core part and appends the
// product code in parentheses so the result is unique within a dataset.
// Names that already carry the " (CODE)" suffix pass through unchanged,
// which makes the function idempotent. When the marker is absent the
// product code itself is returned.
func (n *Normalizer) DisplayName(code, name string) string {
	if strings.HasSuffix(name, " ("+code+")") {
		return name
	}

	_, rest, found := strings.Cut(name, n.marker)
	if !found {
		return code
	}

	core, _, _ := strings.Cut(rest, "-")
	core = strings.TrimSpace(core)

	// First matching suffix wins.
	for _, suffix := range n.suffixes {
		if i := strings.Index(core, suffix); i >= 0 {
			core = core[:i]
			break
		}
	}

	core = strings.TrimSpace(numericTokens.ReplaceAllString(core, ""))

	return core + " (" + code + ")"
}

// Packaging classifies a catalog name by the first matching keyword rule.
func (n *Normalizer) Packaging(name string) models.PackagingType {
	for _, rule := range n.rules {
		if strings.Contains(name, rule.Keyword) {
			switch rule.Type {
			case "bag":
				return models.PackagingBag
			case "box":
				return models.PackagingBox
			case "pouch":
				return models.PackagingPouch
			case "mini-pack":
				return models.PackagingMiniPack
			case "share-pack":
				return models.PackagingSharePack
			default:
				return models.PackagingOther
			}
		}
	}
	return models.PackagingOther
}
