package usecase

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/domain"
)

// Confidence calibration constants
const (
	DefaultSourceConfidence = 0.75 // Used when the upstream engine reports none
	DefaultThreshold        = 0.75 // OCR review threshold
	VoiceThreshold          = 0.80 // Voice review threshold

	minConfidence       = 0.10
	maxConfidence       = 0.99
	noMatchCeiling      = 0.60
	recognizedUnitScale = 0.95
)

// Strategy selects which candidate wins when several catalog entries contain
// (or are contained in) the extracted name.
type Strategy string

const (
	// StrategyFirst keeps the first candidate in catalog order.
	StrategyFirst Strategy = "first"
	// StrategyBest scores every candidate and keeps the most similar one.
	StrategyBest Strategy = "best"
)

// ParseStrategy converts a configuration string into a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", StrategyFirst:
		return StrategyFirst, nil
	case StrategyBest:
		return StrategyBest, nil
	}
	return "", fmt.Errorf("unknown match strategy %q (want first or best)", s)
}

// MatchConfig holds configuration for the catalog matcher
type MatchConfig struct {
	Strategy                Strategy
	DefaultSourceConfidence float64
}

// CatalogMatcher maps noisy item names to catalog entries. It holds no state
// between calls and is safe for concurrent use.
type CatalogMatcher struct {
	strategy                Strategy
	defaultSourceConfidence float64
}

var _ domain.CatalogMatchingService = (*CatalogMatcher)(nil)

// NewCatalogMatcher creates a matcher with the given configuration
func NewCatalogMatcher(config MatchConfig) *CatalogMatcher {
	strategy := config.Strategy
	if strategy != StrategyBest {
		strategy = StrategyFirst
	}

	sourceConfidence := config.DefaultSourceConfidence
	if !validSourceConfidence(sourceConfidence) {
		sourceConfidence = DefaultSourceConfidence
	}

	return &CatalogMatcher{
		strategy:                strategy,
		defaultSourceConfidence: sourceConfidence,
	}
}

// defaultMatcher reproduces the observed first-candidate behavior.
var defaultMatcher = NewCatalogMatcher(MatchConfig{Strategy: StrategyFirst})

// Match matches item against catalog with the first-candidate strategy.
func Match(item domain.ExtractedItem, catalog []domain.CatalogEntry, threshold float64) domain.MatchResult {
	return defaultMatcher.Match(item, catalog, threshold)
}

// candidate is a catalog entry selected by substring containment together
// with the similarity of its closest name.
type candidate struct {
	entry      *domain.CatalogEntry
	similarity float64
}

// Match finds a catalog entry for item and scores the match. It never fails:
// when nothing matches, the result has a nil MatchedEntry and is flagged.
func (m *CatalogMatcher) Match(
	item domain.ExtractedItem,
	catalog []domain.CatalogEntry,
	threshold float64,
) domain.MatchResult {
	if !validThreshold(threshold) {
		threshold = DefaultThreshold
	}

	sourceConfidence := item.SourceConfidence
	if !validSourceConfidence(sourceConfidence) {
		sourceConfidence = m.defaultSourceConfidence
	}

	result := domain.MatchResult{
		Item:               item,
		NormalizedQuantity: NormalizeQuantity(item.Quantity, item.Unit),
	}

	best, ok := m.selectCandidate(foldName(item.RawName), catalog)
	if !ok {
		result.Confidence = clampConfidence(min(sourceConfidence, noMatchCeiling))
		result.Flagged = true
		return result
	}

	confidence := sourceConfidence * best.similarity
	if IsRecognizedUnit(item.Unit) {
		confidence *= recognizedUnitScale
	}

	entry := *best.entry
	result.MatchedEntry = &entry
	result.Confidence = clampConfidence(confidence)
	result.Flagged = result.Confidence < threshold
	return result
}

// selectCandidate scans the catalog in order. Under StrategyFirst the first
// containment hit is returned; under StrategyBest the scan continues and the
// highest similarity wins, ties going to the earlier entry.
func (m *CatalogMatcher) selectCandidate(name string, catalog []domain.CatalogEntry) (candidate, bool) {
	if name == "" {
		return candidate{}, false
	}

	var best candidate
	found := false

	for i := range catalog {
		similarity, ok := containmentSimilarity(name, &catalog[i])
		if !ok {
			continue
		}
		if m.strategy == StrategyFirst {
			return candidate{entry: &catalog[i], similarity: similarity}, true
		}
		if !found || similarity > best.similarity {
			best = candidate{entry: &catalog[i], similarity: similarity}
			found = true
		}
	}

	return best, found
}

// containmentSimilarity reports whether name and any of the entry's names
// contain one another. The similarity is taken against the closest of the
// entry's names, so a hit through an alias is scored against that alias.
func containmentSimilarity(name string, entry *domain.CatalogEntry) (float64, bool) {
	contained := false
	similarity := 0.0

	for _, candidateName := range entry.Names() {
		folded := foldName(candidateName)
		if folded == "" {
			continue
		}
		if strings.Contains(folded, name) || strings.Contains(name, folded) {
			contained = true
		}
		similarity = max(similarity, NameSimilarity(name, folded))
	}

	return similarity, contained
}

// foldName case-folds and NFC-normalizes a name so Devanagari written with
// decomposed marks compares equal to its composed form.
func foldName(s string) string {
	return norm.NFC.String(cases.Fold().String(strings.TrimSpace(s)))
}

// validSourceConfidence reports whether c lies in (0, 1]. NaN does not.
func validSourceConfidence(c float64) bool {
	return !math.IsNaN(c) && c > 0 && c <= 1
}

// validThreshold reports whether t lies in (0, 1). NaN does not.
func validThreshold(t float64) bool {
	return !math.IsNaN(t) && t > 0 && t < 1
}

func clampConfidence(c float64) float64 {
	return min(max(c, minConfidence), maxConfidence)
}
