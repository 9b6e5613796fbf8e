package usecase

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/domain"
)

// Compiled regex patterns for item parsing
var (
	// Splits a transcript or OCR block into one segment per item
	segmentSeparatorPattern = regexp.MustCompile(`(?i)[\n\r,;।]+|\s+(?:and|aur|और|तथा)\s+`)

	// Matches a plain decimal quantity
	numberPattern = regexp.MustCompile(`^\d+(?:\.\d+)?$`)

	// Matches a number glued to a unit token, e.g. "5kg", "500ग्राम", "1.5l"
	gluedQuantityPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)([\p{L}\p{M}]+)$`)

	// Matches currency-prefixed amounts left behind by receipt OCR
	pricePattern = regexp.MustCompile(`(?i)^(?:₹|rs\.?|inr)\d*(?:\.\d+)?$`)

	// Matches a bare currency marker whose amount is the next word, e.g. "Rs 50"
	currencyPattern = regexp.MustCompile(`(?i)^(?:₹|rs\.?|inr)$`)
)

// fillerWords are spoken or printed words that never belong to an item name
var fillerWords = map[string]bool{
	// English
	"please": true, "add": true, "order": true, "need": true, "want": true,
	"buy": true, "get": true, "send": true, "me": true, "i": true,
	"of": true, "some": true, "the": true, "a": true, "an": true,
	"also": true, "qty": true, "quantity": true, "x": true,

	// Transliterated Hindi
	"mujhe": true, "chahiye": true, "bhejo": true, "dena": true, "lana": true,
	"bhi": true, "kripya": true,

	// Devanagari
	"मुझे": true, "चाहिए": true, "भेजो": true, "देना": true, "लाना": true,
	"भी": true, "कृपया": true,
}

// devanagariDigits maps Devanagari numerals to ASCII
var devanagariDigits = strings.NewReplacer(
	"०", "0", "१", "1", "२", "2", "३", "3", "४", "4",
	"५", "5", "६", "6", "७", "7", "८", "8", "९", "9",
)

// ItemParser turns raw speech transcripts and OCR text into extracted items
type ItemParser struct {
	logger             *zap.Logger
	enableDebugLogging bool
}

// NewItemParser creates a new item parser
func NewItemParser(logger *zap.Logger, enableDebugLogging bool) *ItemParser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ItemParser{
		logger:             logger,
		enableDebugLogging: enableDebugLogging,
	}
}

// Parse splits text into segments and extracts one item per segment.
// Segments without a name are dropped. Quantity defaults to 1 and unit to
// empty when the segment does not state them.
func (p *ItemParser) Parse(text string, sourceConfidence float64) []domain.ExtractedItem {
	text = devanagariDigits.Replace(text)

	var items []domain.ExtractedItem
	for _, segment := range segmentSeparatorPattern.Split(text, -1) {
		item, ok := parseSegment(segment)
		if !ok {
			continue
		}
		item.SourceConfidence = sourceConfidence
		items = append(items, item)

		if p.enableDebugLogging {
			p.logger.Debug("parsed item",
				zap.String("segment", strings.TrimSpace(segment)),
				zap.String("name", item.RawName),
				zap.Float64("quantity", item.Quantity),
				zap.String("unit", item.Unit))
		}
	}

	return items
}

// parseSegment extracts a single item. The first number is the quantity and
// a recognized unit directly after it is the unit; later bare numbers are
// taken to be prices and dropped, as is the number after a currency marker.
func parseSegment(segment string) (domain.ExtractedItem, bool) {
	words := strings.Fields(segment)

	item := domain.ExtractedItem{}
	haveQuantity := false
	skipAmount := false
	var nameWords []string

	for i := 0; i < len(words); i++ {
		word := strings.Trim(words[i], ".,!?;:-'\"()[]")
		if word == "" {
			continue
		}
		if currencyPattern.MatchString(word) {
			skipAmount = true
			continue
		}
		if skipAmount {
			skipAmount = false
			if numberPattern.MatchString(word) {
				continue
			}
		}
		if pricePattern.MatchString(word) {
			continue
		}

		if numberPattern.MatchString(word) {
			if haveQuantity {
				continue
			}
			item.Quantity, _ = strconv.ParseFloat(word, 64)
			haveQuantity = true
			if i+1 < len(words) {
				next := strings.Trim(words[i+1], ".,!?;:-'\"()[]")
				if IsRecognizedUnit(next) {
					item.Unit = next
					i++
				}
			}
			continue
		}

		if m := gluedQuantityPattern.FindStringSubmatch(word); m != nil && IsRecognizedUnit(m[2]) {
			if !haveQuantity {
				value, _ := strconv.ParseFloat(m[1], 64)
				item.Quantity = value
				item.Unit = m[2]
				haveQuantity = true
			}
			continue
		}

		if fillerWords[strings.ToLower(word)] {
			continue
		}
		nameWords = append(nameWords, word)
	}

	item.RawName = strings.Join(nameWords, " ")
	if item.RawName == "" {
		return domain.ExtractedItem{}, false
	}
	if !haveQuantity {
		item.Quantity = 1
	}
	return item, true
}
