package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Unit is a measurement unit token. The four canonical units are declared
// below; any other value is a pass-through token that was not recognized.
type Unit string

const (
	UnitKilogram   Unit = "kg"
	UnitGram       Unit = "g"
	UnitLitre      Unit = "L"
	UnitMillilitre Unit = "ml"
)

// IsCanonical reports whether u is one of kg, g, L or ml.
func (u Unit) IsCanonical() bool {
	switch u {
	case UnitKilogram, UnitGram, UnitLitre, UnitMillilitre:
		return true
	}
	return false
}

// Quantity is a normalized amount. It is only rendered as text at the
// boundary, via String or the "display" JSON field.
type Quantity struct {
	Value float64
	Unit  Unit
}

// String formats the quantity as "<value> <unit>", e.g. "2.5 kg".
func (q Quantity) String() string {
	value := strconv.FormatFloat(q.Value, 'f', -1, 64)
	if q.Unit == "" {
		return value
	}
	return value + " " + string(q.Unit)
}

// MarshalJSON emits the structured value alongside its display form.
func (q Quantity) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Value   float64 `json:"value"`
		Unit    Unit    `json:"unit"`
		Display string  `json:"display"`
	}{q.Value, q.Unit, q.String()})
}

// Source identifies the upstream engine that produced extracted items.
type Source string

const (
	SourceVoice  Source = "voice"
	SourceOCR    Source = "ocr"
	SourceManual Source = "manual"
)

// Valid reports whether s is a known source.
func (s Source) Valid() bool {
	switch s {
	case SourceVoice, SourceOCR, SourceManual:
		return true
	}
	return false
}

// ExtractedItem is one noisy {name, quantity, unit} triple produced by an
// upstream tokenizer. SourceConfidence outside (0,1] means the engine did
// not report one.
type ExtractedItem struct {
	RawName          string  `json:"name"`
	Quantity         float64 `json:"quantity"`
	Unit             string  `json:"unit"`
	SourceConfidence float64 `json:"sourceConfidence,omitempty"`
}

// UnmarshalJSON accepts the quantity either as a JSON number or as the
// string the speech and OCR tokenizers emit, e.g. "25" or "2.5". An empty
// string or null leaves the quantity at zero.
func (i *ExtractedItem) UnmarshalJSON(data []byte) error {
	type plain ExtractedItem
	aux := struct {
		*plain
		Quantity json.RawMessage `json:"quantity"`
	}{plain: (*plain)(i)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	quantity, err := parseQuantity(aux.Quantity)
	if err != nil {
		return err
	}
	i.Quantity = quantity
	return nil
}

func parseQuantity(raw json.RawMessage) (float64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, nil
	}

	if raw[0] != '"' {
		var value float64
		if err := json.Unmarshal(raw, &value); err != nil {
			return 0, fmt.Errorf("quantity: %w", err)
		}
		return value, nil
	}

	var text string
	if err := json.Unmarshal(raw, &text); err != nil {
		return 0, fmt.Errorf("quantity: %w", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	value, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("quantity: %q is not a number", text)
	}
	return value, nil
}

// MatchResult is the outcome of one match attempt. A nil MatchedEntry means
// no catalog candidate was found; that is a normal result, not an error.
type MatchResult struct {
	Item               ExtractedItem `json:"extractedItem"`
	MatchedEntry       *CatalogEntry `json:"matchedEntry"`
	NormalizedQuantity Quantity      `json:"normalizedQuantity"`
	Confidence         float64       `json:"confidence"`
	Flagged            bool          `json:"flagged"`
}

// Matched reports whether a catalog entry was selected.
func (r MatchResult) Matched() bool {
	return r.MatchedEntry != nil
}

// MatchRequest asks for a batch of extracted items to be matched.
type MatchRequest struct {
	SessionID string          `json:"sessionId,omitempty"`
	Source    Source          `json:"source" binding:"required"`
	Items     []ExtractedItem `json:"items" binding:"required"`
}

// TextMatchRequest carries raw transcript or OCR text to be tokenized and matched.
type TextMatchRequest struct {
	SessionID        string  `json:"sessionId,omitempty"`
	Source           Source  `json:"source" binding:"required"`
	Text             string  `json:"text" binding:"required"`
	SourceConfidence float64 `json:"sourceConfidence,omitempty"`
}

// MatchSession groups the results of one ingestion batch so a reviewer can
// come back to the flagged ones.
type MatchSession struct {
	ID                string        `json:"id"`
	Source            Source        `json:"source"`
	Threshold         float64       `json:"threshold"`
	Results           []MatchResult `json:"results"`
	AverageConfidence float64       `json:"averageConfidence"`
	MatchedCount      int           `json:"matchedCount"`
	FlaggedCount      int           `json:"flaggedCount"`
	CreatedAt         time.Time     `json:"createdAt"`
}
