package usecase

import (
	"strings"

	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/domain"
)

// unitAliases maps every recognized unit token, English, transliterated and
// Devanagari, to its canonical unit. Keys are lowercase.
var unitAliases = map[string]domain.Unit{
	// Kilograms
	"kg": domain.UnitKilogram, "kgs": domain.UnitKilogram, "kilo": domain.UnitKilogram,
	"kilos": domain.UnitKilogram, "kilogram": domain.UnitKilogram, "kilograms": domain.UnitKilogram,
	"किलो": domain.UnitKilogram, "किग्रा": domain.UnitKilogram, "किलोग्राम": domain.UnitKilogram,
	"केजी": domain.UnitKilogram,
	// Grams
	"g": domain.UnitGram, "gm": domain.UnitGram, "gms": domain.UnitGram, "gr": domain.UnitGram,
	"gram": domain.UnitGram, "grams": domain.UnitGram, "gramme": domain.UnitGram,
	"ग्राम": domain.UnitGram, "ग्रा": domain.UnitGram,
	// Litres
	"l": domain.UnitLitre, "lt": domain.UnitLitre, "ltr": domain.UnitLitre, "ltrs": domain.UnitLitre,
	"litre": domain.UnitLitre, "litres": domain.UnitLitre, "liter": domain.UnitLitre,
	"liters": domain.UnitLitre, "लीटर": domain.UnitLitre, "लिटर": domain.UnitLitre,
	"ली": domain.UnitLitre,
	// Millilitres
	"ml": domain.UnitMillilitre, "mls": domain.UnitMillilitre, "millilitre": domain.UnitMillilitre,
	"millilitres": domain.UnitMillilitre, "milliliter": domain.UnitMillilitre,
	"milliliters": domain.UnitMillilitre, "मिली": domain.UnitMillilitre,
	"मिलीलीटर": domain.UnitMillilitre, "एमएल": domain.UnitMillilitre,
}

// NormalizeUnit maps a recognized unit token to kg, g, L or ml. Unrecognized
// tokens pass through lowercased and trimmed.
func NormalizeUnit(token string) domain.Unit {
	key := strings.ToLower(strings.TrimSpace(token))
	if unit, ok := unitAliases[key]; ok {
		return unit
	}
	return domain.Unit(key)
}

// IsRecognizedUnit reports whether token is one of the known unit spellings.
func IsRecognizedUnit(token string) bool {
	_, ok := unitAliases[strings.ToLower(strings.TrimSpace(token))]
	return ok
}

// NormalizeQuantity converts grams to kilograms and millilitres to litres.
// Every other unit passes through with the value unchanged.
func NormalizeQuantity(value float64, unit string) domain.Quantity {
	switch u := NormalizeUnit(unit); u {
	case domain.UnitGram:
		return domain.Quantity{Value: value / 1000, Unit: domain.UnitKilogram}
	case domain.UnitMillilitre:
		return domain.Quantity{Value: value / 1000, Unit: domain.UnitLitre}
	default:
		return domain.Quantity{Value: value, Unit: u}
	}
}
