package usecase

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/earlybirddelivery/EARLYAPP-sub001/internal/domain"
)

func TestItemParserParse(t *testing.T) {
	p := NewItemParser(nil, false)

	testCases := []struct {
		name string
		text string
		want []domain.ExtractedItem
	}{
		{
			name: "single item with unit",
			text: "25 kg rice",
			want: []domain.ExtractedItem{{RawName: "rice", Quantity: 25, Unit: "kg", SourceConfidence: 0.9}},
		},
		{
			name: "spoken Hinglish order",
			text: "mujhe 2 kg aloo aur 500 ml doodh chahiye",
			want: []domain.ExtractedItem{
				{RawName: "aloo", Quantity: 2, Unit: "kg", SourceConfidence: 0.9},
				{RawName: "doodh", Quantity: 500, Unit: "ml", SourceConfidence: 0.9},
			},
		},
		{
			name: "Devanagari with Devanagari digits",
			text: "चावल २५ किलो और दूध २ लीटर",
			want: []domain.ExtractedItem{
				{RawName: "चावल", Quantity: 25, Unit: "किलो", SourceConfidence: 0.9},
				{RawName: "दूध", Quantity: 2, Unit: "लीटर", SourceConfidence: 0.9},
			},
		},
		{
			name: "OCR receipt lines with prices",
			text: "Sugar 1kg 45\nToor Dal 2 kg ₹320\nSalt",
			want: []domain.ExtractedItem{
				{RawName: "Sugar", Quantity: 1, Unit: "kg", SourceConfidence: 0.9},
				{RawName: "Toor Dal", Quantity: 2, Unit: "kg", SourceConfidence: 0.9},
				{RawName: "Salt", Quantity: 1, SourceConfidence: 0.9},
			},
		},
		{
			name: "comma separated list",
			text: "please add 500g tea, 1.5 l mustard oil; 3 onion",
			want: []domain.ExtractedItem{
				{RawName: "tea", Quantity: 500, Unit: "g", SourceConfidence: 0.9},
				{RawName: "mustard oil", Quantity: 1.5, Unit: "l", SourceConfidence: 0.9},
				{RawName: "onion", Quantity: 3, SourceConfidence: 0.9},
			},
		},
		{
			name: "price written after a separate rupee word",
			text: "Rice Rs 50",
			want: []domain.ExtractedItem{{RawName: "Rice", Quantity: 1, SourceConfidence: 0.9}},
		},
		{
			name: "price written after a separate rupee sign",
			text: "Sugar ₹ 45",
			want: []domain.ExtractedItem{{RawName: "Sugar", Quantity: 1, SourceConfidence: 0.9}},
		},
		{
			name: "quantity kept when the price follows it",
			text: "2 kg Toor Dal Rs. 320",
			want: []domain.ExtractedItem{{RawName: "Toor Dal", Quantity: 2, Unit: "kg", SourceConfidence: 0.9}},
		},
		{
			name: "price before the quantity",
			text: "INR 28 Salt 1 kg",
			want: []domain.ExtractedItem{{RawName: "Salt", Quantity: 1, Unit: "kg", SourceConfidence: 0.9}},
		},
		{
			name: "unknown unit stays in the name",
			text: "2 packet biscuit",
			want: []domain.ExtractedItem{{RawName: "packet biscuit", Quantity: 2, SourceConfidence: 0.9}},
		},
		{
			name: "words that parse as floats stay names",
			text: "4 naan",
			want: []domain.ExtractedItem{{RawName: "naan", Quantity: 4, SourceConfidence: 0.9}},
		},
		{
			name: "segments without a name are dropped",
			text: "please, 5 kg, , mujhe chahiye",
			want: nil,
		},
		{
			name: "empty text",
			text: "   ",
			want: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := p.Parse(tc.text, 0.9)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tc.text, diff)
			}
		})
	}
}

func TestItemParserDebugLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)

	t.Run("logs each item when enabled", func(t *testing.T) {
		p := NewItemParser(zap.New(core), true)
		p.Parse("1 kg rice, 2 kg sugar", 0.8)

		entries := logs.FilterMessage("parsed item").All()
		if len(entries) != 2 {
			t.Fatalf("logged %d entries, want 2", len(entries))
		}
		if got := entries[0].ContextMap()["name"]; got != "rice" {
			t.Errorf("name = %v, want rice", got)
		}
	})

	t.Run("is silent when disabled", func(t *testing.T) {
		logs.TakeAll()
		p := NewItemParser(zap.New(core), false)
		p.Parse("1 kg rice", 0.8)

		if logs.Len() != 0 {
			t.Errorf("logged %d entries, want 0", logs.Len())
		}
	})
}
