package catalog

import "github.com/earlybirddelivery/EARLYAPP-sub001/internal/domain"

// builtinEntries is the sample kirana catalog used when no catalog file is
// configured. Prices are in rupees; PricePerBaseUnit is per kg or L.
var builtinEntries = []domain.CatalogEntry{
	{ID: "rice-25kg", CanonicalName: "Rice", Aliases: []string{"चावल", "basmati"}, UnitPrice: 1650, PricePerBaseUnit: 66, Category: "grains"},
	{ID: "atta-10kg", CanonicalName: "Wheat Flour", Aliases: []string{"आटा", "atta", "gehun"}, UnitPrice: 450, PricePerBaseUnit: 45, Category: "grains"},
	{ID: "sugar-1kg", CanonicalName: "Sugar", Aliases: []string{"चीनी", "cheeni", "shakkar"}, UnitPrice: 45, PricePerBaseUnit: 45, Category: "essentials"},
	{ID: "salt-1kg", CanonicalName: "Salt", Aliases: []string{"नमक", "namak"}, UnitPrice: 28, PricePerBaseUnit: 28, Category: "essentials"},
	{ID: "toor-dal-1kg", CanonicalName: "Toor Dal", Aliases: []string{"अरहर दाल", "तूर दाल", "arhar dal"}, UnitPrice: 160, PricePerBaseUnit: 160, Category: "pulses"},
	{ID: "moong-dal-1kg", CanonicalName: "Moong Dal", Aliases: []string{"मूंग दाल"}, UnitPrice: 140, PricePerBaseUnit: 140, Category: "pulses"},
	{ID: "milk-1l", CanonicalName: "Milk", Aliases: []string{"दूध", "doodh"}, UnitPrice: 62, PricePerBaseUnit: 62, Category: "dairy"},
	{ID: "curd-500g", CanonicalName: "Curd", Aliases: []string{"दही", "dahi", "yogurt"}, UnitPrice: 35, PricePerBaseUnit: 70, Category: "dairy"},
	{ID: "ghee-1l", CanonicalName: "Ghee", Aliases: []string{"घी"}, UnitPrice: 620, PricePerBaseUnit: 620, Category: "dairy"},
	{ID: "mustard-oil-1l", CanonicalName: "Mustard Oil", Aliases: []string{"सरसों का तेल", "sarson tel"}, UnitPrice: 180, PricePerBaseUnit: 180, Category: "oils"},
	{ID: "onion-1kg", CanonicalName: "Onion", Aliases: []string{"प्याज", "pyaz"}, UnitPrice: 40, PricePerBaseUnit: 40, Category: "vegetables"},
	{ID: "potato-1kg", CanonicalName: "Potato", Aliases: []string{"आलू", "aloo"}, UnitPrice: 30, PricePerBaseUnit: 30, Category: "vegetables"},
	{ID: "tomato-1kg", CanonicalName: "Tomato", Aliases: []string{"टमाटर", "tamatar"}, UnitPrice: 35, PricePerBaseUnit: 35, Category: "vegetables"},
	{ID: "tea-250g", CanonicalName: "Tea", Aliases: []string{"चाय पत्ती", "chai patti"}, UnitPrice: 130, PricePerBaseUnit: 520, Category: "beverages"},
}

// Builtin returns the sample catalog.
func Builtin() *Static {
	s, err := NewStatic(builtinEntries)
	if err != nil {
		panic(err)
	}
	return s
}
