package models

import "strings"

// Category is one of the fixed grocery categories.
type Category string

const (
	CategoryFruitsVegetables Category = "Fruits & Vegetables"
	CategoryDairyEggs        Category = "Dairy & Eggs"
	CategoryMeatSeafood      Category = "Meat & Seafood"
	CategoryBakery           Category = "Bakery"
	CategoryPantryStaples    Category = "Pantry Staples"
	CategoryBeverages        Category = "Beverages"
	CategorySnacks           Category = "Snacks"
	CategoryFrozenFoods      Category = "Frozen Foods"
	CategoryPersonalCare     Category = "Personal Care"
	CategoryHousehold        Category = "Household Items"
	CategoryBabyProducts     Category = "Baby Products"
	CategoryPetSupplies      Category = "Pet Supplies"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryFruitsVegetables,
	CategoryDairyEggs,
	CategoryMeatSeafood,
	CategoryBakery,
	CategoryPantryStaples,
	CategoryBeverages,
	CategorySnacks,
	CategoryFrozenFoods,
	CategoryPersonalCare,
	CategoryHousehold,
	CategoryBabyProducts,
	CategoryPetSupplies,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory matches s against the known categories ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	for _, known := range Categories {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}

// Unit is the measure a quantity is expressed in.
type Unit string

const (
	UnitPieces  Unit = "pieces"
	UnitKg      Unit = "kg"
	UnitLbs     Unit = "lbs"
	UnitLiters  Unit = "liters"
	UnitGallons Unit = "gallons"
	UnitBoxes   Unit = "boxes"
	UnitBottles Unit = "bottles"
)

var Units = []Unit{UnitPieces, UnitKg, UnitLbs, UnitLiters, UnitGallons, UnitBoxes, UnitBottles}

func (u Unit) Valid() bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

func ParseUnit(s string) (Unit, bool) {
	s = strings.TrimSpace(s)
	for _, known := range Units {
		if strings.EqualFold(s, string(known)) {
			return known, true
		}
	}
	return "", false
}
