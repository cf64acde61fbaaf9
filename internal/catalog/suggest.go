// Package catalog guesses a category for a free-text item name.
package catalog

import (
	"strings"

	"github.com/dmitrijs2005/grocer/internal/models"
)

type rule struct {
	keywords []string
	category models.Category
}

// Rules are checked in order; the first rule with a keyword contained in the
// name wins. More specific words come before generic ones ("ice cream" before
// "cream", "dog food" before "food").
var rules = []rule{
	{[]string{"ice cream", "frozen", "popsicle", "fish sticks"}, models.CategoryFrozenFoods},
	{[]string{"dog food", "cat food", "cat litter", "kibble", "pet "}, models.CategoryPetSupplies},
	{[]string{"diaper", "baby", "formula", "wipes"}, models.CategoryBabyProducts},
	{[]string{"shampoo", "soap", "toothpaste", "toothbrush", "deodorant", "lotion", "razor"}, models.CategoryPersonalCare},
	{[]string{"detergent", "paper towel", "toilet paper", "trash bag", "sponge", "bleach", "cleaner", "foil"}, models.CategoryHousehold},
	{[]string{"milk", "cheese", "yogurt", "butter", "egg", "cream"}, models.CategoryDairyEggs},
	{[]string{"chicken", "beef", "pork", "fish", "salmon", "tuna", "shrimp", "turkey", "bacon", "sausage", "meat"}, models.CategoryMeatSeafood},
	{[]string{"bread", "bagel", "croissant", "muffin", "cake", "bun", "roll"}, models.CategoryBakery},
	{[]string{"apple", "banana", "orange", "grape", "berry", "berries", "lemon", "tomato", "potato", "onion", "carrot", "lettuce", "spinach", "broccoli", "pepper", "avocado", "fruit", "vegetable"}, models.CategoryFruitsVegetables},
	{[]string{"coffee", "tea", "juice", "soda", "water", "beer", "wine"}, models.CategoryBeverages},
	{[]string{"chips", "cookie", "cracker", "chocolate", "candy", "popcorn", "pretzel", "nuts"}, models.CategorySnacks},
	{[]string{"rice", "pasta", "flour", "sugar", "salt", "oil", "cereal", "beans", "sauce", "spice", "honey"}, models.CategoryPantryStaples},
}

// SuggestCategory returns the category whose keywords match name, or false
// when nothing matches.
func SuggestCategory(name string) (models.Category, bool) {
	n := " " + strings.ToLower(strings.TrimSpace(name)) + " "
	for _, r := range rules {
		for _, kw := range r.keywords {
			if strings.Contains(n, kw) {
				return r.category, true
			}
		}
	}
	return "", false
}
