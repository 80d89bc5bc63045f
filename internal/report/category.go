package report

import "strings"

type categoryRule struct {
	name     string
	keywords []string
}

// Checked in order; the first rule with a matching keyword wins.
var categoryRules = []categoryRule{
	{"Furniture", []string{"furniture", "highboy", "table", "nightstand", "desk", "cabinet", "curio", "sewing", "dresser"}},
	{"Art/Prints", []string{"painting", "print", "art", "escher", "audubon"}},
	{"Pottery/China", []string{"dinnerware", "china", "porcelain", "franciscan", "belleek", "lladro", "goebel", "hummel"}},
	{"Decor/Lighting", []string{"mirror", "sconce", "lamp", "lantern"}},
	{"Glassware", []string{"glassware", "crystal", "decanter", "lenox"}},
	{"Tools/Equipment", []string{"blower", "lawnmower", "edger", "vac", "tool"}},
	{"Toys/Games", []string{"nerf", "train", "toy"}},
	{"Collectibles", []string{"cards"}},
}

// Category buckets an item name by keyword; unmatched names are "Miscellaneous".
func Category(itemName string) string {
	name := strings.ToLower(itemName)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.name
			}
		}
	}
	return "Miscellaneous"
}
