package advisor

import "time"

var seasonalTips = map[time.Month]string{
	time.January:   "Winter produce: Root vegetables, citrus fruits, and hearty greens are in season and typically cheaper.",
	time.February:  "Winter produce: Root vegetables, citrus fruits, and hearty greens are in season and typically cheaper.",
	time.March:     "Spring produce: Asparagus, artichokes, and spring onions are coming into season.",
	time.April:     "Spring produce: Fresh herbs, lettuce, and early berries are at their best.",
	time.May:       "Spring to summer: Strawberries, rhubarb, and spring vegetables are in peak season.",
	time.June:      "Summer produce: Berries, stone fruits, and summer squash are in season and affordable.",
	time.July:      "Peak summer: Tomatoes, corn, and summer fruits are at their best and cheapest.",
	time.August:    "Late summer: Peaches, plums, and summer vegetables are still in season.",
	time.September: "Fall harvest: Apples, pears, and root vegetables are coming into season.",
	time.October:   "Fall produce: Pumpkins, squash, and late-season fruits are at their peak.",
	time.November:  "Late fall: Cranberries, sweet potatoes, and winter squash are in season.",
	time.December:  "Winter produce: Citrus fruits and hearty vegetables are in peak season.",
}

// DefaultSeasonalTip is returned for a month outside 1..12.
const DefaultSeasonalTip = "Check what's in season for better prices!"

func SeasonalTip(month time.Month) string {
	if tip, ok := seasonalTips[month]; ok {
		return tip
	}
	return DefaultSeasonalTip
}
