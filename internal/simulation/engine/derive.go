package engine

import (
	"github.com/ecosim/bizworld/internal/simulation/models"
)

// StartingCapital is the capital every company is founded with before the
// upfront R&D spend is deducted.
const StartingCapital = 1_000_000

// Fixed starting values for a newly founded company.
const (
	InitialCreditRating = "A"
	InitialBrandValue   = 50
)

// Fixed starting values for a newly configured product.
const (
	InitialProductionCapacity = 2000
)

// BaseCost returns the per-unit base production cost for a category.
// Anything outside the premium/mid-range tiers costs the budget rate.
func BaseCost(category models.ProductCategory) float64 {
	switch category {
	case models.CategoryPremium:
		return 50
	case models.CategoryMidRange:
		return 30
	default:
		return 15
	}
}

// ProductionCost derives the per-unit production cost from the category
// base cost and the three product ratings.
func ProductionCost(category models.ProductCategory, quality, innovation, sustainability float64) float64 {
	return BaseCost(category) + quality*10 + innovation*5 + sustainability*3
}

// RNDCost derives the upfront research and development spend from the
// three product ratings.
func RNDCost(quality, innovation, sustainability float64) float64 {
	return quality*10000 + innovation*15000 + sustainability*8000
}

// StartingCash returns the founding cash balance after the R&D spend.
// There is no floor: an extreme rating combination can drive it negative,
// and the company is founded in debt rather than rejected.
func StartingCash(rndCost float64) float64 {
	return StartingCapital - rndCost
}

// NormalizeCategory maps a raw wizard category onto the enumerated set.
// Unknown or empty values fall back to the budget tier, whose base cost
// matches the historical cost-table fallback.
func NormalizeCategory(raw string) (models.ProductCategory, bool) {
	switch models.ProductCategory(raw) {
	case models.CategoryBudget, models.CategoryMidRange, models.CategoryPremium:
		return models.ProductCategory(raw), true
	default:
		return models.CategoryBudget, false
	}
}
