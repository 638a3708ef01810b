// Package models defines the core domain models for the simulation world:
// Simulation, Company and Product, plus the wizard input payloads used by
// the initialization engine.
package models

import (
	"time"
)

// SimulationStatus represents the lifecycle state of a simulation.
type SimulationStatus string

const (
	// SimulationActive is the only status produced at creation time.
	SimulationActive    SimulationStatus = "ACTIVE"
	SimulationPaused    SimulationStatus = "PAUSED"
	SimulationCompleted SimulationStatus = "COMPLETED"
)

// ProductStatus represents the lifecycle state of a product.
type ProductStatus string

const (
	ProductActive ProductStatus = "ACTIVE"
)

// ProductCategory is the market tier of a product. It drives the base
// production cost.
type ProductCategory string

const (
	CategoryBudget   ProductCategory = "budget"
	CategoryMidRange ProductCategory = "mid-range"
	CategoryPremium  ProductCategory = "premium"
)

// Simulation is a game-world instance containing companies and a period
// counter advanced by the (out of scope) tick process.
type Simulation struct {
	// ID is the unique identifier, prefixed with "sim_".
	ID string
	// Name is the simulation's display name.
	Name string
	// Description provides details about the simulation world.
	Description string
	// Status is ACTIVE for every newly created simulation.
	Status SimulationStatus
	// CurrentPeriod starts at 0 and advances each simulation tick.
	CurrentPeriod int
	// CreatedBy is the ID of the owning user.
	CreatedBy string
	// CreatedAt and UpdatedAt are equal at creation.
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Company is a user-owned economic actor within a simulation.
type Company struct {
	// ID is the unique identifier, prefixed with "company_".
	ID string
	// SimulationID references the owning simulation.
	SimulationID string
	// UserID is the player who founded the company. One company per user
	// per simulation by convention.
	UserID string
	// Name is the company's name.
	Name string
	// Description is auto-generated at founding time.
	Description string
	// CashBalance equals TotalAssets at creation; both may go negative
	// when R&D spending exceeds the starting capital.
	CashBalance      float64
	TotalAssets      float64
	TotalLiabilities float64
	// CreditRating starts at "A" for every company.
	CreditRating string
	// BrandValue starts at 50 out of 100.
	BrandValue float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Product is a company's market offering. Quality, innovation and
// sustainability ratings drive the production-cost and R&D derivations.
type Product struct {
	// ID is the unique identifier, prefixed with "prod_".
	ID string
	// CompanyID references the producing company.
	CompanyID   string
	Name        string
	Description string
	Category    ProductCategory
	// Ratings are on a 0-10 scale with half-point steps in the wizard.
	QualityRating        float64
	InnovationRating     float64
	SustainabilityRating float64
	SellingPrice         float64
	// ProductionCost is derived from the category and ratings.
	ProductionCost float64
	// DevelopmentCost is the upfront R&D cost derived from the ratings.
	DevelopmentCost    float64
	Status             ProductStatus
	InventoryLevel     int
	ProductionCapacity int
	MarketingBudget    float64
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ProductInput is the product step of the setup wizard.
type ProductInput struct {
	ProductName          string  `json:"productName"`
	Description          string  `json:"description"`
	Category             string  `json:"category"`
	QualityRating        float64 `json:"qualityRating"`
	InnovationRating     float64 `json:"innovationRating"`
	SustainabilityRating float64 `json:"sustainabilityRating"`
	SellingPrice         float64 `json:"sellingPrice"`
	// ProductionCost and RNDCost are echoed by the wizard for display but
	// recomputed server-side; the client figures are never trusted.
	ProductionCost float64 `json:"productionCost"`
	RNDCost        float64 `json:"rndCost"`
}

// WizardInput is the full three-step wizard payload submitted in a single
// initialization call.
type WizardInput struct {
	SimulationName string       `json:"simulationName"`
	Description    string       `json:"description"`
	CompanyName    string       `json:"companyName"`
	Product        ProductInput `json:"product"`
}
