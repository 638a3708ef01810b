// Package models contains the database rows for the simulation world,
// configured to work using GORM as the ORM, plus converters to and from
// the domain models.
package models

import (
	"time"

	"github.com/ecosim/bizworld/internal/simulation/models"
)

// Simulation represents a simulation row in the database.
type Simulation struct {
	ID            string `gorm:"primaryKey;size:64"`
	Name          string `gorm:"size:255;not null"`
	Description   string `gorm:"size:3000"`
	Status        string `gorm:"size:16;not null"`
	CurrentPeriod int    `gorm:"not null;default:0"`
	CreatedBy     string `gorm:"size:64;index"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Company represents a company row in the database.
type Company struct {
	ID               string `gorm:"primaryKey;size:64"`
	SimulationID     string `gorm:"size:64;index"`
	UserID           string `gorm:"size:64;index"`
	Name             string `gorm:"size:255;not null"`
	Description      string `gorm:"size:3000"`
	CashBalance      float64
	TotalAssets      float64
	TotalLiabilities float64
	CreditRating     string `gorm:"size:8"`
	BrandValue       float64
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Product represents a product row in the database.
type Product struct {
	ID                   string `gorm:"primaryKey;size:64"`
	CompanyID            string `gorm:"size:64;index"`
	Name                 string `gorm:"size:255;not null"`
	Description          string `gorm:"size:3000"`
	Category             string `gorm:"size:32"`
	QualityRating        float64
	InnovationRating     float64
	SustainabilityRating float64
	SellingPrice         float64
	ProductionCost       float64
	DevelopmentCost      float64
	Status               string `gorm:"size:16;not null"`
	InventoryLevel       int
	ProductionCapacity   int
	MarketingBudget      float64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// FromSimulation converts a domain simulation into its database row.
func FromSimulation(s *models.Simulation) *Simulation {
	return &Simulation{
		ID:            s.ID,
		Name:          s.Name,
		Description:   s.Description,
		Status:        string(s.Status),
		CurrentPeriod: s.CurrentPeriod,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// ToDomain converts a simulation row back into the domain model.
func (s *Simulation) ToDomain() *models.Simulation {
	return &models.Simulation{
		ID:            s.ID,
		Name:          s.Name,
		Description:   s.Description,
		Status:        models.SimulationStatus(s.Status),
		CurrentPeriod: s.CurrentPeriod,
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

// FromCompany converts a domain company into its database row.
func FromCompany(c *models.Company) *Company {
	return &Company{
		ID:               c.ID,
		SimulationID:     c.SimulationID,
		UserID:           c.UserID,
		Name:             c.Name,
		Description:      c.Description,
		CashBalance:      c.CashBalance,
		TotalAssets:      c.TotalAssets,
		TotalLiabilities: c.TotalLiabilities,
		CreditRating:     c.CreditRating,
		BrandValue:       c.BrandValue,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// ToDomain converts a company row back into the domain model.
func (c *Company) ToDomain() *models.Company {
	return &models.Company{
		ID:               c.ID,
		SimulationID:     c.SimulationID,
		UserID:           c.UserID,
		Name:             c.Name,
		Description:      c.Description,
		CashBalance:      c.CashBalance,
		TotalAssets:      c.TotalAssets,
		TotalLiabilities: c.TotalLiabilities,
		CreditRating:     c.CreditRating,
		BrandValue:       c.BrandValue,
		CreatedAt:        c.CreatedAt,
		UpdatedAt:        c.UpdatedAt,
	}
}

// FromProduct converts a domain product into its database row.
func FromProduct(p *models.Product) *Product {
	return &Product{
		ID:                   p.ID,
		CompanyID:            p.CompanyID,
		Name:                 p.Name,
		Description:          p.Description,
		Category:             string(p.Category),
		QualityRating:        p.QualityRating,
		InnovationRating:     p.InnovationRating,
		SustainabilityRating: p.SustainabilityRating,
		SellingPrice:         p.SellingPrice,
		ProductionCost:       p.ProductionCost,
		DevelopmentCost:      p.DevelopmentCost,
		Status:               string(p.Status),
		InventoryLevel:       p.InventoryLevel,
		ProductionCapacity:   p.ProductionCapacity,
		MarketingBudget:      p.MarketingBudget,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

// ToDomain converts a product row back into the domain model.
func (p *Product) ToDomain() *models.Product {
	return &models.Product{
		ID:                   p.ID,
		CompanyID:            p.CompanyID,
		Name:                 p.Name,
		Description:          p.Description,
		Category:             models.ProductCategory(p.Category),
		QualityRating:        p.QualityRating,
		InnovationRating:     p.InnovationRating,
		SustainabilityRating: p.SustainabilityRating,
		SellingPrice:         p.SellingPrice,
		ProductionCost:       p.ProductionCost,
		DevelopmentCost:      p.DevelopmentCost,
		Status:               models.ProductStatus(p.Status),
		InventoryLevel:       p.InventoryLevel,
		ProductionCapacity:   p.ProductionCapacity,
		MarketingBudget:      p.MarketingBudget,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}
