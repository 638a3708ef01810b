package handlers

import (
	"time"

	"github.com/ecosim/bizworld/internal/simulation/models"
)

// simulationResponse is the wire representation of a simulation.
type simulationResponse struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	CurrentPeriod int       `json:"currentPeriod"`
	Status        string    `json:"status"`
	CreatedBy     string    `json:"createdBy"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// companyResponse is the wire representation of a company.
type companyResponse struct {
	ID               string    `json:"id"`
	SimulationID     string    `json:"simulationId"`
	UserID           string    `json:"userId"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	CashBalance      float64   `json:"cashBalance"`
	TotalAssets      float64   `json:"totalAssets"`
	TotalLiabilities float64   `json:"totalLiabilities"`
	CreditRating     string    `json:"creditRating"`
	BrandValue       float64   `json:"brandValue"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func toSimulationResponse(s *models.Simulation) simulationResponse {
	return simulationResponse{
		ID:            s.ID,
		Name:          s.Name,
		Description:   s.Description,
		CurrentPeriod: s.CurrentPeriod,
		Status:        string(s.Status),
		CreatedBy:     s.CreatedBy,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}

func toSimulationResponses(simulations []*models.Simulation) []simulationResponse {
	out := make([]simulationResponse, 0, len(simulations))
	for _, s := range simulations {
		out = append(out, toSimulationResponse(s))
	}
	return out
}

func toCompanyResponse(c *models.Company) companyResponse {
	return companyResponse{
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

func toCompanyResponses(companies []*models.Company) []companyResponse {
	out := make([]companyResponse, 0, len(companies))
	for _, c := range companies {
		out = append(out, toCompanyResponse(c))
	}
	return out
}
