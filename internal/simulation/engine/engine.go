// Package engine implements the core business logic (service layer) for
// the simulation world: the initialization workflow that turns wizard
// input into persisted Simulation, Company and Product records, plus the
// read paths backing the dashboard.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecosim/bizworld/internal/simulation/db"
	e "github.com/ecosim/bizworld/internal/simulation/errors"
	"github.com/ecosim/bizworld/internal/simulation/events"
	"github.com/ecosim/bizworld/internal/simulation/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventProducer interface {
	Produce(eventType events.EventType, key string, payload any)
}

// Repository defines the storage interface for simulation world objects.
type Repository interface {
	CreateSimulation(ctx context.Context, simulation *models.Simulation) error
	CreateCompany(ctx context.Context, company *models.Company) error
	CreateProduct(ctx context.Context, product *models.Product) error
	GetSimulation(ctx context.Context, id string) (*models.Simulation, error)
	GetSimulationsByUser(ctx context.Context, userID string) ([]*models.Simulation, error)
	GetCompaniesBySimulation(ctx context.Context, simulationID string) ([]*models.Company, error)
	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
	Close() error
}

// Engine provides the simulation initialization workflow on top of a
// repository and an event producer.
type Engine struct {
	repo     Repository
	producer EventProducer
	logger   *zap.Logger
	now      func() time.Time
	newID    func(prefix string) string
}

// Option overrides an injected capability of the Engine.
type Option func(*Engine)

// WithClock replaces the engine's time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator replaces the engine's identity generator. The generator
// must stay collision-free under concurrent calls.
func WithIDGenerator(newID func(prefix string) string) Option {
	return func(e *Engine) { e.newID = newID }
}

// NewEngine constructs an Engine with a repository, an event producer,
// and a logger. By default IDs are an entity prefix joined to a UUID, so
// concurrent initializations can never collide.
func NewEngine(repo Repository, producer EventProducer, logger *zap.Logger, opts ...Option) *Engine {
	eng := &Engine{
		repo:     repo,
		producer: producer,
		logger:   logger.Named("simulation_engine"),
		now:      time.Now,
		newID: func(prefix string) string {
			return prefix + "_" + uuid.NewString()
		},
	}
	for _, opt := range opts {
		opt(eng)
	}
	return eng
}

// InitializeFullSimulation creates a simulation, founds the user's company
// inside it, and configures the company's initial product, all inside a
// single transaction. Financial fields are derived server-side from the
// wizard ratings; figures echoed by the client are ignored.
func (eng *Engine) InitializeFullSimulation(ctx context.Context, userID string, input *models.WizardInput) (*models.Simulation, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user ID", e.ErrInvalidInput)
	}
	if input == nil {
		return nil, fmt.Errorf("%w: missing wizard payload", e.ErrInvalidInput)
	}
	if input.SimulationName == "" {
		return nil, fmt.Errorf("%w: simulation name is required", e.ErrInvalidInput)
	}
	if input.Description == "" {
		return nil, fmt.Errorf("%w: simulation description is required", e.ErrInvalidInput)
	}
	if input.CompanyName == "" {
		return nil, fmt.Errorf("%w: company name is required", e.ErrInvalidInput)
	}
	if input.Product.ProductName == "" {
		return nil, fmt.Errorf("%w: product name is required", e.ErrInvalidInput)
	}

	category, known := NormalizeCategory(input.Product.Category)
	if !known {
		eng.logger.Warn("Unknown product category, defaulting to budget",
			zap.String("category", input.Product.Category),
		)
	}

	rndCost := RNDCost(input.Product.QualityRating, input.Product.InnovationRating, input.Product.SustainabilityRating)
	productionCost := ProductionCost(category, input.Product.QualityRating, input.Product.InnovationRating, input.Product.SustainabilityRating)

	// One shared timestamp across all three records of this call.
	now := eng.now().UTC()

	simulation := &models.Simulation{
		ID:            eng.newID("sim"),
		Name:          input.SimulationName,
		Description:   input.Description,
		Status:        models.SimulationActive,
		CurrentPeriod: 0,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	company := &models.Company{
		ID:               eng.newID("company"),
		SimulationID:     simulation.ID,
		UserID:           userID,
		Name:             input.CompanyName,
		Description:      fmt.Sprintf("This company is present inside %s", input.SimulationName),
		CashBalance:      StartingCash(rndCost),
		TotalAssets:      StartingCash(rndCost),
		TotalLiabilities: 0,
		CreditRating:     InitialCreditRating,
		BrandValue:       InitialBrandValue,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	product := &models.Product{
		ID:                   eng.newID("prod"),
		CompanyID:            company.ID,
		Name:                 input.Product.ProductName,
		Description:          input.Product.Description,
		Category:             category,
		QualityRating:        input.Product.QualityRating,
		InnovationRating:     input.Product.InnovationRating,
		SustainabilityRating: input.Product.SustainabilityRating,
		SellingPrice:         input.Product.SellingPrice,
		ProductionCost:       productionCost,
		DevelopmentCost:      rndCost,
		Status:               models.ProductActive,
		InventoryLevel:       0,
		ProductionCapacity:   InitialProductionCapacity,
		MarketingBudget:      0,
		CreatedAt:            now,
		UpdatedAt:            now,
	}

	err := eng.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if err := tx.CreateSimulation(ctx, simulation); err != nil {
			return fmt.Errorf("failed to create simulation: %w", err)
		}
		if err := tx.CreateCompany(ctx, company); err != nil {
			return fmt.Errorf("failed to create company: %w", err)
		}
		if err := tx.CreateProduct(ctx, product); err != nil {
			return fmt.Errorf("failed to create product: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize simulation: %w", err)
	}

	go func() {
		eng.producer.Produce(events.SimulationCreated, simulation.ID, simulation)
		eng.producer.Produce(events.CompanyFounded, company.ID, company)
		eng.producer.Produce(events.ProductLaunched, product.ID, product)
	}()
	return simulation, nil
}

// CreateSimulation adds a bare Simulation without a company; a company is
// attached later through the full setup flow. The simulation is valid but
// uninhabited for the user until then.
func (eng *Engine) CreateSimulation(ctx context.Context, userID, name, description string) (*models.Simulation, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user ID", e.ErrInvalidInput)
	}
	if name == "" {
		return nil, fmt.Errorf("%w: simulation name is required", e.ErrInvalidInput)
	}
	if description == "" {
		return nil, fmt.Errorf("%w: simulation description is required", e.ErrInvalidInput)
	}

	now := eng.now().UTC()
	simulation := &models.Simulation{
		ID:            eng.newID("sim"),
		Name:          name,
		Description:   description,
		Status:        models.SimulationActive,
		CurrentPeriod: 0,
		CreatedBy:     userID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := eng.repo.CreateSimulation(ctx, simulation); err != nil {
		return nil, fmt.Errorf("failed to create simulation: %w", err)
	}
	go func() {
		eng.producer.Produce(events.SimulationCreated, simulation.ID, simulation)
	}()
	return simulation, nil
}

// ListSimulations returns the simulations owned by a user.
func (eng *Engine) ListSimulations(ctx context.Context, userID string) ([]*models.Simulation, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: missing user ID", e.ErrInvalidInput)
	}
	simulations, err := eng.repo.GetSimulationsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list simulations: %w", err)
	}
	return simulations, nil
}

// GetSimulation retrieves a Simulation by ID, returning ErrNotFound when
// it does not exist.
func (eng *Engine) GetSimulation(ctx context.Context, id string) (*models.Simulation, error) {
	simulation, err := eng.repo.GetSimulation(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get simulation: %w", err)
	}
	return simulation, nil
}

// ListCompanies returns the companies founded inside a simulation.
func (eng *Engine) ListCompanies(ctx context.Context, simulationID string) ([]*models.Company, error) {
	companies, err := eng.repo.GetCompaniesBySimulation(ctx, simulationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	return companies, nil
}
