package engine

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ecosim/bizworld/internal/simulation/db"
	e "github.com/ecosim/bizworld/internal/simulation/errors"
	"github.com/ecosim/bizworld/internal/simulation/events"
	"github.com/ecosim/bizworld/internal/simulation/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// recordingProducer is a concurrency-safe test double for the Kafka producer.
type recordingProducer struct {
	mu       sync.Mutex
	produced []events.Event
	wg       *sync.WaitGroup
}

func (p *recordingProducer) Produce(eventType events.EventType, key string, payload any) {
	p.mu.Lock()
	p.produced = append(p.produced, events.Event{Type: eventType, Key: key, Payload: payload})
	p.mu.Unlock()
	if p.wg != nil {
		p.wg.Done()
	}
}

func (p *recordingProducer) recorded() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]events.Event(nil), p.produced...)
}

// stubRepository accepts every write without persisting anything; used
// where only the engine's own behavior is under test.
type stubRepository struct{}

func (stubRepository) CreateSimulation(context.Context, *models.Simulation) error { return nil }
func (stubRepository) CreateCompany(context.Context, *models.Company) error       { return nil }
func (stubRepository) CreateProduct(context.Context, *models.Product) error       { return nil }
func (stubRepository) GetSimulation(context.Context, string) (*models.Simulation, error) {
	return nil, e.ErrNotFound
}
func (stubRepository) GetSimulationsByUser(context.Context, string) ([]*models.Simulation, error) {
	return nil, nil
}
func (stubRepository) GetCompaniesBySimulation(context.Context, string) ([]*models.Company, error) {
	return nil, nil
}
func (stubRepository) WithTransaction(context.Context, func(*db.Repository) error) error {
	return nil
}
func (stubRepository) Close() error { return nil }

// setupTestRepo initializes an in-memory SQLite repository.
func setupTestRepo(t *testing.T) *db.Repository {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")

	repo, err := db.NewRepositoryFromGorm(gdb)
	require.NoError(t, err, "failed to migrate test database")
	return repo
}

func validWizardInput() *models.WizardInput {
	return &models.WizardInput{
		SimulationName: "Euro Markets 2030",
		Description:    "A crowded mid-range appliance market.",
		CompanyName:    "Northstar Appliances",
		Product: models.ProductInput{
			ProductName:          "Northstar One",
			Description:          "Entry flagship.",
			Category:             "mid-range",
			QualityRating:        5,
			InnovationRating:     5,
			SustainabilityRating: 5,
			SellingPrice:         150,
		},
	}
}

func TestInitializeFullSimulation_Success(t *testing.T) {
	repo := setupTestRepo(t)
	producer := &recordingProducer{wg: new(sync.WaitGroup)}
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	eng := NewEngine(repo, producer, zaptest.NewLogger(t), WithClock(func() time.Time { return fixed }))

	producer.wg.Add(3)
	simulation, err := eng.InitializeFullSimulation(context.Background(), "user_1", validWizardInput())
	require.NoError(t, err)
	producer.wg.Wait()

	assert.Regexp(t, "^sim_", simulation.ID)
	assert.Equal(t, models.SimulationActive, simulation.Status)
	assert.Equal(t, 0, simulation.CurrentPeriod)
	assert.Equal(t, "user_1", simulation.CreatedBy)
	assert.True(t, simulation.CreatedAt.Equal(fixed))
	assert.True(t, simulation.UpdatedAt.Equal(fixed))

	persisted, err := repo.GetSimulation(context.Background(), simulation.ID)
	require.NoError(t, err)
	assert.Equal(t, "Euro Markets 2030", persisted.Name)

	companies, err := repo.GetCompaniesBySimulation(context.Background(), simulation.ID)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	company := companies[0]
	assert.Regexp(t, "^company_", company.ID)
	assert.Equal(t, "user_1", company.UserID)
	assert.Equal(t, "This company is present inside Euro Markets 2030", company.Description)
	assert.Equal(t, float64(835000), company.CashBalance)
	assert.Equal(t, float64(835000), company.TotalAssets)
	assert.Equal(t, float64(0), company.TotalLiabilities)
	assert.Equal(t, "A", company.CreditRating)
	assert.Equal(t, float64(50), company.BrandValue)
	assert.True(t, company.CreatedAt.Equal(fixed), "all records share one timestamp")

	products, err := repo.GetProductsByCompany(context.Background(), company.ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	product := products[0]
	assert.Regexp(t, "^prod_", product.ID)
	assert.Equal(t, models.CategoryMidRange, product.Category)
	assert.Equal(t, float64(120), product.ProductionCost)
	assert.Equal(t, float64(165000), product.DevelopmentCost)
	assert.Equal(t, models.ProductActive, product.Status)
	assert.Equal(t, 0, product.InventoryLevel)
	assert.Equal(t, 2000, product.ProductionCapacity)
	assert.Equal(t, float64(0), product.MarketingBudget)
	assert.True(t, product.CreatedAt.Equal(fixed), "all records share one timestamp")

	recorded := producer.recorded()
	require.Len(t, recorded, 3)
	assert.Equal(t, events.SimulationCreated, recorded[0].Type)
	assert.Equal(t, events.CompanyFounded, recorded[1].Type)
	assert.Equal(t, events.ProductLaunched, recorded[2].Type)
}

func TestInitializeFullSimulation_PremiumMaxRatings(t *testing.T) {
	repo := setupTestRepo(t)
	eng := NewEngine(repo, &recordingProducer{}, zaptest.NewLogger(t))

	input := validWizardInput()
	input.Product.Category = "premium"
	input.Product.QualityRating = 10
	input.Product.InnovationRating = 10
	input.Product.SustainabilityRating = 10

	simulation, err := eng.InitializeFullSimulation(context.Background(), "user_1", input)
	require.NoError(t, err)

	companies, err := repo.GetCompaniesBySimulation(context.Background(), simulation.ID)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, float64(670000), companies[0].CashBalance)

	products, err := repo.GetProductsByCompany(context.Background(), companies[0].ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, float64(330000), products[0].DevelopmentCost)
}

func TestInitializeFullSimulation_NegativeCashAllowed(t *testing.T) {
	repo := setupTestRepo(t)
	eng := NewEngine(repo, &recordingProducer{}, zaptest.NewLogger(t))

	// 40/40/40 drives R&D to 1,320,000, past the starting capital. The
	// wizard never produces this, but the engine must not reject it.
	input := validWizardInput()
	input.Product.QualityRating = 40
	input.Product.InnovationRating = 40
	input.Product.SustainabilityRating = 40

	simulation, err := eng.InitializeFullSimulation(context.Background(), "user_1", input)
	require.NoError(t, err)

	companies, err := repo.GetCompaniesBySimulation(context.Background(), simulation.ID)
	require.NoError(t, err)
	require.Len(t, companies, 1)
	assert.Equal(t, float64(-320000), companies[0].CashBalance)
	assert.Equal(t, companies[0].CashBalance, companies[0].TotalAssets)
}

func TestInitializeFullSimulation_UnknownCategoryDefaultsToBudget(t *testing.T) {
	repo := setupTestRepo(t)
	eng := NewEngine(repo, &recordingProducer{}, zaptest.NewLogger(t))

	input := validWizardInput()
	input.Product.Category = "luxury"

	simulation, err := eng.InitializeFullSimulation(context.Background(), "user_1", input)
	require.NoError(t, err)

	companies, err := repo.GetCompaniesBySimulation(context.Background(), simulation.ID)
	require.NoError(t, err)
	products, err := repo.GetProductsByCompany(context.Background(), companies[0].ID)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, models.CategoryBudget, products[0].Category)
	// Budget base cost 15 + 50 + 25 + 15.
	assert.Equal(t, float64(105), products[0].ProductionCost)
}

func TestInitializeFullSimulation_Validation(t *testing.T) {
	tests := []struct {
		name   string
		userID string
		mutate func(*models.WizardInput)
	}{
		{"missing user", "", func(*models.WizardInput) {}},
		{"missing simulation name", "user_1", func(in *models.WizardInput) { in.SimulationName = "" }},
		{"missing description", "user_1", func(in *models.WizardInput) { in.Description = "" }},
		{"missing company name", "user_1", func(in *models.WizardInput) { in.CompanyName = "" }},
		{"missing product name", "user_1", func(in *models.WizardInput) { in.Product.ProductName = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := setupTestRepo(t)
			eng := NewEngine(repo, &recordingProducer{}, zaptest.NewLogger(t))

			input := validWizardInput()
			tt.mutate(input)

			_, err := eng.InitializeFullSimulation(context.Background(), tt.userID, input)
			require.Error(t, err)
			assert.ErrorIs(t, err, e.ErrInvalidInput)

			if tt.userID != "" {
				simulations, err := repo.GetSimulationsByUser(context.Background(), tt.userID)
				require.NoError(t, err)
				assert.Empty(t, simulations, "nothing may be persisted on validation failure")
			}
		})
	}
}

func TestInitializeFullSimulation_RollbackOnProductFailure(t *testing.T) {
	repo := setupTestRepo(t)
	producer := &recordingProducer{}
	eng := NewEngine(repo, producer, zaptest.NewLogger(t),
		WithIDGenerator(func(prefix string) string { return prefix + "_fixed" }),
	)

	// Occupy the product's primary key so the third insert of the
	// transaction fails after simulation and company have been written.
	blocker := &models.Product{ID: "prod_fixed", CompanyID: "company_other", Name: "Blocker"}
	require.NoError(t, repo.CreateProduct(context.Background(), blocker))

	_, err := eng.InitializeFullSimulation(context.Background(), "user_1", validWizardInput())
	require.Error(t, err)

	// The whole transaction must roll back: no orphan simulation or company.
	_, err = repo.GetSimulation(context.Background(), "sim_fixed")
	assert.ErrorIs(t, err, e.ErrNotFound)
	companies, err := repo.GetCompaniesBySimulation(context.Background(), "sim_fixed")
	require.NoError(t, err)
	assert.Empty(t, companies)
	assert.Empty(t, producer.recorded(), "no events on a failed initialization")
}

func TestCreateSimulation(t *testing.T) {
	t.Run("successful creation", func(t *testing.T) {
		repo := setupTestRepo(t)
		producer := &recordingProducer{wg: new(sync.WaitGroup)}
		eng := NewEngine(repo, producer, zaptest.NewLogger(t))

		producer.wg.Add(1)
		simulation, err := eng.CreateSimulation(context.Background(), "user_1", "Quick World", "A bare world without a company.")
		require.NoError(t, err)
		producer.wg.Wait()

		assert.Regexp(t, "^sim_", simulation.ID)
		assert.Equal(t, models.SimulationActive, simulation.Status)
		assert.Equal(t, 0, simulation.CurrentPeriod)

		// Uninhabited but valid: persisted with no companies attached.
		companies, err := repo.GetCompaniesBySimulation(context.Background(), simulation.ID)
		require.NoError(t, err)
		assert.Empty(t, companies)

		recorded := producer.recorded()
		require.Len(t, recorded, 1)
		assert.Equal(t, events.SimulationCreated, recorded[0].Type)
	})

	t.Run("each required field validated independently", func(t *testing.T) {
		repo := setupTestRepo(t)
		eng := NewEngine(repo, &recordingProducer{}, zaptest.NewLogger(t))

		_, err := eng.CreateSimulation(context.Background(), "user_1", "", "")
		assert.ErrorIs(t, err, e.ErrInvalidInput)
		_, err = eng.CreateSimulation(context.Background(), "user_1", "Named", "")
		assert.ErrorIs(t, err, e.ErrInvalidInput)
		_, err = eng.CreateSimulation(context.Background(), "user_1", "", "Described")
		assert.ErrorIs(t, err, e.ErrInvalidInput)

		simulations, err := repo.GetSimulationsByUser(context.Background(), "user_1")
		require.NoError(t, err)
		assert.Empty(t, simulations, "nothing may be persisted on validation failure")
	})
}

func TestListSimulations(t *testing.T) {
	repo := setupTestRepo(t)
	eng := NewEngine(repo, &recordingProducer{}, zaptest.NewLogger(t))

	for i := 0; i < 3; i++ {
		_, err := eng.CreateSimulation(context.Background(), "user_1", fmt.Sprintf("World %d", i), "desc")
		require.NoError(t, err)
	}
	_, err := eng.CreateSimulation(context.Background(), "user_2", "Other World", "desc")
	require.NoError(t, err)

	simulations, err := eng.ListSimulations(context.Background(), "user_1")
	require.NoError(t, err)
	assert.Len(t, simulations, 3)
	for _, s := range simulations {
		assert.Equal(t, "user_1", s.CreatedBy)
	}
}

func TestGetSimulation_NotFound(t *testing.T) {
	repo := setupTestRepo(t)
	eng := NewEngine(repo, &recordingProducer{}, zaptest.NewLogger(t))

	_, err := eng.GetSimulation(context.Background(), "sim_missing")
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestInitializeFullSimulation_ConcurrentIDsUnique(t *testing.T) {
	eng := NewEngine(stubRepository{}, &recordingProducer{}, zaptest.NewLogger(t))

	const calls = 50
	var (
		mu  sync.Mutex
		ids = make(map[string]struct{}, calls)
		wg  sync.WaitGroup
	)
	wg.Add(calls)
	for i := 0; i < calls; i++ {
		go func() {
			defer wg.Done()
			simulation, err := eng.InitializeFullSimulation(context.Background(), "user_1", validWizardInput())
			if err != nil {
				t.Error(err)
				return
			}
			mu.Lock()
			ids[simulation.ID] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, ids, calls, "concurrent initializations must never collide")
}
