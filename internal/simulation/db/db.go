package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	rows "github.com/ecosim/bizworld/internal/simulation/db/models"
	e "github.com/ecosim/bizworld/internal/simulation/errors"
	"github.com/ecosim/bizworld/internal/simulation/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// NewRepository opens the database connection, retrying with exponential
// backoff so the service survives a database that is still coming up, and
// migrates the simulation tables.
func NewRepository(cfg *Config) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	var db *gorm.DB
	err := backoff.Retry(func() error {
		var openErr error
		db, openErr = gorm.Open(postgres.Open(dsn), &gorm.Config{})
		return openErr
	}, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return NewRepositoryFromGorm(db)
}

// NewRepositoryFromGorm wraps an already opened gorm connection and
// migrates the simulation tables. Tests use it to run on SQLite.
func NewRepositoryFromGorm(db *gorm.DB) (*Repository, error) {
	if err := db.AutoMigrate(&rows.Simulation{}, &rows.Company{}, &rows.Product{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) CreateSimulation(ctx context.Context, simulation *models.Simulation) error {
	result := r.db.WithContext(ctx).Create(rows.FromSimulation(simulation))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) CreateCompany(ctx context.Context, company *models.Company) error {
	result := r.db.WithContext(ctx).Create(rows.FromCompany(company))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) error {
	result := r.db.WithContext(ctx).Create(rows.FromProduct(product))
	if result.Error != nil {
		return result.Error
	}
	return nil
}

func (r *Repository) GetSimulation(ctx context.Context, id string) (*models.Simulation, error) {
	var row rows.Simulation
	result := r.db.WithContext(ctx).First(&row, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return row.ToDomain(), nil
}

func (r *Repository) GetSimulationsByUser(ctx context.Context, userID string) ([]*models.Simulation, error) {
	var found []rows.Simulation
	result := r.db.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&found)
	if result.Error != nil {
		return nil, result.Error
	}
	simulations := make([]*models.Simulation, 0, len(found))
	for i := range found {
		simulations = append(simulations, found[i].ToDomain())
	}
	return simulations, nil
}

func (r *Repository) GetCompaniesBySimulation(ctx context.Context, simulationID string) ([]*models.Company, error) {
	var found []rows.Company
	result := r.db.WithContext(ctx).
		Where("simulation_id = ?", simulationID).
		Find(&found)
	if result.Error != nil {
		return nil, result.Error
	}
	companies := make([]*models.Company, 0, len(found))
	for i := range found {
		companies = append(companies, found[i].ToDomain())
	}
	return companies, nil
}

func (r *Repository) GetProductsByCompany(ctx context.Context, companyID string) ([]*models.Product, error) {
	var found []rows.Product
	result := r.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Find(&found)
	if result.Error != nil {
		return nil, result.Error
	}
	products := make([]*models.Product, 0, len(found))
	for i := range found {
		products = append(products, found[i].ToDomain())
	}
	return products, nil
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
