package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/ecosim/bizworld/internal/simulation/auth"
	e "github.com/ecosim/bizworld/internal/simulation/errors"
	"github.com/ecosim/bizworld/internal/simulation/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SimulationController defines the business logic interface that the HTTP
// handlers invoke.
type SimulationController interface {
	InitializeFullSimulation(ctx context.Context, userID string, input *models.WizardInput) (*models.Simulation, error)
	CreateSimulation(ctx context.Context, userID, name, description string) (*models.Simulation, error)
	ListSimulations(ctx context.Context, userID string) ([]*models.Simulation, error)
	GetSimulation(ctx context.Context, id string) (*models.Simulation, error)
	ListCompanies(ctx context.Context, simulationID string) ([]*models.Company, error)
}

// SimulationHandler provides HTTP handlers for the simulation API, mapping
// requests to a SimulationController.
type SimulationHandler struct {
	service SimulationController
	logger  *zap.Logger
}

// NewSimulationHandler constructs a SimulationHandler with the given
// service and logger.
func NewSimulationHandler(service SimulationController, logger *zap.Logger) *SimulationHandler {
	return &SimulationHandler{
		service: service,
		logger:  logger.Named("http_handler"),
	}
}

// CreateFullSimulation handles the final wizard submission: it creates the
// simulation, founds the user's company, and configures the initial
// product in one call.
func (h *SimulationHandler) CreateFullSimulation(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var input models.WizardInput
	if err := decodeJSON(r, &input); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	simulation, err := h.service.InitializeFullSimulation(r.Context(), userID, &input)
	if err != nil {
		h.logger.Error("Full simulation creation failed", zap.Error(err))
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"simulationId": simulation.ID})
}

// CreateSimulation handles the quick-create flow producing a bare
// simulation without a company.
func (h *SimulationHandler) CreateSimulation(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var in struct {
		SimulationName string `json:"simulationName"`
		Description    string `json:"description"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	simulation, err := h.service.CreateSimulation(r.Context(), userID, in.SimulationName, in.Description)
	if err != nil {
		h.logger.Error("Simulation creation failed", zap.Error(err))
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":      "Simulation created successfully!",
		"simulationId": simulation.ID,
	})
}

// ListSimulations returns the simulations owned by the authenticated user.
func (h *SimulationHandler) ListSimulations(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	simulations, err := h.service.ListSimulations(r.Context(), userID)
	if err != nil {
		h.logger.Error("Listing simulations failed", zap.Error(err))
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"simulations": toSimulationResponses(simulations)})
}

// GetSimulation returns one simulation together with the companies founded
// inside it, backing the simulation detail page.
func (h *SimulationHandler) GetSimulation(w http.ResponseWriter, r *http.Request) {
	simulationID := chi.URLParam(r, "simulationID")

	simulation, err := h.service.GetSimulation(r.Context(), simulationID)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	companies, err := h.service.ListCompanies(r.Context(), simulationID)
	if err != nil {
		h.logger.Error("Listing companies failed", zap.Error(err))
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"simulation": toSimulationResponse(simulation),
		"companies":  toCompanyResponses(companies),
	})
}

// writeServiceError maps service-layer errors onto the HTTP error classes:
// invalid input → 400, not found → 404, everything else → 500 with a
// generic message (the detail stays in the server log).
func (h *SimulationHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, e.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, e.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Failed to process request")
	}
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}
