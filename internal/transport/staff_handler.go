package transport

import (
	"net/http"
	"time"

	"madeh-desk/internal/domain"
	"madeh-desk/internal/middleware"
	"madeh-desk/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StaffRequest represents the create/update payload for a staff member
type StaffRequest struct {
	Name   string `json:"name" validate:"required"`
	Email  string `json:"email" validate:"required,email"`
	Role   string `json:"role" validate:"required,oneof=Owner Manager Cashier"`
	Status string `json:"status" validate:"omitempty,oneof=Active Inactive"`
}

// StaffHandler handles HTTP requests for staff management
type StaffHandler struct {
	staffRepo repository.StaffRepository
	logger    *zap.Logger
}

// NewStaffHandler creates a new StaffHandler
func NewStaffHandler(staffRepo repository.StaffRepository, logger *zap.Logger) *StaffHandler {
	return &StaffHandler{
		staffRepo: staffRepo,
		logger:    logger,
	}
}

// RegisterRoutes registers all staff routes behind authentication
func (h *StaffHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/staff", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List returns all staff members
func (h *StaffHandler) List(w http.ResponseWriter, r *http.Request) {
	staff, err := h.staffRepo.List(r.Context())
	if err != nil {
		h.logger.Error("Failed to list staff", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list staff")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, staff)
}

// Get returns a single staff member by id
func (h *StaffHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid staff ID")
		return
	}

	staff, err := h.staffRepo.FindByID(r.Context(), id)
	if err != nil {
		if err == repository.ErrStaffNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "staff member not found")
			return
		}
		h.logger.Error("Failed to get staff member", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get staff member")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, staff)
}

// Create adds a staff member
func (h *StaffHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req StaffRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Staff validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := req.Status
	if status == "" {
		status = domain.StaffActive
	}

	now := time.Now()
	staff := &domain.Staff{
		ID:        uuid.New(),
		Name:      req.Name,
		Email:     req.Email,
		Role:      req.Role,
		Status:    status,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := h.staffRepo.Create(r.Context(), staff); err != nil {
		if err == repository.ErrStaffAlreadyExists {
			middleware.RespondWithError(w, http.StatusConflict, "staff member with this email already exists")
			return
		}
		h.logger.Error("Failed to create staff member", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create staff member")
		return
	}

	h.logger.Info("Staff member created", zap.String("staff_id", staff.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, staff)
}

// Update replaces a staff member's fields
func (h *StaffHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid staff ID")
		return
	}

	var req StaffRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Staff validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	status := req.Status
	if status == "" {
		status = domain.StaffActive
	}

	staff := &domain.Staff{
		ID:        id,
		Name:      req.Name,
		Email:     req.Email,
		Role:      req.Role,
		Status:    status,
		UpdatedAt: time.Now(),
	}

	if err := h.staffRepo.Update(r.Context(), staff); err != nil {
		if err == repository.ErrStaffNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "staff member not found")
			return
		}
		if err == repository.ErrStaffAlreadyExists {
			middleware.RespondWithError(w, http.StatusConflict, "staff member with this email already exists")
			return
		}
		h.logger.Error("Failed to update staff member", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update staff member")
		return
	}

	h.logger.Info("Staff member updated", zap.String("staff_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, staff)
}

// Delete removes a staff member. Their recorded sales survive; reports
// label them as unknown from then on.
func (h *StaffHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid staff ID")
		return
	}

	if err := h.staffRepo.Delete(r.Context(), id); err != nil {
		if err == repository.ErrStaffNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "staff member not found")
			return
		}
		h.logger.Error("Failed to delete staff member", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete staff member")
		return
	}

	h.logger.Info("Staff member deleted", zap.String("staff_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "staff member deleted"})
}
