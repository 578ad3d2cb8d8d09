package transport

import (
	"net/http"
	"time"

	"madeh-desk/internal/domain"
	"madeh-desk/internal/middleware"
	"madeh-desk/internal/repository"
	"madeh-desk/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RecordSaleRequest represents a candidate retail transaction
type RecordSaleRequest struct {
	ProductID    string  `json:"product_id" validate:"required,uuid"`
	Quantity     int     `json:"quantity" validate:"required,gte=1"`
	UnitPrice    float64 `json:"unit_price" validate:"required,gt=0"`
	CustomerName string  `json:"customer_name"`
}

// SaleHandler handles HTTP requests for the sale workflow
type SaleHandler struct {
	salesService service.SalesService
	logger       *zap.Logger
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(salesService service.SalesService, logger *zap.Logger) *SaleHandler {
	return &SaleHandler{
		salesService: salesService,
		logger:       logger,
	}
}

// RegisterRoutes registers all sale routes. Recording requires a linked
// staff profile on top of authentication.
func (h *SaleHandler) RegisterRoutes(r chi.Router, authMiddleware, requireStaff func(http.Handler) http.Handler) {
	r.Route("/api/sales", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.List)

		r.Group(func(r chi.Router) {
			r.Use(requireStaff)
			r.Post("/", h.Record)
		})
	})
}

// Record validates and persists a sale
func (h *SaleHandler) Record(w http.ResponseWriter, r *http.Request) {
	var req RecordSaleRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Sale validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	productID, err := uuid.Parse(req.ProductID)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	actor, err := actorFromContext(r)
	if err != nil {
		h.logger.Error("Failed to resolve actor from context", zap.Error(err))
		middleware.RespondWithError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	sale, err := h.salesService.RecordSale(r.Context(), actor, service.RecordSaleInput{
		ProductID:    productID,
		Quantity:     req.Quantity,
		UnitPrice:    req.UnitPrice,
		CustomerName: req.CustomerName,
	})
	if err != nil {
		switch {
		case err == service.ErrNoStaffProfile:
			middleware.RespondWithError(w, http.StatusForbidden, err.Error())
		case err == service.ErrSaleProductNotFound:
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
		case service.IsInvalidInput(err):
			middleware.RespondWithError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("Failed to record sale", zap.Error(err))
			middleware.RespondWithError(w, http.StatusInternalServerError, "failed to record sale")
		}
		return
	}

	h.logger.Info("Sale recorded",
		zap.String("sale_id", sale.ID.String()),
		zap.String("product_id", sale.ProductID.String()),
		zap.Int("quantity", sale.Quantity),
		zap.Float64("total_amount", sale.TotalAmount),
	)
	middleware.RespondWithJSON(w, http.StatusCreated, sale)
}

// List returns recorded sales, optionally bounded by from/to dates
// (YYYY-MM-DD).
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	filter, err := saleFilterFromQuery(r)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid date filter, expected YYYY-MM-DD")
		return
	}

	sales, err := h.salesService.ListSales(r.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to list sales", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list sales")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, sales)
}

func actorFromContext(r *http.Request) (*domain.AuthUser, error) {
	userIDStr, _ := middleware.GetUserID(r.Context())
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return nil, err
	}

	role, _ := middleware.GetUserRole(r.Context())

	actor := &domain.AuthUser{
		UserID: userID,
		Role:   role,
	}

	if staffIDStr, ok := middleware.GetStaffID(r.Context()); ok {
		staffID, err := uuid.Parse(staffIDStr)
		if err != nil {
			return nil, err
		}
		actor.StaffID = &staffID
	}

	return actor, nil
}

func saleFilterFromQuery(r *http.Request) (repository.SaleFilter, error) {
	var filter repository.SaleFilter

	if raw := r.URL.Query().Get("from"); raw != "" {
		from, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, err
		}
		filter.From = from
	}

	if raw := r.URL.Query().Get("to"); raw != "" {
		to, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, err
		}
		// Make the upper bound inclusive of the whole day
		filter.To = to.AddDate(0, 0, 1)
	}

	return filter, nil
}
