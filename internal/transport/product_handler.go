package transport

import (
	"net/http"
	"strconv"
	"time"

	"madeh-desk/internal/domain"
	"madeh-desk/internal/lookup"
	"madeh-desk/internal/middleware"
	"madeh-desk/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductRequest represents the create/update payload for a product
type ProductRequest struct {
	Name              string  `json:"name" validate:"required"`
	Category          string  `json:"category"`
	Quantity          int     `json:"quantity" validate:"gte=0"`
	BuyingPrice       float64 `json:"buying_price" validate:"gte=0"`
	Price             float64 `json:"price" validate:"gte=0"`
	LowStockThreshold int     `json:"low_stock_threshold" validate:"gte=1"`
}

// ProductListResponse wraps a page of products
type ProductListResponse struct {
	Products []*domain.Product `json:"products"`
	Total    int               `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

// ProductHandler handles HTTP requests for catalog operations
type ProductHandler struct {
	productRepo repository.ProductRepository
	logger      *zap.Logger
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productRepo repository.ProductRepository, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productRepo: productRepo,
		logger:      logger,
	}
}

// RegisterRoutes registers all product routes behind authentication
func (h *ProductHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/products", func(r chi.Router) {
		r.Use(authMiddleware)

		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/suggest", h.Suggest)
		r.Get("/low-stock", h.ListLowStock)
		r.Get("/{id}", h.Get)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
}

// List returns a page of products. Supports search, sorting and
// pagination via query parameters.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 20)
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var (
		products []*domain.Product
		total    int
		err      error
	)

	if query := r.URL.Query().Get("search"); query != "" {
		products, total, err = h.productRepo.Search(r.Context(), query, page, pageSize)
	} else {
		sortBy := r.URL.Query().Get("sort_by")
		// Newest first unless the caller asks for ascending order,
		// matching the repository fallback
		sortOrder := repository.SortOrderDesc
		if r.URL.Query().Get("sort_order") == "asc" {
			sortOrder = repository.SortOrderAsc
		}
		products, total, err = h.productRepo.List(r.Context(), page, pageSize, sortBy, sortOrder)
	}

	if err != nil {
		h.logger.Error("Failed to list products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, ProductListResponse{
		Products: products,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

// Suggest returns in-stock products matching a partial name, for the
// sale-recording product picker.
func (h *ProductHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	products, err := h.productRepo.ListAll(r.Context())
	if err != nil {
		h.logger.Error("Failed to load catalog for suggestions", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to load catalog")
		return
	}

	catalog := lookup.NewCatalog(products)
	matches := catalog.Suggest(r.URL.Query().Get("q"))

	middleware.RespondWithJSON(w, http.StatusOK, matches)
}

// ListLowStock returns products at or below their low-stock threshold
func (h *ProductHandler) ListLowStock(w http.ResponseWriter, r *http.Request) {
	products, err := h.productRepo.ListLowStock(r.Context())
	if err != nil {
		h.logger.Error("Failed to list low-stock products", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to list low-stock products")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, products)
}

// Get returns a single product by id
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := h.productRepo.FindByID(r.Context(), id)
	if err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to get product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Create adds a product to the catalog
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	now := time.Now()
	product := &domain.Product{
		ID:                uuid.New(),
		Name:              req.Name,
		Category:          req.Category,
		Quantity:          req.Quantity,
		BuyingPrice:       req.BuyingPrice,
		Price:             req.Price,
		LowStockThreshold: req.LowStockThreshold,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := h.productRepo.Create(r.Context(), product); err != nil {
		h.logger.Error("Failed to create product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.logger.Info("Product created", zap.String("product_id", product.ID.String()))
	middleware.RespondWithJSON(w, http.StatusCreated, product)
}

// Update replaces a product's catalog fields. Recorded sales keep their
// price and name snapshots and are unaffected.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req ProductRequest

	if err := middleware.DecodeAndValidate(r, &req); err != nil {
		h.logger.Debug("Product validation failed", zap.Error(err))

		if validationErrors := middleware.FormatValidationErrors(err); len(validationErrors) > 0 {
			middleware.RespondWithValidationErrors(w, validationErrors)
			return
		}

		middleware.RespondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	product := &domain.Product{
		ID:                id,
		Name:              req.Name,
		Category:          req.Category,
		Quantity:          req.Quantity,
		BuyingPrice:       req.BuyingPrice,
		Price:             req.Price,
		LowStockThreshold: req.LowStockThreshold,
		UpdatedAt:         time.Now(),
	}

	if err := h.productRepo.Update(r.Context(), product); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to update product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	h.logger.Info("Product updated", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, product)
}

// Delete removes a product from the catalog. Sales that reference it
// survive; reports fall back to the recorded name snapshot.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	if err := h.productRepo.Delete(r.Context(), id); err != nil {
		if err == repository.ErrProductNotFound {
			middleware.RespondWithError(w, http.StatusNotFound, "product not found")
			return
		}
		h.logger.Error("Failed to delete product", zap.Error(err))
		middleware.RespondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.logger.Info("Product deleted", zap.String("product_id", id.String()))
	middleware.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
