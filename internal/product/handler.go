package product

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/minifigstore/api/internal/auth"
	"github.com/minifigstore/api/internal/user"
	"github.com/minifigstore/api/internal/utils"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
	}
}

type productRequest struct {
	ProductName   string   `json:"productName"`
	Key           string   `json:"key"`
	PartID        string   `json:"partId"`
	ItemID        string   `json:"itemId"`
	Price         *float64 `json:"price"`
	Discount      *float64 `json:"discount"`
	Description1  string   `json:"description1"`
	Description2  string   `json:"description2"`
	Description3  string   `json:"description3"`
	CategoryID    *uint    `json:"category"`
	SubCategoryID *uint    `json:"subCategory"`
	PieceCount    *int     `json:"pieceCount"`
	Stocks        *int     `json:"stocks"`
	IsActive      *bool    `json:"isActive"`
	IsAvailable   *bool    `json:"isAvailable"`
	ForPreOrder   *bool    `json:"forPreOrder"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid payload", "The request body could not be parsed.")
		return
	}

	name := strings.TrimSpace(req.ProductName)
	if name == "" || req.PartID == "" || req.ItemID == "" || req.Price == nil || req.Description1 == "" {
		utils.RespondError(w, http.StatusBadRequest, "Missing required fields", "Product name, part id, item id, price and description are required.")
		return
	}
	if *req.Price < 0 {
		utils.RespondError(w, http.StatusBadRequest, "Invalid price", "Price must be a positive number.")
		return
	}

	if _, err := h.Repository.FindByPartOrItemID(h.DB, req.PartID, req.ItemID); err == nil {
		utils.RespondError(w, http.StatusConflict, "Product already exists", "A product with this part id or item id already exists.")
		return
	}

	var createdBy uint
	if u, ok := auth.CurrentUser(r); ok {
		createdBy = u.ID
	}

	p := Product{
		ProductName:   name,
		Key:           strings.TrimSpace(req.Key),
		PartID:        strings.TrimSpace(req.PartID),
		ItemID:        strings.TrimSpace(req.ItemID),
		Price:         *req.Price,
		Description1:  strings.TrimSpace(req.Description1),
		Description2:  strings.TrimSpace(req.Description2),
		Description3:  strings.TrimSpace(req.Description3),
		CategoryID:    req.CategoryID,
		SubCategoryID: req.SubCategoryID,
		IsActive:      true,
		IsAvailable:   true,
		CreatedByID:   createdBy,
	}
	applyOptionalFields(&p, &req)

	if err := h.Repository.Save(h.DB, &p); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create product", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"message": "Product created successfully",
		"product": p,
	})
}

// List is the public catalog read. Anonymous callers see only active,
// available products; a signed-in admin sees everything.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	f := Filters{ActiveOnly: true}
	if u, ok := auth.CurrentUser(r); ok && u.Role == user.RoleAdmin {
		f.ActiveOnly = false
	}

	if v := r.URL.Query().Get("category"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			f.CategoryID = uint(id)
		}
	}
	if v := r.URL.Query().Get("collection"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			f.CollectionID = uint(id)
		}
	}

	products, err := h.Repository.List(h.DB, f)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch products", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success":  true,
		"count":    len(products),
		"products": products,
	})
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid product id", "The product id must be numeric.")
		return
	}

	p, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Product not found", "The requested product does not exist.")
		return
	}

	// Hidden products stay hidden from anonymous callers.
	if !p.IsActive || !p.IsAvailable {
		u, ok := auth.CurrentUser(r)
		if !ok || u.Role != user.RoleAdmin {
			utils.RespondError(w, http.StatusNotFound, "Product not found", "The requested product does not exist.")
			return
		}
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success": true,
		"product": p,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid product id", "The product id must be numeric.")
		return
	}

	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid payload", "The request body could not be parsed.")
		return
	}

	p, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Product not found", "The requested product does not exist.")
		return
	}

	if name := strings.TrimSpace(req.ProductName); name != "" {
		p.ProductName = name
	}
	if req.Price != nil && *req.Price >= 0 {
		p.Price = *req.Price
	}
	if req.Description1 != "" {
		p.Description1 = strings.TrimSpace(req.Description1)
	}
	if req.Description2 != "" {
		p.Description2 = strings.TrimSpace(req.Description2)
	}
	if req.Description3 != "" {
		p.Description3 = strings.TrimSpace(req.Description3)
	}
	if req.CategoryID != nil {
		p.CategoryID = req.CategoryID
	}
	if req.SubCategoryID != nil {
		p.SubCategoryID = req.SubCategoryID
	}
	applyOptionalFields(p, &req)
	if u, ok := auth.CurrentUser(r); ok {
		p.UpdatedByID = u.ID
	}

	if err := h.Repository.Save(h.DB, p); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update product", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Product updated successfully",
		"product": p,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid product id", "The product id must be numeric.")
		return
	}

	if _, err := h.Repository.FindByID(h.DB, uint(id)); err != nil {
		utils.RespondError(w, http.StatusNotFound, "Product not found", "The requested product does not exist.")
		return
	}

	if err := h.Repository.Delete(h.DB, uint(id)); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete product", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Product deleted successfully",
	})
}

// applyOptionalFields copies the nullable knobs shared by create and update,
// recomputing the discount price whenever discount or price moved.
func applyOptionalFields(p *Product, req *productRequest) {
	if req.Discount != nil && *req.Discount >= 0 && *req.Discount <= 100 {
		p.Discount = *req.Discount
	}
	if req.PieceCount != nil && *req.PieceCount >= 0 {
		p.PieceCount = *req.PieceCount
	}
	if req.Stocks != nil && *req.Stocks >= 0 {
		p.Stocks = *req.Stocks
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.IsAvailable != nil {
		p.IsAvailable = *req.IsAvailable
	}
	if req.ForPreOrder != nil {
		p.ForPreOrder = *req.ForPreOrder
	}
	if p.Discount > 0 {
		p.DiscountPrice = p.Price * (1 - p.Discount/100)
	} else {
		p.DiscountPrice = 0
	}
}
