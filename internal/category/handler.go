package category

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/minifigstore/api/internal/auth"
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

type categoryRequest struct {
	CategoryName string `json:"categoryName"`
	Key          string `json:"key"`
	Description  string `json:"description"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid payload", "The request body could not be parsed.")
		return
	}

	name := strings.TrimSpace(req.CategoryName)
	if name == "" {
		utils.RespondError(w, http.StatusBadRequest, "Category name is required", "Please provide a category name.")
		return
	}

	if _, err := h.Repository.FindByName(h.DB, name); err == nil {
		utils.RespondError(w, http.StatusConflict, "Category already exists", "A category with this name already exists.")
		return
	}

	var createdBy uint
	if u, ok := auth.CurrentUser(r); ok {
		createdBy = u.ID
	}

	c := Category{
		CategoryName: name,
		Key:          strings.TrimSpace(req.Key),
		Description:  strings.TrimSpace(req.Description),
		CreatedByID:  createdBy,
	}
	if err := h.Repository.Save(h.DB, &c); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create category", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, utils.M{
		"success":  true,
		"message":  "Category created successfully",
		"category": c,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Repository.ListAll(h.DB)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch categories", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success":    true,
		"count":      len(cats),
		"categories": cats,
	})
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid category id", "The category id must be numeric.")
		return
	}

	c, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Category not found", "The requested category does not exist.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success":  true,
		"category": c,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid category id", "The category id must be numeric.")
		return
	}

	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid payload", "The request body could not be parsed.")
		return
	}

	c, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Category not found", "The requested category does not exist.")
		return
	}

	if name := strings.TrimSpace(req.CategoryName); name != "" {
		c.CategoryName = name
	}
	if key := strings.TrimSpace(req.Key); key != "" {
		c.Key = key
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		c.Description = desc
	}
	if u, ok := auth.CurrentUser(r); ok {
		c.UpdatedByID = u.ID
	}

	if err := h.Repository.Save(h.DB, c); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update category", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success":  true,
		"message":  "Category updated successfully",
		"category": c,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid category id", "The category id must be numeric.")
		return
	}

	if _, err := h.Repository.FindByID(h.DB, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Category not found", "The requested category does not exist.")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete category", "An unexpected error occurred. Please try again.")
		return
	}

	if err := h.Repository.Delete(h.DB, uint(id)); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete category", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Category deleted successfully",
	})
}

type subCategoryRequest struct {
	SubCategoryName string `json:"subCategoryName"`
	Key             string `json:"key"`
	Description     string `json:"description"`
	CategoryID      uint   `json:"category"`
}

func (h *Handler) CreateSub(w http.ResponseWriter, r *http.Request) {
	var req subCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid payload", "The request body could not be parsed.")
		return
	}

	name := strings.TrimSpace(req.SubCategoryName)
	if name == "" || req.CategoryID == 0 {
		utils.RespondError(w, http.StatusBadRequest, "Sub-category name and category are required", "Please provide a sub-category name and its parent category.")
		return
	}

	if _, err := h.Repository.FindByID(h.DB, req.CategoryID); err != nil {
		utils.RespondError(w, http.StatusNotFound, "Category not found", "The parent category does not exist.")
		return
	}

	var createdBy uint
	if u, ok := auth.CurrentUser(r); ok {
		createdBy = u.ID
	}

	s := SubCategory{
		SubCategoryName: name,
		Key:             strings.TrimSpace(req.Key),
		Description:     strings.TrimSpace(req.Description),
		CategoryID:      req.CategoryID,
		CreatedByID:     createdBy,
	}
	if err := h.Repository.SaveSub(h.DB, &s); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create sub-category", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, utils.M{
		"success":     true,
		"message":     "Sub-category created successfully",
		"subCategory": s,
	})
}

func (h *Handler) ListSub(w http.ResponseWriter, r *http.Request) {
	var (
		subs []SubCategory
		err  error
	)
	if v := r.URL.Query().Get("category"); v != "" {
		id, convErr := strconv.Atoi(v)
		if convErr != nil {
			utils.RespondError(w, http.StatusBadRequest, "Invalid category id", "The category id must be numeric.")
			return
		}
		subs, err = h.Repository.ListSubByCategory(h.DB, uint(id))
	} else {
		subs, err = h.Repository.ListAllSub(h.DB)
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch sub-categories", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success":       true,
		"count":         len(subs),
		"subCategories": subs,
	})
}

func (h *Handler) DeleteSub(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid sub-category id", "The sub-category id must be numeric.")
		return
	}

	if _, err := h.Repository.FindSubByID(h.DB, uint(id)); err != nil {
		utils.RespondError(w, http.StatusNotFound, "Sub-category not found", "The requested sub-category does not exist.")
		return
	}

	if err := h.Repository.DeleteSub(h.DB, uint(id)); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete sub-category", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Sub-category deleted successfully",
	})
}
