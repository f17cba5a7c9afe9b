package collection

import (
	"encoding/json"
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

type collectionRequest struct {
	CollectionName string `json:"collectionName"`
	Key            string `json:"key"`
	Description    string `json:"description"`
	IsFeatured     *bool  `json:"isFeatured"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req collectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid payload", "The request body could not be parsed.")
		return
	}

	name := strings.TrimSpace(req.CollectionName)
	if name == "" {
		utils.RespondError(w, http.StatusBadRequest, "Collection name is required", "Please provide a collection name.")
		return
	}

	if _, err := h.Repository.FindByName(h.DB, name); err == nil {
		utils.RespondError(w, http.StatusConflict, "Collection already exists", "A collection with this name already exists.")
		return
	}

	var createdBy uint
	if u, ok := auth.CurrentUser(r); ok {
		createdBy = u.ID
	}

	c := Collection{
		CollectionName: name,
		Key:            strings.TrimSpace(req.Key),
		Description:    strings.TrimSpace(req.Description),
		CreatedByID:    createdBy,
	}
	if req.IsFeatured != nil {
		c.IsFeatured = *req.IsFeatured
	}
	if err := h.Repository.Save(h.DB, &c); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create collection", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, utils.M{
		"success":    true,
		"message":    "Collection created successfully",
		"collection": c,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var (
		cols []Collection
		err  error
	)
	if r.URL.Query().Get("featured") == "true" {
		cols, err = h.Repository.ListFeatured(h.DB)
	} else {
		cols, err = h.Repository.ListAll(h.DB)
	}
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch collections", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success":     true,
		"count":       len(cols),
		"collections": cols,
	})
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid collection id", "The collection id must be numeric.")
		return
	}

	c, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Collection not found", "The requested collection does not exist.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success":    true,
		"collection": c,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid collection id", "The collection id must be numeric.")
		return
	}

	var req collectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid payload", "The request body could not be parsed.")
		return
	}

	c, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Collection not found", "The requested collection does not exist.")
		return
	}

	if name := strings.TrimSpace(req.CollectionName); name != "" {
		c.CollectionName = name
	}
	if key := strings.TrimSpace(req.Key); key != "" {
		c.Key = key
	}
	if desc := strings.TrimSpace(req.Description); desc != "" {
		c.Description = desc
	}
	if req.IsFeatured != nil {
		c.IsFeatured = *req.IsFeatured
	}
	if u, ok := auth.CurrentUser(r); ok {
		c.UpdatedByID = u.ID
	}

	if err := h.Repository.Save(h.DB, c); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update collection", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success":    true,
		"message":    "Collection updated successfully",
		"collection": c,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid collection id", "The collection id must be numeric.")
		return
	}

	if _, err := h.Repository.FindByID(h.DB, uint(id)); err != nil {
		utils.RespondError(w, http.StatusNotFound, "Collection not found", "The requested collection does not exist.")
		return
	}

	if err := h.Repository.Delete(h.DB, uint(id)); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete collection", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Collection deleted successfully",
	})
}

type subCollectionRequest struct {
	SubCollectionName string `json:"subCollectionName"`
	Key               string `json:"key"`
	Description       string `json:"description"`
	CollectionID      uint   `json:"collection"`
}

func (h *Handler) CreateSub(w http.ResponseWriter, r *http.Request) {
	var req subCollectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid payload", "The request body could not be parsed.")
		return
	}

	name := strings.TrimSpace(req.SubCollectionName)
	if name == "" || req.CollectionID == 0 {
		utils.RespondError(w, http.StatusBadRequest, "Sub-collection name and collection are required", "Please provide a sub-collection name and its parent collection.")
		return
	}

	if _, err := h.Repository.FindByID(h.DB, req.CollectionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, "Collection not found", "The parent collection does not exist.")
		return
	}

	var createdBy uint
	if u, ok := auth.CurrentUser(r); ok {
		createdBy = u.ID
	}

	s := SubCollection{
		SubCollectionName: name,
		Key:               strings.TrimSpace(req.Key),
		Description:       strings.TrimSpace(req.Description),
		CollectionID:      req.CollectionID,
		CreatedByID:       createdBy,
	}
	if err := h.Repository.SaveSub(h.DB, &s); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create sub-collection", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, utils.M{
		"success":       true,
		"message":       "Sub-collection created successfully",
		"subCollection": s,
	})
}

func (h *Handler) ListSub(w http.ResponseWriter, r *http.Request) {
	subs, err := h.Repository.ListAllSub(h.DB)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch sub-collections", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success":        true,
		"count":          len(subs),
		"subCollections": subs,
	})
}

func (h *Handler) DeleteSub(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid sub-collection id", "The sub-collection id must be numeric.")
		return
	}

	if _, err := h.Repository.FindSubByID(h.DB, uint(id)); err != nil {
		utils.RespondError(w, http.StatusNotFound, "Sub-collection not found", "The requested sub-collection does not exist.")
		return
	}

	if err := h.Repository.DeleteSub(h.DB, uint(id)); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete sub-collection", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Sub-collection deleted successfully",
	})
}
