package color

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

type colorRequest struct {
	ColorName string `json:"colorName"`
	Key       string `json:"key"`
	HexCode   string `json:"hexCode"`
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req colorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid payload", "The request body could not be parsed.")
		return
	}

	name := strings.TrimSpace(req.ColorName)
	if name == "" {
		utils.RespondError(w, http.StatusBadRequest, "Color name is required", "Please provide a color name.")
		return
	}

	if _, err := h.Repository.FindByName(h.DB, name); err == nil {
		utils.RespondError(w, http.StatusConflict, "Color already exists", "A color with this name already exists.")
		return
	}

	var createdBy uint
	if u, ok := auth.CurrentUser(r); ok {
		createdBy = u.ID
	}

	c := Color{
		ColorName:   name,
		Key:         strings.TrimSpace(req.Key),
		HexCode:     strings.TrimSpace(req.HexCode),
		CreatedByID: createdBy,
	}
	if err := h.Repository.Save(h.DB, &c); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to create color", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusCreated, utils.M{
		"success": true,
		"message": "Color created successfully",
		"color":   c,
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	colors, err := h.Repository.ListAll(h.DB)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch colors", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success": true,
		"count":   len(colors),
		"colors":  colors,
	})
}

func (h *Handler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid color id", "The color id must be numeric.")
		return
	}

	c, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Color not found", "The requested color does not exist.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success": true,
		"color":   c,
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid color id", "The color id must be numeric.")
		return
	}

	var req colorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid payload", "The request body could not be parsed.")
		return
	}

	c, err := h.Repository.FindByID(h.DB, uint(id))
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Color not found", "The requested color does not exist.")
		return
	}

	if name := strings.TrimSpace(req.ColorName); name != "" {
		c.ColorName = name
	}
	if key := strings.TrimSpace(req.Key); key != "" {
		c.Key = key
	}
	if hex := strings.TrimSpace(req.HexCode); hex != "" {
		c.HexCode = hex
	}
	if u, ok := auth.CurrentUser(r); ok {
		c.UpdatedByID = u.ID
	}

	if err := h.Repository.Save(h.DB, c); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update color", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Color updated successfully",
		"color":   c,
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid color id", "The color id must be numeric.")
		return
	}

	if _, err := h.Repository.FindByID(h.DB, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(w, http.StatusNotFound, "Color not found", "The requested color does not exist.")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete color", "An unexpected error occurred. Please try again.")
		return
	}

	if err := h.Repository.Delete(h.DB, uint(id)); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete color", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "Color deleted successfully",
	})
}
