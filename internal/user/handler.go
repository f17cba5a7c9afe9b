package user

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"gorm.io/gorm"

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

// ListUsers returns every account, secrets stripped. Admin only.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Repository.ListAll(h.DB)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to fetch users", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success": true,
		"count":   len(users),
		"users":   ToSafeUsers(users),
	})
}

type updateStatusRequest struct {
	IsActive bool `json:"isActive"`
}

// UpdateUserStatus activates or deactivates an account. Deactivation also
// revokes the stored refresh token so the session cannot silently renew.
func (h *Handler) UpdateUserStatus(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid user id", "The user id must be numeric.")
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid payload", "The request body could not be parsed.")
		return
	}

	if _, err := h.Repository.FindByID(h.DB, uint(id)); err != nil {
		utils.RespondError(w, http.StatusNotFound, "User not found", "The requested user does not exist.")
		return
	}

	if err := h.Repository.SetActive(h.DB, uint(id), req.IsActive); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update user", "An unexpected error occurred. Please try again.")
		return
	}

	if !req.IsActive {
		if err := h.Repository.ClearRefreshToken(h.DB, uint(id)); err != nil {
			log.Printf("failed to revoke refresh token for deactivated user %d: %v", id, err)
		}
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "User status updated",
	})
}

type updateRoleRequest struct {
	Role string `json:"role"`
}

func (h *Handler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid user id", "The user id must be numeric.")
		return
	}

	var req updateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid payload", "The request body could not be parsed.")
		return
	}

	if req.Role != RoleAdmin && req.Role != RoleCustomer && req.Role != RoleSeller {
		utils.RespondError(w, http.StatusBadRequest, "Invalid role", "Role must be admin, customer or seller.")
		return
	}

	if _, err := h.Repository.FindByID(h.DB, uint(id)); err != nil {
		utils.RespondError(w, http.StatusNotFound, "User not found", "The requested user does not exist.")
		return
	}

	if err := h.Repository.SetRole(h.DB, uint(id), req.Role); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to update user", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "User role updated",
	})
}

func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid user id", "The user id must be numeric.")
		return
	}

	if _, err := h.Repository.FindByID(h.DB, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.RespondError(w, http.StatusNotFound, "User not found", "The requested user does not exist.")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete user", "An unexpected error occurred. Please try again.")
		return
	}

	if err := h.Repository.Delete(h.DB, uint(id)); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Failed to delete user", "An unexpected error occurred. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success": true,
		"message": "User deleted",
	})
}
