package auth

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/minifigstore/api/internal/mailer"
	"github.com/minifigstore/api/internal/user"
	"github.com/minifigstore/api/internal/utils"
)

const (
	registerVerificationWindow = 24 * time.Hour
	resendVerificationWindow   = time.Hour
)

type Handler struct {
	DB          *gorm.DB
	Users       user.Repository
	Codec       *Codec
	Issuer      *Issuer
	Mailer      mailer.Mailer
	FrontendURL string
}

func NewHandler(db *gorm.DB, codec *Codec, issuer *Issuer, m mailer.Mailer, frontendURL string) *Handler {
	return &Handler{
		DB:          db,
		Users:       issuer.Users,
		Codec:       codec,
		Issuer:      issuer,
		Mailer:      m,
		FrontendURL: frontendURL,
	}
}

type registerRequest struct {
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Username      string `json:"username"`
	Email         string `json:"email"`
	ContactNumber string `json:"contactNumber"`
	Password      string `json:"password"`
}

// Register creates an account and mails a verification link.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid payload", "The request body could not be parsed.")
		return
	}

	if req.FirstName == "" || req.LastName == "" || req.Username == "" ||
		req.Email == "" || req.ContactNumber == "" || req.Password == "" {
		utils.RespondError(w, http.StatusBadRequest, "All fields are required", "Please complete all fields to create your account.")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.ToLower(strings.TrimSpace(req.Username))

	if _, err := h.Users.FindByEmailOrUsername(h.DB, email); err == nil {
		utils.RespondError(w, http.StatusConflict, "Email already registered", "An account with this email already exists. Please sign in or use a different email.")
		return
	}
	if _, err := h.Users.FindByEmailOrUsername(h.DB, username); err == nil {
		utils.RespondError(w, http.StatusConflict, "Username already taken", "This username is already taken. Please choose a different username.")
		return
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Registration failed", "An unexpected error occurred during registration. Please try again.")
		return
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Registration failed", "An unexpected error occurred during registration. Please try again.")
		return
	}
	tokenExpiry := time.Now().Add(registerVerificationWindow)

	u := user.User{
		FirstName:               req.FirstName,
		LastName:                req.LastName,
		Username:                username,
		Email:                   email,
		ContactNumber:           req.ContactNumber,
		Password:                hash,
		Role:                    user.RoleCustomer,
		IsActive:                true,
		IsVerified:              false,
		VerificationToken:       &token,
		VerificationTokenExpiry: &tokenExpiry,
	}
	if err := h.Users.Save(h.DB, &u); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Registration failed", "An unexpected error occurred during registration. Please try again.")
		return
	}

	// Registration stands even if the verification mail cannot be handed off.
	if err := h.sendVerificationMail(&u, token); err != nil {
		log.Printf("failed to send verification email to %s: %v", u.Email, err)
	}

	utils.RespondJSON(w, http.StatusCreated, utils.M{
		"success":     true,
		"message":     "Your account has been created",
		"description": "Please check your email to verify your account.",
		"user":        user.ToSafeUser(&u),
	})
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Login validates credentials and opens a session: both cookies set, refresh
// token recorded on the account.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "Invalid payload", "The request body could not be parsed.")
		return
	}

	if req.Identifier == "" || req.Password == "" {
		utils.RespondError(w, http.StatusBadRequest, "Email/username and password required", "Please enter your email or username and password to sign in.")
		return
	}

	u, err := h.Users.FindByEmailOrUsername(h.DB, req.Identifier)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials", "The email/username or password you entered is incorrect. Please try again.")
		return
	}

	if !u.IsActive {
		utils.RespondError(w, http.StatusForbidden, "Account deactivated", "Your account has been deactivated. Please contact support to reactivate it.")
		return
	}

	if !utils.CheckPassword(u.Password, req.Password) {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid credentials", "The email/username or password you entered is incorrect. Please try again.")
		return
	}

	access, err := h.Issuer.IssueSession(h.DB, w, u)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Login failed", "An unexpected error occurred. Please try again in a moment.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success":     true,
		"message":     "Login successful",
		"description": "Welcome back!",
		"user":        user.ToSafeUser(u),
		"accessToken": access,
	})
}

// Logout revokes the stored refresh token and clears both cookies.
// Revoking an already-revoked session is a success.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if c, err := r.Cookie(RefreshCookie); err == nil && c.Value != "" {
		if userID, err := h.Codec.VerifyRefresh(c.Value); err == nil {
			if err := h.Users.ClearRefreshToken(h.DB, userID); err != nil {
				log.Printf("failed to clear refresh token on logout for user %d: %v", userID, err)
			}
		}
	}

	h.Issuer.ClearAuthCookies(w)

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success":     true,
		"message":     "Logout successful",
		"description": "You have been signed out successfully.",
	})
}

// Refresh rotates the pair: the presented refresh token must verify, match
// the stored copy and be inside its stored expiry, and is then replaced.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie(RefreshCookie)
	if err != nil || c.Value == "" {
		utils.RespondError(w, http.StatusUnauthorized, "Refresh token is required", "Please sign in again to continue.")
		return
	}
	presented := c.Value

	userID, err := h.Codec.VerifyRefresh(presented)
	if err != nil {
		utils.RespondError(w, http.StatusUnauthorized, "Invalid or expired token", "Your session has expired. Please sign in again to continue.")
		return
	}

	u, err := h.Users.FindByID(h.DB, userID)
	if err != nil || !u.IsActive {
		utils.RespondError(w, http.StatusUnauthorized, "User not found or inactive", "Your account is not available. Please sign in again to continue.")
		return
	}

	if u.RefreshToken == nil || *u.RefreshToken != presented {
		if err := h.Users.ClearRefreshToken(h.DB, u.ID); err != nil {
			log.Printf("failed to revoke refresh token for user %d: %v", u.ID, err)
		}
		utils.RespondError(w, http.StatusUnauthorized, "Invalid token", "Your session is invalid. Please sign in again to continue.")
		return
	}

	if u.RefreshTokenExpiry == nil || u.RefreshTokenExpiry.Before(time.Now()) {
		if err := h.Users.ClearRefreshToken(h.DB, u.ID); err != nil {
			log.Printf("failed to clear expired refresh token for user %d: %v", u.ID, err)
		}
		h.Issuer.ClearAuthCookies(w)
		utils.RespondError(w, http.StatusUnauthorized, "Session expired", "Your session has expired. Please sign in again to continue.")
		return
	}

	access, _, err := h.Issuer.Rotate(h.DB, w, u.ID)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Token refresh failed", "An unexpected error occurred while refreshing your session. Please sign in again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success":     true,
		"accessToken": access,
	})
}

// Me returns the identity the gate attached.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	u, ok := CurrentUser(r)
	if !ok {
		utils.RespondError(w, http.StatusUnauthorized, "Authentication required", "Please sign in to access this resource.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success": true,
		"user":    u,
	})
}

// VerifyEmail consumes a verification link token.
func (h *Handler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		utils.RespondError(w, http.StatusBadRequest, "Verification token is required", "Please use the verification link from your email.")
		return
	}

	u, err := h.Users.FindByVerificationToken(h.DB, token)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Invalid verification link", "The verification link is not valid. It may have been changed or already replaced. Please request a new verification email.")
		return
	}

	// Token left in place so repeated clicks still report 'expired'.
	if u.VerificationTokenExpiry != nil && u.VerificationTokenExpiry.Before(time.Now()) {
		utils.RespondError(w, http.StatusBadRequest, "Verification link expired", "The verification link has expired. Please enter your registered email to get a new link.")
		return
	}

	if u.IsVerified {
		utils.RespondJSON(w, http.StatusOK, utils.M{
			"success":     true,
			"message":     "Email is already verified",
			"description": "You can sign in to your account.",
		})
		return
	}

	u.IsVerified = true
	u.VerificationToken = nil
	u.VerificationTokenExpiry = nil
	if err := h.Users.Save(h.DB, u); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Verification failed", "An unexpected error occurred during verification. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success":     true,
		"message":     "Email verified",
		"description": "Your email has been verified successfully. You can now sign in to your account.",
	})
}

type resendVerificationRequest struct {
	Email string `json:"email"`
}

// ResendVerification issues a fresh verification token for an unverified
// account.
func (h *Handler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req resendVerificationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Email == "" {
		utils.RespondError(w, http.StatusBadRequest, "Email is required", "Please provide the email you used to register.")
		return
	}

	u, err := h.Users.FindByEmailOrUsername(h.DB, req.Email)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "Email not found", "We couldn't find an account registered with that email. Please check or try again with a different email.")
		return
	}

	if u.IsVerified {
		utils.RespondJSON(w, http.StatusOK, utils.M{
			"success":     true,
			"message":     "Email already verified",
			"description": "You can sign in to your account.",
		})
		return
	}

	token, err := utils.GenerateSecureToken(32)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Unable to resend verification email", "An unexpected error occurred while sending the verification email. Please try again.")
		return
	}
	tokenExpiry := time.Now().Add(resendVerificationWindow)

	u.VerificationToken = &token
	u.VerificationTokenExpiry = &tokenExpiry
	if err := h.Users.Save(h.DB, u); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Unable to resend verification email", "An unexpected error occurred while sending the verification email. Please try again.")
		return
	}

	if err := h.sendVerificationMail(u, token); err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "Unable to resend verification email", "An unexpected error occurred while sending the verification email. Please try again.")
		return
	}

	utils.RespondJSON(w, http.StatusOK, utils.M{
		"success":     true,
		"message":     "Verification email sent",
		"description": "A new verification link has been sent to your email address.",
	})
}

func (h *Handler) sendVerificationMail(u *user.User, token string) error {
	link := fmt.Sprintf("%s/verify-email?token=%s", h.FrontendURL, token)
	body := fmt.Sprintf("Hi %s, please verify your email address: %s", u.FirstName, link)
	return h.Mailer.Send(u.Email, "Verify Your Email Address", body)
}
