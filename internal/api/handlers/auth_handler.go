package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"scouthub/internal/pkg/respond"
	"scouthub/internal/platform/auth"
	"scouthub/internal/platform/models"
	"scouthub/internal/platform/repositories"
)

type AuthHandler struct {
	userRepo *repositories.UserRepository
	tokenSvc *auth.TokenService
}

func NewAuthHandler(userRepo *repositories.UserRepository, tokenSvc *auth.TokenService) *AuthHandler {
	return &AuthHandler{userRepo: userRepo, tokenSvc: tokenSvc}
}

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type TokenResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Role != models.RolePlayer && req.Role != models.RoleOrganization {
		respond.Error(w, http.StatusBadRequest, "Role must be player or organization")
		return
	}

	existing, err := h.userRepo.GetByEmail(req.Email)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if existing != nil {
		respond.Error(w, http.StatusBadRequest, "Email already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	user := &models.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         req.Role,
		CreatedAt:    time.Now().Unix(),
	}
	if err := h.userRepo.Create(user); err != nil {
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	h.writeTokens(w, http.StatusCreated, user)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userRepo.GetByEmail(req.Email)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		respond.Error(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	h.writeTokens(w, http.StatusOK, user)
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, err := h.tokenSvc.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		respond.Error(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	user, err := h.userRepo.GetByID(userID)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if user == nil {
		respond.Error(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	h.writeTokens(w, http.StatusOK, user)
}

func (h *AuthHandler) writeTokens(w http.ResponseWriter, status int, user *models.User) {
	access, err := h.tokenSvc.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	refresh, err := h.tokenSvc.GenerateRefreshToken(user.ID)
	if err != nil {
		respond.Error(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respond.Data(w, status, &TokenResponse{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
	})
}
