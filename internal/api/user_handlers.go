package api

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/example/stockledger/internal/api/middleware"
	"github.com/example/stockledger/internal/auth"
	"github.com/example/stockledger/internal/infrastructure/store"
	"github.com/example/stockledger/internal/model"
)

// UserHandlers handles authentication and user management.
type UserHandlers struct {
	users      store.UserStore
	roles      store.RoleStore
	jwtService *auth.JWTService
}

func NewUserHandlers(users store.UserStore, roles store.RoleStore, jwtService *auth.JWTService) *UserHandlers {
	return &UserHandlers{users: users, roles: roles, jwtService: jwtService}
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	RoleID   string `json:"role_id"`
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	RoleID    string    `json:"role_id"`
	RoleName  string    `json:"role_name"`
	Token     string    `json:"token,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func userResponse(u *model.User, token string) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		RoleID:    u.RoleID,
		RoleName:  u.RoleName,
		Token:     token,
		CreatedAt: u.CreatedAt,
	}
}

// Login authenticates a user and issues an access token.
func (h *UserHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	if errors.Is(err, store.ErrUserNotFound) || (err == nil && !auth.CheckPassword(req.Password, user.PasswordHash)) {
		respondError(w, "Invalid email or password", http.StatusUnauthorized)
		return
	}
	if err != nil {
		respondError(w, "Login failed", http.StatusInternalServerError)
		return
	}

	token := h.issueToken(w, r, user)
	respondJSON(w, http.StatusOK, userResponse(user, token))
}

// Register creates a user account. When no role is given the default
// Staff role applies if it exists.
func (h *UserHandlers) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Email == "" {
		respondError(w, "Name and email are required", http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			respondError(w, "Password must be at least 8 characters", http.StatusBadRequest)
			return
		}
		respondError(w, "Registration failed", http.StatusInternalServerError)
		return
	}

	roleID := req.RoleID
	roleName := ""
	if roleID == "" {
		if role, err := h.roles.GetByName(r.Context(), "Staff"); err == nil {
			roleID = role.ID
			roleName = role.Name
		}
	} else if role, err := h.roles.GetByID(r.Context(), roleID); err == nil {
		roleName = role.Name
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		RoleID:       roleID,
		RoleName:     roleName,
	}
	if err := h.users.Create(r.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			respondError(w, "Email already registered", http.StatusBadRequest)
			return
		}
		respondError(w, "Registration failed", http.StatusInternalServerError)
		return
	}

	token := h.issueToken(w, r, user)
	respondJSON(w, http.StatusCreated, userResponse(user, token))
}

// Me returns the current authenticated user's information
func (h *UserHandlers) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	user, err := h.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, "User not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, userResponse(user, ""))
}

// UpdateProfile lets the caller change their own name, email or
// password.
func (h *UserHandlers) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserFromContext(r.Context())
	if !ok {
		respondError(w, "Not authorized", http.StatusUnauthorized)
		return
	}

	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetByID(r.Context(), claims.UserID)
	if err != nil {
		respondError(w, "User not found", http.StatusNotFound)
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respondError(w, "Password must be at least 8 characters", http.StatusBadRequest)
			return
		}
		user.PasswordHash = hash
	}

	if err := h.users.Update(r.Context(), user); err != nil {
		respondError(w, "Failed to update profile", storeErrorStatus(err))
		return
	}
	respondJSON(w, http.StatusOK, userResponse(user, ""))
}

// ListUsers returns all users (requires manage_users).
func (h *UserHandlers) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		respondError(w, "Failed to fetch users", http.StatusInternalServerError)
		return
	}

	responses := make([]UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, userResponse(u, ""))
	}
	respondJSON(w, http.StatusOK, responses)
}

// UpdateUser updates another user's name, email or role.
func (h *UserHandlers) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/users/")

	var req struct {
		Name   string `json:"name"`
		Email  string `json:"email"`
		RoleID string `json:"role_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetByID(r.Context(), id)
	if errors.Is(err, store.ErrUserNotFound) {
		respondError(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		respondError(w, "Failed to fetch user", http.StatusInternalServerError)
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.RoleID != "" {
		user.RoleID = req.RoleID
	}

	if err := h.users.Update(r.Context(), user); err != nil {
		respondError(w, "Failed to update user", storeErrorStatus(err))
		return
	}
	respondJSON(w, http.StatusOK, userResponse(user, ""))
}

// DeleteUser removes a user account.
func (h *UserHandlers) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := extractPathParam(r.URL.Path, "/api/users/")

	err := h.users.Delete(r.Context(), id)
	if errors.Is(err, store.ErrUserNotFound) {
		respondError(w, "User not found", http.StatusNotFound)
		return
	}
	if err != nil {
		respondError(w, "Failed to delete user", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "User removed"})
}

// SeedAdmin creates or updates the Admin role with the full permission
// catalog and an admin account. Idempotent so it can run on every
// deploy.
func (h *UserHandlers) SeedAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	role, err := h.roles.GetByName(r.Context(), auth.AdminRoleName)
	switch {
	case errors.Is(err, store.ErrRoleNotFound):
		role = &model.Role{
			Name:        auth.AdminRoleName,
			Description: "Super Administrator with full access",
			Permissions: auth.AllPermissions,
		}
		if err := h.roles.Create(r.Context(), role); err != nil {
			respondError(w, "Failed to seed admin role", http.StatusInternalServerError)
			return
		}
		log.Printf("[API] Admin role created")
	case err != nil:
		respondError(w, "Failed to seed admin role", http.StatusInternalServerError)
		return
	default:
		role.Permissions = auth.AllPermissions
		if err := h.roles.Update(r.Context(), role); err != nil {
			respondError(w, "Failed to seed admin role", http.StatusInternalServerError)
			return
		}
		log.Printf("[API] Admin role updated with all permissions")
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, "Password must be at least 8 characters", http.StatusBadRequest)
		return
	}

	user, err := h.users.GetByEmail(r.Context(), req.Email)
	switch {
	case errors.Is(err, store.ErrUserNotFound):
		user = &model.User{
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			RoleID:       role.ID,
			RoleName:     role.Name,
		}
		if err := h.users.Create(r.Context(), user); err != nil {
			respondError(w, "Failed to seed admin user", http.StatusInternalServerError)
			return
		}
		log.Printf("[API] Admin user created")
	case err != nil:
		respondError(w, "Failed to seed admin user", http.StatusInternalServerError)
		return
	default:
		user.Name = req.Name
		user.RoleID = role.ID
		user.PasswordHash = hash
		if err := h.users.Update(r.Context(), user); err != nil {
			respondError(w, "Failed to seed admin user", http.StatusInternalServerError)
			return
		}
		log.Printf("[API] Admin user updated")
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Admin seeding completed successfully",
		"role":    role,
		"user": map[string]string{
			"name":  user.Name,
			"email": user.Email,
			"role":  role.Name,
		},
	})
}

// issueToken generates an access token, sets it as an HTTP-only cookie
// for browser clients and returns it for API clients.
func (h *UserHandlers) issueToken(w http.ResponseWriter, r *http.Request, user *model.User) string {
	token, expiresAt, err := h.jwtService.GenerateToken(user.ID, user.Email, user.RoleID, user.RoleName)
	if err != nil {
		log.Printf("[API] Failed to generate token: %v", err)
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "access_token",
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	return token
}
