package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	middleware "github.com/phillip/nonprofit-site-go/middleware"
	models "github.com/phillip/nonprofit-site-go/models"
	store "github.com/phillip/nonprofit-site-go/store"
)

type registerInput struct {
	Name     string `json:"name" binding:"required,min=2"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type loginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// ---------------- REGISTER ----------------

// Register creates an account. While no admin exists the new account becomes one.
func Register(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input registerInput
		if !bindJSON(c, &input) {
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			env.internalError(c, err, "could not register user")
			return
		}

		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		admins, err := env.Repos.Users.Count(ctx, models.UserFilter{Role: models.RoleAdmin})
		if err != nil {
			env.internalError(c, err, "could not register user")
			return
		}
		role := models.RoleUser
		if admins == 0 {
			role = models.RoleAdmin
		}

		ts := now()
		user := models.User{
			ID:        primitive.NewObjectID(),
			Email:     strings.ToLower(strings.TrimSpace(input.Email)),
			Password:  string(hash),
			Name:      strings.TrimSpace(input.Name),
			Role:      role,
			CreatedAt: ts,
			UpdatedAt: ts,
		}
		if err := env.Repos.Users.Create(ctx, &user); err != nil {
			if errors.Is(err, store.ErrDuplicate) {
				respondError(c, http.StatusConflict, "An account with this email already exists")
				return
			}
			env.internalError(c, err, "could not register user")
			return
		}

		env.Log.Info().Str("email", user.Email).Str("role", user.Role).Msg("user registered")
		c.JSON(http.StatusCreated, user)
	}
}

// ---------------- LOGIN ----------------
func Login(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input loginInput
		if !bindJSON(c, &input) {
			return
		}

		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		user, err := env.Repos.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(input.Email)))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				respondError(c, http.StatusUnauthorized, "invalid email or password")
				return
			}
			env.internalError(c, err, "could not sign in")
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)) != nil {
			respondError(c, http.StatusUnauthorized, "invalid email or password")
			return
		}

		token, err := env.Tokens.Issue(user)
		if err != nil {
			env.internalError(c, err, "could not sign in")
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.SessionCookie, token, int(env.Tokens.TTL().Seconds()), "/", "", env.Cfg.CookieSecure, true)
		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"user":  user,
		})
	}
}

// ---------------- LOGOUT ----------------
func Logout(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(middleware.SessionCookie, "", -1, "/", "", env.Cfg.CookieSecure, true)
		c.JSON(http.StatusOK, gin.H{"message": "signed out"})
	}
}

// ---------------- SESSION ----------------
func Session(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.ClaimsFrom(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "authentication required")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"user": gin.H{
				"id":    claims.UserID,
				"name":  claims.Name,
				"email": claims.Email,
				"role":  claims.Role,
			},
			"expiresAt": claims.ExpiresAt,
		})
	}
}

// ---------------- ADMIN: LIST USERS ----------------
func ListUsers(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		filter := models.UserFilter{Role: c.Query("role")}
		if filter.Role != "" && filter.Role != models.RoleAdmin && filter.Role != models.RoleUser {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid role filter",
				"details": gin.H{"allowed": []string{models.RoleAdmin, models.RoleUser}},
			})
			return
		}

		ctx, cancel := withTimeout(c, listTimeout)
		defer cancel()

		users, err := env.Repos.Users.List(ctx, filter)
		if err != nil {
			env.internalError(c, err, "could not fetch users")
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

// ---------------- ADMIN: UPDATE USER ----------------

// UpdateUser refuses to demote the caller or the last remaining admin.
func UpdateUser(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "user")
		if !ok {
			return
		}

		var patch models.UserPatch
		if !bindJSON(c, &patch) {
			return
		}
		if patch.Empty() {
			respondError(c, http.StatusBadRequest, "no fields to update")
			return
		}

		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		target, err := env.Repos.Users.Get(ctx, id)
		if err != nil {
			env.storeError(c, err, "user", "could not fetch user")
			return
		}

		if patch.Role != nil && *patch.Role != models.RoleAdmin && target.Role == models.RoleAdmin {
			if id.Hex() == c.GetString("user_id") {
				respondError(c, http.StatusForbidden, "You cannot remove your own admin role")
				return
			}
			admins, err := env.Repos.Users.Count(ctx, models.UserFilter{Role: models.RoleAdmin})
			if err != nil {
				env.internalError(c, err, "could not update user")
				return
			}
			if admins <= 1 {
				respondError(c, http.StatusForbidden, "Cannot demote the last admin")
				return
			}
		}

		ts := now()
		patch.UpdatedAt = &ts
		updated, err := env.Repos.Users.Update(ctx, id, patch)
		if err != nil {
			env.storeError(c, err, "user", "could not update user")
			return
		}
		c.JSON(http.StatusOK, updated)
	}
}

// ---------------- ADMIN: DELETE USER ----------------
func DeleteUser(env *Env) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := objectIDParam(c, "user")
		if !ok {
			return
		}
		if id.Hex() == c.GetString("user_id") {
			respondError(c, http.StatusForbidden, "You cannot delete your own account")
			return
		}

		ctx, cancel := withTimeout(c, dbTimeout)
		defer cancel()

		if err := env.Repos.Users.Delete(ctx, id); err != nil {
			env.storeError(c, err, "user", "failed to delete user")
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "user deleted successfully",
			"id":      id.Hex(),
		})
	}
}
