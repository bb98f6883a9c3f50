package handlers

import (
	"net/http"

	"restopos/internal/apierr"
	"restopos/internal/auth"
	"restopos/internal/database"
	"restopos/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, "username and password are required")
		return
	}

	var user models.User
	if err := database.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		respondErr(c, apierr.Unauthorized("Invalid credentials"))
		return
	}
	if !user.IsActive {
		respondErr(c, apierr.Unauthorized("User inactive"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		respondErr(c, apierr.Unauthorized("Invalid credentials"))
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		respondErr(c, apierr.Server(err))
		return
	}

	respondOK(c, http.StatusOK, gin.H{
		"token":    token,
		"role":     user.Role,
		"username": user.Username,
		"name":     user.Name,
	})
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// Register creates a staff account. Only routed when ALLOW_REGISTRATION=true.
func Register(c *gin.Context) {
	var input RegisterRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		badInput(c, "username, password and role are required")
		return
	}
	switch input.Role {
	case "admin", "cashier", "kitchen":
	default:
		respondErr(c, apierr.Validation("Invalid role").WithDetail("field", "role"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		respondErr(c, apierr.Server(err))
		return
	}
	user := models.User{
		Name:         input.Name,
		Username:     input.Username,
		PasswordHash: string(hash),
		Role:         input.Role,
		IsActive:     true,
	}
	if err := database.DB.Create(&user).Error; err != nil {
		respondErr(c, apierr.Constraint("Username already taken"))
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"id": user.ID, "username": user.Username, "role": user.Role})
}
