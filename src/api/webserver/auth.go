package webserver

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/veritas-ai/veritas/src/api/types"
)

type Auth struct {
	db        *gorm.DB
	jwtSecret []byte
}

func NewAuth(db *gorm.DB, secret []byte) Auth {
	return Auth{db: db, jwtSecret: secret}
}

func (a Auth) Register(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required,min=3,max=64"`
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}
	if msg := passwordPolicy(req.Password); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"err": msg})
		return
	}

	var count int64
	a.db.Model(&types.User{}).
		Where("email = ? OR username = ?", req.Email, req.Username).
		Count(&count)
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"err": "user with this email or username already exists"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": "hash password"})
		return
	}

	user := types.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          strings.ToLower(req.Email),
		PasswordHash:   string(hash),
		DisplayName:    req.Username,
		SelectedAvatar: "default",
		UserTitle:      "Truth Seeker",
	}
	if err := a.db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	a.db.Create(&types.UserStat{UserID: user.ID, UserLevel: 1})

	token, err := issueJWT(user.ID, a.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":         publicUser(user),
		"access_token": token,
	})
}

func (a Auth) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email"    binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	var user types.User
	if err := a.db.First(&user, "email = ?", strings.ToLower(req.Email)).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"err": "invalid email or password"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"err": "invalid email or password"})
		return
	}

	token, err := issueJWT(user.ID, a.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"user":         publicUser(user),
		"access_token": token,
	})
}

func (a Auth) Me(c *gin.Context) {
	var user types.User
	if err := a.db.Preload("Stats").First(&user, "id = ?", c.GetString("uid")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "user not found"})
		return
	}
	out := publicUser(user)
	if user.Stats != nil {
		out["stats"] = user.Stats
	}
	c.JSON(http.StatusOK, gin.H{"user": out})
}

func publicUser(u types.User) gin.H {
	return gin.H{
		"id":             u.ID,
		"username":       u.Username,
		"email":          u.Email,
		"displayName":    u.DisplayName,
		"photoURL":       u.PhotoURL,
		"selectedAvatar": u.SelectedAvatar,
		"userTitle":      u.UserTitle,
	}
}

// passwordPolicy mirrors the registration rules of the web client: lowercase,
// uppercase, digit and symbol all required.
func passwordPolicy(pw string) string {
	var lower, upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			symbol = true
		}
	}
	switch {
	case !lower:
		return "password must contain at least one lowercase letter"
	case !upper:
		return "password must contain at least one uppercase letter"
	case !digit:
		return "password must contain at least one number"
	case !symbol:
		return "password must contain at least one special character"
	}
	return ""
}
