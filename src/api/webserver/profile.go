package webserver

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/veritas-ai/veritas/src/api/types"
)

type Profile struct {
	db *gorm.DB
}

func NewProfile(db *gorm.DB) Profile {
	return Profile{db: db}
}

func (h Profile) Get(c *gin.Context) {
	var user types.User
	if err := h.db.Preload("Stats").First(&user, "id = ?", c.GetString("uid")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "user not found"})
		return
	}

	stats := user.Stats
	if stats == nil {
		stats = &types.UserStat{UserID: user.ID, UserLevel: 1}
	}
	c.JSON(http.StatusOK, gin.H{
		"user":  publicUser(user),
		"stats": stats,
	})
}

func (h Profile) Update(c *gin.Context) {
	var req struct {
		DisplayName    *string `json:"displayName"`
		PhotoURL       *string `json:"photoURL"`
		SelectedAvatar *string `json:"selectedAvatar"`
		UserTitle      *string `json:"userTitle"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"err": err.Error()})
		return
	}

	var user types.User
	if err := h.db.First(&user, "id = ?", c.GetString("uid")).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"err": "user not found"})
		return
	}

	updates := map[string]any{}
	if req.DisplayName != nil {
		if len(*req.DisplayName) > 64 {
			c.JSON(http.StatusBadRequest, gin.H{"err": "display name too long"})
			return
		}
		updates["display_name"] = *req.DisplayName
	}
	if req.PhotoURL != nil {
		updates["photo_url"] = *req.PhotoURL
	}
	if req.SelectedAvatar != nil {
		updates["selected_avatar"] = *req.SelectedAvatar
	}
	if req.UserTitle != nil {
		updates["user_title"] = *req.UserTitle
	}
	if len(updates) > 0 {
		if err := h.db.Model(&user).Updates(updates).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"err": err.Error()})
			return
		}
	}

	h.db.First(&user, "id = ?", user.ID)
	c.JSON(http.StatusOK, gin.H{"user": publicUser(user)})
}
