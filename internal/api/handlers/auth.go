package handlers

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxkhm/SageBot/internal/api/auth"
	"github.com/maxkhm/SageBot/pkg/config"
)

func GenerateJWTHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			Secret string `json:"secret" binding:"required"`
		}

		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "secret is required"})
			return
		}

		if subtle.ConstantTimeCompare([]byte(request.Secret), []byte(config.APISecret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid secret"})
			return
		}

		token, err := auth.GenerateTokenJWT()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token})
	}
}
