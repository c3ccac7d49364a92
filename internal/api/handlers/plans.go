package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/maxkhm/SageBot/internal/database/repositories"
)

func ListPlansHandler(plans *repositories.PlanRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := plans.ListActivePlans(c)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list plans"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"plans": list})
	}
}
