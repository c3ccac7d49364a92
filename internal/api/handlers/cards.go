package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/maxkhm/SageBot/internal/database/repositories"
	"gorm.io/gorm"
)

const maxCardsPerRequest = 100

func CreateCardsHandler(plans *repositories.PlanRepository, cards *repositories.CardRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var request struct {
			PlanCode  string     `json:"planCode" binding:"required"`
			ValidDays int        `json:"validDays"`
			Count     int        `json:"count"`
			ExpiresAt *time.Time `json:"expiresAt"`
		}

		if err := c.ShouldBindJSON(&request); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "planCode is required"})
			return
		}

		if request.Count <= 0 {
			request.Count = 1
		}
		if request.Count > maxCardsPerRequest {
			c.JSON(http.StatusBadRequest, gin.H{"error": "count exceeds the per-request limit"})
			return
		}
		if request.ValidDays < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validDays must not be negative"})
			return
		}

		plan, err := plans.GetPlanByCode(c, request.PlanCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up plan"})
			return
		}
		if !plan.IsActive {
			c.JSON(http.StatusConflict, gin.H{"error": "plan is retired"})
			return
		}

		codes := make([]string, 0, request.Count)
		for i := 0; i < request.Count; i++ {
			card, err := cards.CreateCard(c, plan.ID, request.ValidDays, request.ExpiresAt)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{
					"error":   "failed to create card",
					"created": codes,
				})
				return
			}
			codes = append(codes, card.Code)
		}

		c.JSON(http.StatusCreated, gin.H{
			"planCode": plan.Code,
			"codes":    codes,
		})
	}
}
