package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/maxkhm/SageBot/internal/database/repositories"
	"github.com/maxkhm/SageBot/internal/subscription"
)

func UserSubscriptionHandler(sched *subscription.Scheduler, subs *repositories.SubscriptionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user id must be a number"})
			return
		}

		// Settle any lapsed or due grants before reporting.
		if err := sched.Promote(c, userID); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh grants"})
			return
		}

		grant, err := sched.GetEffectiveGrant(c, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve active grant"})
			return
		}

		history, err := subs.GetGrantHistory(c, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load grant history"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"userId":  userID,
			"active":  grant,
			"history": history,
		})
	}
}
