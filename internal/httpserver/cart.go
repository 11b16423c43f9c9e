package httpserver

import (
	"net/http"

	"greenville/internal/domain"
	"github.com/gin-gonic/gin"
)

type itemsResponse struct {
	Items []domain.LineItem `json:"items"`
}

type entriesRequest struct {
	Items []domain.CartEntry `json:"items"`
}

func getCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		customer := currentCustomer(c)
		items, err := svc.Items(c.Request.Context(), customer.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		if items == nil {
			items = []domain.LineItem{}
		}
		c.JSON(http.StatusOK, itemsResponse{Items: items})
	}
}

func syncCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req entriesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
			return
		}
		customer := currentCustomer(c)
		if err := svc.Sync(c.Request.Context(), customer.ID, req.Items); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	}
}

func mergeCartHandler(svc CartService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req entriesRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid body"})
			return
		}
		customer := currentCustomer(c)
		items, err := svc.Merge(c.Request.Context(), customer.ID, req.Items)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"message": "server error"})
			return
		}
		if items == nil {
			items = []domain.LineItem{}
		}
		c.JSON(http.StatusOK, itemsResponse{Items: items})
	}
}
