package main

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/MikeMC777/checkout-ecom/internal/checkout"
	ord "github.com/MikeMC777/checkout-ecom/internal/order"
	"github.com/MikeMC777/checkout-ecom/internal/postgres"
)

// orderPlacer is what the handlers need from the checkout service.
type orderPlacer interface {
	PlaceOrder(ctx context.Context, buyerID string, req *checkout.PlaceOrderRequest) (string, error)
}

var pageRe = regexp.MustCompile(`^[0-9]+$`)

// buyerID reads the authenticated user set by the gateway. Authentication
// itself happens upstream, but the id must still be a uuid before it
// reaches a uuid-typed column.
func buyerID(c *gin.Context) (string, bool) {
	id := c.GetHeader("X-User-ID")
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil || len(id) != 36 {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user identity"})
		return "", false
	}
	return id, true
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, checkout.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, checkout.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, checkout.ErrInsufficientStock):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage hides internal failures from the caller; everything the
// client caused echoes back with the offending field or id.
func publicMessage(err error) string {
	if statusFor(err) == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}

func createOrderHandler(svc orderPlacer) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := buyerID(c)
		if !ok {
			return
		}
		var req checkout.PlaceOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json body"})
			return
		}
		id, err := svc.PlaceOrder(c.Request.Context(), uid, &req)
		if err != nil {
			c.JSON(statusFor(err), gin.H{"error": publicMessage(err)})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"order_id": id})
	}
}

func listOrdersHandler(repo ord.Repository, q postgres.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := buyerID(c)
		if !ok {
			return
		}
		page := c.DefaultQuery("page", "1")
		if !pageRe.MatchString(page) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a positive integer"})
			return
		}
		n, err := strconv.Atoi(page)
		if err != nil || n < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "page must be a positive integer"})
			return
		}
		orders, total, err := repo.ListByBuyer(c.Request.Context(), q, uid, n)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if orders == nil {
			orders = []ord.Summary{}
		}
		c.JSON(http.StatusOK, gin.H{
			"orders": orders,
			"pagination": gin.H{
				"page":  n,
				"limit": 10,
				"total": total,
			},
		})
	}
}

func getOrderHandler(repo ord.Repository, q postgres.Querier) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := buyerID(c)
		if !ok {
			return
		}
		orderID := c.Param("order_id")
		if _, err := uuid.Parse(orderID); err != nil || len(orderID) != 36 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "order_id must be a uuid"})
			return
		}
		d, err := repo.GetDetail(c.Request.Context(), q, uid, orderID)
		if err != nil {
			if errors.Is(err, ord.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		c.JSON(http.StatusOK, d)
	}
}
