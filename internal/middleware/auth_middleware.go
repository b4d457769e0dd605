package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/flightsync/booking-backend/internal/models"
	"github.com/flightsync/booking-backend/pkg/jwt"
)

// CustomerContextKey is the key used to store customer information in
// the Gin context
const CustomerContextKey = "customer"

// CustomerContext represents the authenticated customer's information
type CustomerContext struct {
	CustomerID int64  `json:"cust_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

// AuthMiddleware validates the bearer token and stores the customer
// context for downstream handlers
func AuthMiddleware(jwtManager *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Authorization header is required",
			})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid authorization header format. Expected: Bearer <token>",
			})
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(parts[1])
		claims, err := jwtManager.Validate(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_token",
				"message": "Invalid or expired access token",
			})
			c.Abort()
			return
		}

		c.Set(CustomerContextKey, CustomerContext{
			CustomerID: claims.CustomerID,
			Email:      claims.Email,
			Role:       claims.Role,
		})

		c.Next()
	}
}

// RequireAdmin rejects requests whose token does not carry the admin
// role. Must run after AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		customerCtx, exists := GetCustomerContext(c)
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Customer context not found",
			})
			c.Abort()
			return
		}

		if customerCtx.Role != string(models.RoleAdmin) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "Admin access required",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetCustomerContext retrieves the authenticated customer from the Gin
// context
func GetCustomerContext(c *gin.Context) (CustomerContext, bool) {
	value, exists := c.Get(CustomerContextKey)
	if !exists {
		return CustomerContext{}, false
	}

	customerCtx, ok := value.(CustomerContext)
	return customerCtx, ok
}
