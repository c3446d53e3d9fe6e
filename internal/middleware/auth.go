package middleware

import (
	"fmt"
	"restaurant-checkout/internal/repository"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const CustomerContextKey = "customer"

// AuthMiddleware resolves the signed-in customer from a bearer token.
// Requests without a valid token continue as guests; whether a guest may
// check out is decided later by the order workflow.
func AuthMiddleware(secret string, customers repository.CustomerRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return next(c)
			}

			token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				return next(c)
			}

			subject, err := token.Claims.GetSubject()
			if err != nil {
				return next(c)
			}
			customerID, err := strconv.ParseUint(subject, 10, 64)
			if err != nil {
				return next(c)
			}

			customer, err := customers.FindByID(c.Request().Context(), uint(customerID))
			if err == nil && customer != nil {
				c.Set(CustomerContextKey, customer)
			}

			return next(c)
		}
	}
}
