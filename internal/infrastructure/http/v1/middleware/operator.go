package middleware

import (
	"github.com/gin-gonic/gin"

	appctx "voltstock/internal/core/context"
)

const (
	HeaderOperator           = "X-Operator"
	HeaderOperatorDepartment = "X-Operator-Department"
)

// Operator middleware extracts the acting operator from request headers
// and makes it available to the domain layer for audit fields.
func Operator() gin.HandlerFunc {
	return func(c *gin.Context) {
		name := c.GetHeader(HeaderOperator)
		if name == "" {
			c.Next()
			return
		}

		op := &appctx.OperatorContext{
			Name:       name,
			Department: c.GetHeader(HeaderOperatorDepartment),
		}
		ctx := appctx.WithOperator(c.Request.Context(), op)
		c.Request = c.Request.WithContext(ctx)

		c.Set("operator", name)
		c.Next()
	}
}
