package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// devOrigins are the local frontend dev servers allowed to call the API.
var devOrigins = map[string]bool{
	"http://localhost:3000": true,
	"http://localhost:5173": true,
}

// CORS allows the known dev frontends to reach the API and answers
// preflight requests.
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if devOrigins[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		}
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
