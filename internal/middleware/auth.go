package middleware

import (
	"net/http"
	"strings"

	"github.com/CHFernandes/Opus-Fenestra-sub000/internal/model"
	"github.com/CHFernandes/Opus-Fenestra-sub000/pkg/jwt"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenStr string

		// 1. Try Authorization header first
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenStr = strings.TrimPrefix(authHeader, "Bearer ")
			if tokenStr == authHeader {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 40101, "message": "malformed token", "data": nil})
				return
			}
		}

		// 2. Fallback to query param (for SSE/EventSource which doesn't support custom headers)
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}

		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 40101, "message": "missing token", "data": nil})
			return
		}

		claims, err := jwt.ParseToken(jwtSecret, tokenStr)
		if err != nil {
			if strings.Contains(err.Error(), "expired") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 40102, "message": "token expired, please log in again", "data": nil})
			} else {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 40103, "message": "invalid token", "data": nil})
			}
			return
		}

		var person model.Person
		if err := db.First(&person, claims.PersonID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": 40103, "message": "person not found", "data": nil})
			return
		}
		if person.Status == 0 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": 40104, "message": "account is disabled", "data": nil})
			return
		}

		c.Set("personID", person.ID)
		c.Set("personRole", person.Role)
		c.Set("isAdmin", person.IsAdmin)
		c.Set("person", &person)
		c.Next()
	}
}

func GetCurrentPerson(c *gin.Context) *model.Person {
	p, exists := c.Get("person")
	if !exists {
		return nil
	}
	return p.(*model.Person)
}

func GetCurrentPersonID(c *gin.Context) uint {
	id, _ := c.Get("personID")
	return id.(uint)
}

func GetCurrentPersonRole(c *gin.Context) string {
	role, _ := c.Get("personRole")
	return role.(string)
}

func GetCurrentPersonIsAdmin(c *gin.Context) bool {
	v, exists := c.Get("isAdmin")
	if !exists {
		return false
	}
	return v.(bool)
}
