package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// RoleAdmin passes every role check.
const RoleAdmin = "admin"

// JWTClaims JWT claims
type JWTClaims struct {
	UserID string   `json:"uid"`
	Name   string   `json:"name"`
	Email  string   `json:"email"`
	Roles  []string `json:"roles"`
	jwt.RegisteredClaims
}

// SignToken signs claims with HS256.
func SignToken(secret string, claims JWTClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies an HS256 token and returns its claims.
func ParseToken(secret, raw string) (*JWTClaims, error) {
	claims := &JWTClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims.UserID == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// bearerToken reads the Authorization header, then the token query
// parameter. EventSource cannot set headers.
func bearerToken(c *gin.Context) string {
	if scheme, tok, ok := strings.Cut(c.GetHeader("Authorization"), " "); ok && scheme == "Bearer" {
		return tok
	}
	return c.Query("token")
}

func reject(c *gin.Context, status, code int, message string) {
	c.AbortWithStatusJSON(status, gin.H{"code": code, "message": message})
}

// JWTAuth JWT 인증 미들웨어
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			reject(c, http.StatusUnauthorized, 40100, "로그인이 필요합니다")
			return
		}
		claims, err := ParseToken(secret, raw)
		if err != nil {
			reject(c, http.StatusUnauthorized, 40101, "토큰이 유효하지 않거나 만료되었습니다")
			return
		}
		c.Set(KeyUserID, claims.UserID)
		c.Set(KeyRoles, claims.Roles)
		c.Set(KeyClaims, claims)
		c.Next()
	}
}

// RequireRole 역할 확인 미들웨어
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roles, _ := c.Get(KeyRoles)
		held, _ := roles.([]string)
		if slices.Contains(held, role) || slices.Contains(held, RoleAdmin) {
			c.Next()
			return
		}
		reject(c, http.StatusForbidden, 40300, "권한이 없습니다: "+role)
	}
}
