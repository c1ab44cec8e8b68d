package devserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/craftline/shopadmin/internal/crypto"
)

const tokenTTL = 24 * time.Hour

// Config holds the admin credentials and signing key. The password is hashed
// at construction; the plaintext is not retained.
type Config struct {
	JWTKey        []byte
	AdminEmail    string
	adminPassHash []byte
	adminSalt     []byte
}

// NewConfig hashes the admin password with a fresh salt.
func NewConfig(jwtKey, email, password string) (Config, error) {
	salt, err := crypto.RandBytes(16)
	if err != nil {
		return Config{}, err
	}
	return Config{
		JWTKey:        []byte(jwtKey),
		AdminEmail:    email,
		adminPassHash: crypto.HashPassword([]byte(password), salt),
		adminSalt:     salt,
	}, nil
}

// handleAdminLogin verifies credentials and issues a signed bearer token.
func (s *Server) handleAdminLogin(c *gin.Context) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "email and password required")
		return
	}
	if req.Email != s.cfg.AdminEmail ||
		!crypto.VerifyPassword([]byte(req.Password), s.cfg.adminSalt, s.cfg.adminPassHash) {
		fail(c, http.StatusUnauthorized, "invalid credentials")
		return
	}

	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   "admin",
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.cfg.JWTKey)
	if err != nil {
		fail(c, http.StatusInternalServerError, "token signing failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "token": signed})
}

// requireAuth validates the bearer token on mutating routes.
func (s *Server) requireAuth(c *gin.Context) {
	h := c.GetHeader("Authorization")
	raw, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || raw == "" {
		fail(c, http.StatusUnauthorized, "missing bearer token")
		c.Abort()
		return
	}
	_, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		return s.cfg.JWTKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		fail(c, http.StatusUnauthorized, "invalid token")
		c.Abort()
		return
	}
	c.Next()
}
