// Package middleware provides authentication and authorization middleware for the application.
package middleware

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"glassmap/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

var (
	cfg *config.Config
	rdb *redis.Client
)

// InitMiddleware initializes authentication middleware with the given config
// and Redis client. The Redis client backs the token revocation list and may
// be nil, in which case revocation checks are skipped.
func InitMiddleware(c *config.Config, r *redis.Client) {
	cfg = c
	rdb = r
}

// BlacklistKey builds the revocation list key for a token ID.
func BlacklistKey(jti string) string {
	return fmt.Sprintf("blacklist:%s", jti)
}

// TokenRevoked reports whether the token ID is on the revocation list.
func TokenRevoked(ctx context.Context, jti string) bool {
	if rdb == nil || jti == "" {
		return false
	}
	n, err := rdb.Exists(ctx, BlacklistKey(jti)).Result()
	return err == nil && n > 0
}

// parseToken validates the JWT and extracts the user ID, role and token ID.
func parseToken(tokenString string) (userID uint, role, jti string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	}, jwt.WithIssuer("glassmap-api"), jwt.WithAudience("glassmap-client"))
	if err != nil || !token.Valid {
		return 0, "", "", fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", "", fmt.Errorf("invalid token claims")
	}

	// User ID lives in "sub" (subject claim per RFC 7519)
	subStr, ok := claims["sub"].(string)
	if !ok {
		return 0, "", "", fmt.Errorf("missing token subject")
	}
	uid, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0, "", "", fmt.Errorf("invalid user ID in token")
	}

	role, _ = claims["role"].(string)
	jti, _ = claims["jti"].(string)
	return uint(uid), role, jti, nil
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *fiber.Ctx) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}
	return parts[1], true
}

// AuthRequired is a middleware that enforces authentication for protected routes.
// A missing token yields 401; a token that is present but invalid, expired or
// revoked yields 403.
func AuthRequired(c *fiber.Ctx) error {
	if c.Get("Authorization") == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Authorization header required",
		})
	}

	tokenString, ok := bearerToken(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Invalid authorization header format",
		})
	}

	userID, role, jti, err := parseToken(tokenString)
	if err != nil {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Invalid or expired token",
		})
	}

	if TokenRevoked(c.UserContext(), jti) {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Token has been revoked",
		})
	}

	c.Locals("userID", userID)
	c.Locals("userRole", role)
	c.Locals("tokenJTI", jti)

	return c.Next()
}

// OptionalAuth attaches the user identity when a valid token is supplied but
// never rejects the request. Handlers that vary output by user use this.
func OptionalAuth(c *fiber.Ctx) error {
	tokenString, ok := bearerToken(c)
	if !ok {
		return c.Next()
	}

	userID, role, jti, err := parseToken(tokenString)
	if err != nil || TokenRevoked(c.UserContext(), jti) {
		return c.Next()
	}

	c.Locals("userID", userID)
	c.Locals("userRole", role)
	c.Locals("tokenJTI", jti)

	return c.Next()
}
