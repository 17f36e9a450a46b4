package middleware

import (
	"errors"
	"strings"
	"time"

	"studyoverflow/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/samber/lo"
)

// Expected token issuer and audience.
const (
	TokenIssuer   = "studyoverflow-api"
	TokenAudience = "studyoverflow-client"
)

var (
	errMissingToken   = errors.New("authorization required")
	errInvalidToken   = errors.New("invalid or expired token")
	errInvalidIssuer  = errors.New("invalid token issuer")
	errInvalidAud     = errors.New("invalid token audience")
	errInvalidSubject = errors.New("invalid subject claim")
)

// TokenVerifier validates HS256 bearer tokens issued by the identity provider.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier returns a verifier for tokens signed with secret.
func NewTokenVerifier(secret string) *TokenVerifier {
	return &TokenVerifier{secret: []byte(secret)}
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" header value.
func BearerToken(header string) (string, bool) {
	parts := strings.Split(header, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Verify parses tokenString and returns the user ID carried in its subject claim.
func (v *TokenVerifier) Verify(tokenString string) (string, error) {
	if tokenString == "" {
		return "", errMissingToken
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid {
		return "", errInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errInvalidToken
	}

	if issuer, err := claims.GetIssuer(); err != nil || issuer != TokenIssuer {
		return "", errInvalidIssuer
	}
	audience, err := claims.GetAudience()
	if err != nil || !lo.Contains([]string(audience), TokenAudience) {
		return "", errInvalidAud
	}

	sub, err := claims.GetSubject()
	if err != nil || strings.TrimSpace(sub) == "" {
		return "", errInvalidSubject
	}
	return sub, nil
}

// Sign issues a token for userID. The identity provider owns issuance in production;
// this is used by tests and the admin CLI.
func (v *TokenVerifier) Sign(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"iss": TokenIssuer,
		"aud": TokenAudience,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(v.secret)
}

// AuthRequired rejects requests without a valid bearer token and stores the
// user ID in c.Locals("userID").
func AuthRequired(v *TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, ok := BearerToken(c.Get("Authorization"))
		if !ok {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, err := v.Verify(tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(capitalize(err.Error())))
		}

		c.Locals("userID", userID)
		c.SetUserContext(WithUserID(c.UserContext(), userID))
		return c.Next()
	}
}

// OptionalAuth identifies the caller when a valid token is present and otherwise
// lets the request through anonymously.
func OptionalAuth(v *TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if tokenString, ok := BearerToken(c.Get("Authorization")); ok {
			if userID, err := v.Verify(tokenString); err == nil {
				c.Locals("userID", userID)
				c.SetUserContext(WithUserID(c.UserContext(), userID))
			}
		}
		return c.Next()
	}
}

// CurrentUserID returns the authenticated user for the request, if any.
func CurrentUserID(c *fiber.Ctx) (string, bool) {
	userID, ok := c.Locals("userID").(string)
	return userID, ok && userID != ""
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
