package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Player tokens are HMAC-signed JWTs. The seat token is minted once, when the
// player joins, and every later request presents it back.

var (
	signingKey []byte

	// tokenTTL of zero means tokens never expire.
	tokenTTL time.Duration
)

// Init sets the HMAC secret and token lifetime used for all player tokens.
func Init(secret string, ttl time.Duration) {
	signingKey = []byte(secret)
	tokenTTL = ttl
}

// CreateToken mints a signed token for a seat in a game.
func CreateToken(playerID, gameID int64) (string, error) {
	claims := jwt.MapClaims{
		"player_id": playerID,
		"game_id":   gameID,
		"jti":       uuid.NewString(),
	}
	if tokenTTL > 0 {
		claims["exp"] = time.Now().Add(tokenTTL).Unix()
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(signingKey)
}

// VerifyToken checks the signature and returns the player and game ids.
func VerifyToken(tokenString string) (playerID, gameID int64, err error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return signingKey, nil
	})
	if err != nil {
		return 0, 0, fmt.Errorf("jwt parse error: %w", err)
	}
	if !t.Valid {
		return 0, 0, fmt.Errorf("invalid token")
	}
	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return 0, 0, fmt.Errorf("invalid jwt claims")
	}
	pid, ok := claims["player_id"].(float64)
	if !ok {
		return 0, 0, fmt.Errorf("missing player_id in jwt")
	}
	gid, ok := claims["game_id"].(float64)
	if !ok {
		return 0, 0, fmt.Errorf("missing game_id in jwt")
	}
	return int64(pid), int64(gid), nil
}
