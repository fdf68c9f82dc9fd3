package session

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

type CustomClaims struct {
	UserID   uint   `json:"user_id"`
	Role     string `json:"role"`
	Position int    `json:"position,omitempty"`
	jwt.RegisteredClaims
}

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrUnknownRole    = errors.New("unknown role claim")
	ErrMissingSecret  = errors.New("JWT secret is not set")
	ErrUnknownStaff   = errors.New("unknown staff position")
)

func ParseToken(tokenStr, secret string) (*CustomClaims, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	jwtKey := []byte(secret)

	token, err := jwt.ParseWithClaims(
		tokenStr,
		&CustomClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return jwtKey, nil
		},
	)

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*CustomClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// ActorFromToken derives the acting identity from a session token. Staff
// roles are refined by the position attribute: 1 is a cashier, 4 a shipper.
func ActorFromToken(tokenStr, secret string) (Actor, error) {
	claims, err := ParseToken(tokenStr, secret)
	if err != nil {
		return Actor{}, err
	}

	actor := Actor{ID: int(claims.UserID), Token: tokenStr}

	switch claims.Role {
	case "admin":
		actor.Role = RoleAdmin
	case "staff":
		switch claims.Position {
		case PositionCashier:
			actor.Role = RoleCashier
		case PositionShipper:
			actor.Role = RoleShipper
		default:
			return Actor{}, ErrUnknownStaff
		}
	case "customer", "user":
		actor.Role = RoleCustomer
	default:
		return Actor{}, ErrUnknownRole
	}

	return actor, nil
}
