package auth

import (
	"fmt"
	"time"

	"github.com/auxroom/auxroom-api/config"
	"github.com/golang-jwt/jwt/v5"
)

// Guest is the identity a session token carries. It lets a client keep its
// display name across reconnects; room membership itself is always keyed by
// the live connection.
type Guest struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

func (g *Guest) GetJWT() (string, time.Time, error) {
	now := time.Now()
	expiry := now.Add(7 * 24 * time.Hour)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":   g.ID,
		"name": g.DisplayName,
		"iat":  now.Unix(),
		"exp":  expiry.Unix(),
	}).SignedString(config.GetSigningSecret())
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiry, nil
}

func ParseGuestToken(tokenStr string) (Guest, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("Unexpected signing method: %v", token.Header["alg"])
		}

		return config.GetSigningSecret(), nil
	})
	if err != nil {
		return Guest{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return Guest{}, fmt.Errorf("Invalid token")
	}
	id, ok := claims["id"].(string)
	if !ok {
		return Guest{}, fmt.Errorf("Invalid token")
	}
	name, ok := claims["name"].(string)
	if !ok {
		return Guest{}, fmt.Errorf("Invalid token")
	}

	return Guest{ID: id, DisplayName: name}, nil
}
