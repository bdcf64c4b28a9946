package utils

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const BcryptCost = 12

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// ParseToken validates the signature and expiry of a token issued at sign-in
// and returns its claims.
func ParseToken(tokenString string, secret []byte) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// FriendIDFromClaims reads the friend_id claim; JSON numbers decode as float64.
func FriendIDFromClaims(claims jwt.MapClaims) (int, error) {
	raw, ok := claims["friend_id"]
	if !ok {
		return 0, errors.New("friend_id not found in token")
	}
	id, ok := raw.(float64)
	if !ok {
		return 0, errors.New("friend_id has invalid type")
	}
	return int(id), nil
}

func RoleFromClaims(claims jwt.MapClaims) (string, error) {
	raw, ok := claims["role"]
	if !ok {
		return "", errors.New("role not found in token")
	}
	role, ok := raw.(string)
	if !ok {
		return "", errors.New("role has invalid type")
	}
	return role, nil
}
