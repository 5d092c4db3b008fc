package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

var (
	ErrInvalidToken = errors.New("invalid seat token")
	ErrWrongTable   = errors.New("seat token issued for another table")
)

// Seat identifies who holds a seat token: a table and a player index (0 or 1).
type Seat struct {
	TableID string
	Seat    int
}

// IssueSeatToken signs an HS256 token binding the bearer to one seat at one table.
func IssueSeatToken(secret, tableID string, seat int, ttl time.Duration) (string, error) {
	if seat != 0 && seat != 1 {
		return "", fmt.Errorf("seat %d out of range", seat)
	}

	exp := time.Now().Add(ttl)
	claims := jwt.MapClaims{
		"table_id": tableID,
		"seat":     seat,
		"exp":      jwt.NewNumericDate(exp).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseSeatToken validates the signature and expiry and returns the seat it grants.
func ParseSeatToken(secret, token string) (*Seat, error) {
	parsed, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, fmt.Errorf("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	tableID, ok := claims["table_id"].(string)
	if !ok || tableID == "" {
		return nil, ErrInvalidToken
	}
	seatf, ok := claims["seat"].(float64)
	if !ok || (seatf != 0 && seatf != 1) {
		return nil, ErrInvalidToken
	}

	return &Seat{TableID: tableID, Seat: int(seatf)}, nil
}

// AuthorizeSeat parses token and checks that it was issued for tableID.
func AuthorizeSeat(secret, token, tableID string) (*Seat, error) {
	seat, err := ParseSeatToken(secret, token)
	if err != nil {
		return nil, err
	}
	if seat.TableID != tableID {
		return nil, ErrWrongTable
	}
	return seat, nil
}
