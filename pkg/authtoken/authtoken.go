// Package authtoken issues and verifies the signed customer tokens carried in the "user" header.
package authtoken

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Identity is the customer a token speaks for.
type Identity struct {
	CustomerID int64  `json:"customerId"`
	CPF        string `json:"cpf"`
	Name       string `json:"name"`
	Email      string `json:"email"`
}

type claims struct {
	CPF   string `json:"cpf"`
	Name  string `json:"name"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Codec signs and parses HS256 tokens.
type Codec struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewCodec creates a codec. A zero ttl issues tokens without expiry.
func NewCodec(secret, issuer string, ttl time.Duration) *Codec {
	return &Codec{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue returns a signed token for id.
func (c *Codec) Issue(id Identity) (string, error) {
	now := c.now()
	rc := jwt.RegisteredClaims{
		Subject:  strconv.FormatInt(id.CustomerID, 10),
		Issuer:   c.issuer,
		IssuedAt: jwt.NewNumericDate(now),
	}
	if c.ttl > 0 {
		rc.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		CPF:              id.CPF,
		Name:             id.Name,
		Email:            id.Email,
		RegisteredClaims: rc,
	})

	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Parse verifies raw and returns the identity it carries.
// Any failure is reported as ErrInvalidToken.
func (c *Codec) Parse(raw string) (Identity, error) {
	var cl claims
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
	}
	if c.issuer != "" {
		opts = append(opts, jwt.WithIssuer(c.issuer))
	}

	_, err := jwt.ParseWithClaims(raw, &cl, func(*jwt.Token) (any, error) {
		return c.secret, nil
	}, opts...)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	id, err := strconv.ParseInt(cl.Subject, 10, 64)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}

	return Identity{
		CustomerID: id,
		CPF:        cl.CPF,
		Name:       cl.Name,
		Email:      cl.Email,
	}, nil
}
