package auth

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/zubaerSumon/ileap-sub000/internal/config"
	"github.com/zubaerSumon/ileap-sub000/internal/domain"
)

// JWTValidator verifies bearer tokens minted by the auth service and
// resolves them to a Principal. Supports RS256 (shared public key) and
// HS256 (shared secret).
type JWTValidator struct {
	alg    string
	pub    *rsa.PublicKey
	secret []byte
}

func NewJWTValidator(cfg config.JWT) (*JWTValidator, error) {
	switch strings.ToUpper(cfg.Alg) {
	case "RS256":
		pub, err := loadPublicKey(cfg.PublicKeyPath)
		if err != nil {
			return nil, err
		}
		return &JWTValidator{alg: "RS256", pub: pub}, nil
	case "HS256":
		return &JWTValidator{alg: "HS256", secret: []byte(cfg.HSSecret)}, nil
	}
	return nil, errors.New("unsupported jwt alg")
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	block, _ := pem.Decode(b)
	if block == nil {
		return nil, errors.New("failed to decode public key")
	}
	pubIfc, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	pub, ok := pubIfc.(*rsa.PublicKey)
	if !ok {
		return nil, errors.New("not rsa public key")
	}
	return pub, nil
}

func (j *JWTValidator) Validate(tokenStr string) (domain.Principal, error) {
	tok, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if j.alg == "HS256" {
			return j.secret, nil
		}
		return j.pub, nil
	}, jwt.WithValidMethods([]string{j.alg}))
	if err != nil {
		return domain.Principal{}, err
	}

	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok || !tok.Valid {
		return domain.Principal{}, errors.New("invalid token")
	}

	p := domain.Principal{}
	if sub, ok := claims["sub"].(string); ok {
		p.ID = sub
	} else if userID, ok := claims["user_id"].(string); ok {
		p.ID = userID
	}
	if p.ID == "" {
		return domain.Principal{}, errors.New("invalid token")
	}
	if role, ok := claims["role"].(string); ok {
		p.Role = domain.Role(role)
	}
	return p, nil
}
