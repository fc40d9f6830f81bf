package httpserver

import (
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"centinela/internal/shared/actor"
)

var (
	errMissingIdentity = errors.New("no se pudo identificar al usuario")
	errInvalidToken    = errors.New("el token de acceso no es válido")
)

// Authenticator resolves the calling actor from a bearer token, falling
// back to the identity headers the gateway injects for internal traffic.
type Authenticator struct {
	Secret []byte
}

type accessClaims struct {
	Name      string `json:"name"`
	Role      string `json:"role"`
	Municipio string `json:"municipio"`
	jwt.RegisteredClaims
}

func (a Authenticator) ResolveActor(r *http.Request) (actor.Actor, error) {
	if token := bearerToken(r); token != "" && len(a.Secret) > 0 {
		return a.fromToken(token)
	}
	return fromHeaders(r)
}

func (a Authenticator) fromToken(raw string) (actor.Actor, error) {
	claims := &accessClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return a.Secret, nil
	})
	if err != nil || !token.Valid {
		return actor.Actor{}, errInvalidToken
	}
	role, ok := actor.ParseRole(claims.Role)
	if !ok || strings.TrimSpace(claims.Subject) == "" {
		return actor.Actor{}, errInvalidToken
	}
	return actor.Actor{
		UserID:    claims.Subject,
		Name:      claims.Name,
		Role:      role,
		Municipio: claims.Municipio,
	}, nil
}

func fromHeaders(r *http.Request) (actor.Actor, error) {
	userID := strings.TrimSpace(r.Header.Get("X-User-Id"))
	if userID == "" {
		return actor.Actor{}, errMissingIdentity
	}
	role, ok := actor.ParseRole(r.Header.Get("X-User-Role"))
	if !ok {
		return actor.Actor{}, errMissingIdentity
	}
	return actor.Actor{
		UserID:    userID,
		Name:      strings.TrimSpace(r.Header.Get("X-User-Name")),
		Role:      role,
		Municipio: strings.TrimSpace(r.Header.Get("X-User-Municipio")),
	}, nil
}

func bearerToken(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
