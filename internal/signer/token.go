package signer

import (
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrMissingScope indica que el token no tiene selector de recurso.
	ErrMissingScope = errors.New("signer: one of FullPath, PathGlobs or URLPrefix is required")
	// ErrUnknownAlgorithm indica un algoritmo fuera de sha1|sha256|ed25519.
	ErrUnknownAlgorithm = errors.New("signer: encryption algorithm must be one of sha1, sha256 or ed25519")
)

// DefaultTokenTTL es la expiración por defecto cuando no se pasa WithExpiration.
const DefaultTokenTTL = time.Hour

// Algorithm es el algoritmo de firma del short token.
type Algorithm string

const (
	AlgSHA1    Algorithm = "sha1"
	AlgSHA256  Algorithm = "sha256"
	AlgEd25519 Algorithm = "ed25519"
)

// ParseAlgorithm matchea el nombre del algoritmo sin distinguir mayúsculas.
func ParseAlgorithm(s string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(s))); a {
	case AlgSHA1, AlgSHA256, AlgEd25519:
		return a, nil
	default:
		return "", fmt.Errorf("%w: got %q", ErrUnknownAlgorithm, s)
	}
}

type scopeKind int

const (
	scopeNone scopeKind = iota
	scopeFullPath
	scopePathGlobs
	scopeURLPrefix
)

// Scope es el selector de recurso que autoriza el token: exactamente una
// variante por firma. Se construye con FullPath, PathGlobs o URLPrefix; el
// zero value no es válido, así no existe el input ambiguo multi-campo.
type Scope struct {
	kind  scopeKind
	value string
}

// FullPath autoriza un path exacto. El path NO se embebe en el payload: el
// edge lo valida fuera de banda contra el path del request.
func FullPath(path string) Scope { return Scope{kind: scopeFullPath, value: path} }

// PathGlobs autoriza un set de globs separados por `,` o `!`. La sintaxis la
// entiende el verificador del edge; acá se pasa verbatim.
func PathGlobs(globs string) Scope { return Scope{kind: scopePathGlobs, value: globs} }

// URLPrefix autoriza todo un prefijo de URL, protocolo incluido.
func URLPrefix(prefix string) Scope { return Scope{kind: scopeURLPrefix, value: prefix} }

type tokenOptions struct {
	expires time.Time
	now     func() time.Time
}

// TokenOption ajusta expiración y reloj de SignToken.
type TokenOption func(*tokenOptions)

// WithExpiration fija la expiración absoluta del token.
func WithExpiration(t time.Time) TokenOption {
	return func(o *tokenOptions) { o.expires = t }
}

// WithClock inyecta el reloj usado para el default "now + 1h".
// Mantiene SignToken determinístico en tests.
func WithClock(now func() time.Time) TokenOption {
	return func(o *tokenOptions) { o.now = now }
}

// SignToken genera el sufijo de short token que el edge espera pegado al
// request: campos unidos por `~`, firma al final (`~hmac=` hex para
// sha1/sha256, `~Signature=` base64url para ed25519).
//
// En el scope URLPrefix el base64 va SIN padding: es el formato de wire del
// short token, distinto del de SignURL/SignURLPrefix. No unificar.
func SignToken(base64Key string, algo Algorithm, scope Scope, opts ...TokenOption) (string, error) {
	// Validación de input antes de tocar la clave o firmar.
	var payload string
	switch scope.kind {
	case scopeFullPath:
		if strings.TrimSpace(scope.value) == "" {
			return "", ErrMissingScope
		}
		payload = "FullPath"
	case scopePathGlobs:
		globs := strings.TrimSpace(scope.value)
		if globs == "" {
			return "", ErrMissingScope
		}
		payload = "PathGlobs=" + globs
	case scopeURLPrefix:
		if scope.value == "" {
			return "", ErrMissingScope
		}
		payload = "URLPrefix=" + base64.RawURLEncoding.EncodeToString([]byte(scope.value))
	default:
		return "", ErrMissingScope
	}

	switch algo {
	case AlgSHA1, AlgSHA256, AlgEd25519:
	default:
		return "", fmt.Errorf("%w: got %q", ErrUnknownAlgorithm, string(algo))
	}

	o := tokenOptions{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	exp := o.expires
	if exp.IsZero() {
		exp = o.now().Add(DefaultTokenTTL)
	}
	payload += fmt.Sprintf("~Expires=%d", exp.Unix())

	key, err := decodeKey(base64Key)
	if err != nil {
		return "", err
	}

	switch algo {
	case AlgSHA1:
		mac := hmac.New(sha1.New, key)
		mac.Write([]byte(payload))
		payload += "~hmac=" + hex.EncodeToString(mac.Sum(nil))
	case AlgSHA256:
		mac := hmac.New(sha256.New, key)
		mac.Write([]byte(payload))
		payload += "~hmac=" + hex.EncodeToString(mac.Sum(nil))
	case AlgEd25519:
		sig, err := signEd25519(key, []byte(payload))
		if err != nil {
			return "", err
		}
		payload += "~Signature=" + base64.URLEncoding.EncodeToString(sig)
	}
	return payload, nil
}
