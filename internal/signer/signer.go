package signer

import (
	"crypto/ed25519"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"
	"time"
)

// SignURL firma una URL completa para Media CDN.
// Construye la policy `{url}{sep}Expires={epoch}&KeyName={name}`, la firma con
// Ed25519 (seed de 32 bytes) y devuelve la URL con `&Signature=...` al final.
// El separador es `&` si la URL ya trae query params, `?` si no.
func SignURL(rawURL, keyName, base64Key string, expiration time.Time) (string, error) {
	stripped := strings.TrimSpace(rawURL)
	sep, err := querySeparator(stripped)
	if err != nil {
		return "", err
	}
	key, err := decodeKey(base64Key)
	if err != nil {
		return "", err
	}

	toSign := fmt.Sprintf("%s%sExpires=%d&KeyName=%s", stripped, sep, expiration.Unix(), keyName)

	sig, err := signEd25519(key, []byte(toSign))
	if err != nil {
		return "", err
	}
	return toSign + "&Signature=" + base64.URLEncoding.EncodeToString(sig), nil
}

// SignURLPrefix firma un prefijo de URL. A diferencia de SignURL, la policy
// autoriza todo el prefijo (base64url, con padding) y queda desacoplada de la
// URL del request: esa última solo decide dónde se cuelga el query suffix.
func SignURLPrefix(rawURL, urlPrefix, keyName, base64Key string, expiration time.Time) (string, error) {
	stripped := strings.TrimSpace(rawURL)
	sep, err := querySeparator(stripped)
	if err != nil {
		return "", err
	}
	key, err := decodeKey(base64Key)
	if err != nil {
		return "", err
	}

	encodedPrefix := base64.URLEncoding.EncodeToString([]byte(strings.TrimSpace(urlPrefix)))
	policy := fmt.Sprintf("URLPrefix=%s&Expires=%d&KeyName=%s", encodedPrefix, expiration.Unix(), keyName)

	sig, err := signEd25519(key, []byte(policy))
	if err != nil {
		return "", err
	}
	return stripped + sep + policy + "&Signature=" + base64.URLEncoding.EncodeToString(sig), nil
}

// SignCookie genera el valor completo del header Edge-Cache-Cookie para un
// prefijo de URL. Misma policy que SignURLPrefix pero con `:` como separador.
func SignCookie(urlPrefix, keyName, base64Key string, expiration time.Time) (string, error) {
	key, err := decodeKey(base64Key)
	if err != nil {
		return "", err
	}

	encodedPrefix := base64.URLEncoding.EncodeToString([]byte(strings.TrimSpace(urlPrefix)))
	policy := fmt.Sprintf("URLPrefix=%s:Expires=%d:KeyName=%s", encodedPrefix, expiration.Unix(), keyName)

	sig, err := signEd25519(key, []byte(policy))
	if err != nil {
		return "", err
	}
	return "Edge-Cache-Cookie=" + policy + ":Signature=" + base64.URLEncoding.EncodeToString(sig), nil
}

// querySeparator decide cómo se une la policy a la URL: `&` si ya hay query
// params, `?` si no. Una URL que no parsea es error de input, no se reintenta.
func querySeparator(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("signer: invalid url %q: %w", rawURL, err)
	}
	if u.RawQuery != "" {
		return "&", nil
	}
	return "?", nil
}

// decodeKey decodifica la clave base64 url-safe a bytes crudos.
// Nunca se loguea ni se retiene: vive solo durante la llamada.
func decodeKey(base64Key string) ([]byte, error) {
	raw, err := base64.URLEncoding.DecodeString(strings.TrimSpace(base64Key))
	if err != nil {
		return nil, fmt.Errorf("signer: bad base64 key: %w", err)
	}
	return raw, nil
}

// signEd25519 firma payload con la seed cruda de 32 bytes.
func signEd25519(key, payload []byte) ([]byte, error) {
	if len(key) != ed25519.SeedSize {
		return nil, fmt.Errorf("signer: ed25519 key must be %d bytes, got %d", ed25519.SeedSize, len(key))
	}
	priv := ed25519.NewKeyFromSeed(key)
	return ed25519.Sign(priv, payload), nil
}
