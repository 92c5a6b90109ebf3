package signer

import (
	"crypto/ed25519"
	"crypto/hmac"
	"crypto/sha1"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"regexp"
	"strings"
	"testing"
	"time"
)

var (
	hmacSHA1Re   = regexp.MustCompile(`^FullPath~Expires=[0-9]+~hmac=[0-9a-f]{40}$`)
	hmacSHA256Re = regexp.MustCompile(`~hmac=[0-9a-f]{64}$`)
)

func TestSignToken_FullPathSHA1(t *testing.T) {
	key := base64.URLEncoding.EncodeToString([]byte("my-secret"))

	tok, err := SignToken(key, AlgSHA1, FullPath("/a"), WithExpiration(time.Unix(1000, 0).UTC()))
	if err != nil {
		t.Fatalf("SignToken err: %v", err)
	}
	// FullPath no embebe el path: solo el marker literal
	if !hmacSHA1Re.MatchString(tok) {
		t.Fatalf("unexpected token shape: %q", tok)
	}

	// recomputar el HMAC sobre el payload exacto
	mac := hmac.New(sha1.New, []byte("my-secret"))
	mac.Write([]byte("FullPath~Expires=1000"))
	want := "FullPath~Expires=1000~hmac=" + hex.EncodeToString(mac.Sum(nil))
	if tok != want {
		t.Fatalf("got %q, want %q", tok, want)
	}
}

func TestSignToken_PathGlobsSHA256(t *testing.T) {
	key := base64.URLEncoding.EncodeToString([]byte("another-secret"))

	tok, err := SignToken(key, AlgSHA256, PathGlobs("  /tv/*!/film/*  "), WithExpiration(time.Unix(2000, 0).UTC()))
	if err != nil {
		t.Fatal(err)
	}
	// los globs van trimmeados y verbatim, sin parsear
	if !strings.HasPrefix(tok, "PathGlobs=/tv/*!/film/*~Expires=2000~hmac=") {
		t.Fatalf("unexpected token: %q", tok)
	}
	if !hmacSHA256Re.MatchString(tok) {
		t.Fatalf("hmac is not 64 hex chars: %q", tok)
	}

	mac := hmac.New(sha256.New, []byte("another-secret"))
	mac.Write([]byte("PathGlobs=/tv/*!/film/*~Expires=2000"))
	if !strings.HasSuffix(tok, hex.EncodeToString(mac.Sum(nil))) {
		t.Fatal("hmac does not match recomputed digest")
	}
}

func TestSignToken_URLPrefixStripsPadding(t *testing.T) {
	key := base64.URLEncoding.EncodeToString([]byte("s"))

	// "http://example.com/a" encodea con padding en base64 clásico;
	// el wire format del short token lo exige SIN padding.
	tok, err := SignToken(key, AlgSHA1, URLPrefix("http://example.com/a"), WithExpiration(time.Unix(3000, 0).UTC()))
	if err != nil {
		t.Fatal(err)
	}
	payload, _, ok := strings.Cut(tok, "~Expires=")
	if !ok {
		t.Fatalf("token without ~Expires=: %q", tok)
	}
	if strings.HasSuffix(payload, "=") {
		t.Fatalf("URLPrefix payload keeps padding: %q", payload)
	}
	want := "URLPrefix=" + base64.RawURLEncoding.EncodeToString([]byte("http://example.com/a"))
	if payload != want {
		t.Fatalf("got payload %q, want %q", payload, want)
	}
}

func TestSignToken_Ed25519(t *testing.T) {
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(0xA0 + i)
	}
	key := base64.URLEncoding.EncodeToString(seed)
	pub := ed25519.NewKeyFromSeed(seed).Public().(ed25519.PublicKey)

	tok, err := SignToken(key, AlgEd25519, FullPath("/movie.mp4"), WithExpiration(time.Unix(6000, 0).UTC()))
	if err != nil {
		t.Fatal(err)
	}
	i := strings.LastIndex(tok, "~Signature=")
	if i < 0 {
		t.Fatalf("token without ~Signature=: %q", tok)
	}
	sig, err := base64.URLEncoding.DecodeString(tok[i+len("~Signature="):])
	if err != nil {
		t.Fatalf("signature is not url-safe base64: %v", err)
	}
	if !ed25519.Verify(pub, []byte(tok[:i]), sig) {
		t.Fatal("ed25519 token signature does not verify")
	}
}

func TestSignToken_DefaultExpiryUsesClock(t *testing.T) {
	key := base64.URLEncoding.EncodeToString([]byte("k"))
	fixed := time.Unix(10_000, 0).UTC()

	tok, err := SignToken(key, AlgSHA1, FullPath("/a"), WithClock(func() time.Time { return fixed }))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(tok, "~Expires=13600~") {
		t.Fatalf("default expiry is not now+1h: %q", tok)
	}
}

func TestSignToken_InputValidation(t *testing.T) {
	key := base64.URLEncoding.EncodeToString([]byte("k"))

	// sin selector de scope
	if _, err := SignToken(key, AlgSHA1, Scope{}); !errors.Is(err, ErrMissingScope) {
		t.Fatalf("want ErrMissingScope, got %v", err)
	}
	// selector presente pero vacío
	if _, err := SignToken(key, AlgSHA1, FullPath("  ")); !errors.Is(err, ErrMissingScope) {
		t.Fatalf("want ErrMissingScope for blank path, got %v", err)
	}
	// algoritmo desconocido
	if _, err := SignToken(key, Algorithm("md5"), FullPath("/a")); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("want ErrUnknownAlgorithm, got %v", err)
	}
	// la validación corre ANTES de decodificar la clave: con scope faltante
	// una clave rota no debe cambiar el error
	if _, err := SignToken("%%%broken%%%", AlgSHA1, Scope{}); !errors.Is(err, ErrMissingScope) {
		t.Fatalf("validation must run before key decode, got %v", err)
	}
}

func TestParseAlgorithm(t *testing.T) {
	for in, want := range map[string]Algorithm{
		"sha1":      AlgSHA1,
		"SHA256":    AlgSHA256,
		" Ed25519 ": AlgEd25519,
	} {
		got, err := ParseAlgorithm(in)
		if err != nil || got != want {
			t.Fatalf("ParseAlgorithm(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseAlgorithm("md5"); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Fatalf("want ErrUnknownAlgorithm, got %v", err)
	}
}

func TestSignToken_Deterministic(t *testing.T) {
	key := base64.URLEncoding.EncodeToString([]byte("stable"))
	exp := WithExpiration(time.Unix(1234, 0).UTC())

	a, err := SignToken(key, AlgSHA256, URLPrefix("https://example.com/x/"), exp)
	if err != nil {
		t.Fatal(err)
	}
	b, err := SignToken(key, AlgSHA256, URLPrefix("https://example.com/x/"), exp)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Fatalf("same inputs produced different tokens:\n%s\n%s", a, b)
	}
}
