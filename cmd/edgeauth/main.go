package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dropDatabas3/edgeauth/internal/signer"
)

func main() {
	_ = godotenv.Load()

	var (
		keyName    = envOr("SIGNING_KEY_NAME", "")
		keyInline  = envOr("SIGNING_KEY", "")
		keyFile    = envOr("SIGNING_KEY_FILE", "")
		expiresStr string
		ttlStr     string
	)

	root := &cobra.Command{
		Use:           "edgeauth",
		Short:         "Firma accesos de Media CDN: URLs, prefijos, cookies y short tokens",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&keyName, "key-name", keyName, "Nombre de la clave de firma (env SIGNING_KEY_NAME)")
	root.PersistentFlags().StringVar(&keyInline, "key", keyInline, "Clave base64 url-safe inline, solo dev (env SIGNING_KEY)")
	root.PersistentFlags().StringVar(&keyFile, "key-file", keyFile, "Archivo con la clave base64 url-safe (env SIGNING_KEY_FILE)")
	root.PersistentFlags().StringVar(&expiresStr, "expires", "", "Expiración absoluta RFC3339 (ej. 2026-09-01T00:00:00Z)")
	root.PersistentFlags().StringVar(&ttlStr, "ttl", "", "Expiración relativa (ej. 30m); --expires tiene prioridad")

	loadKey := func() (string, error) {
		if keyInline != "" {
			return keyInline, nil
		}
		if keyFile != "" {
			b, err := os.ReadFile(keyFile)
			if err != nil {
				return "", err
			}
			return strings.TrimSpace(string(b)), nil
		}
		return "", fmt.Errorf("falta la clave de firma (--key o --key-file)")
	}

	// expiration resuelve --expires / --ttl. required=false deja el default
	// de SignToken (now + 1h) cuando no se pasó ninguna.
	expiration := func(required bool) (time.Time, error) {
		if expiresStr != "" {
			t, err := time.Parse(time.RFC3339, expiresStr)
			if err != nil {
				return time.Time{}, fmt.Errorf("--expires inválido: %w", err)
			}
			return t.UTC(), nil
		}
		if ttlStr != "" {
			d, err := time.ParseDuration(ttlStr)
			if err != nil {
				return time.Time{}, fmt.Errorf("--ttl inválido: %w", err)
			}
			return time.Now().UTC().Add(d), nil
		}
		if required {
			return time.Time{}, fmt.Errorf("falta la expiración (--expires o --ttl)")
		}
		return time.Time{}, nil
	}

	signURLCmd := &cobra.Command{
		Use:   "sign-url <url>",
		Short: "Firma una URL completa (Expires + KeyName + Signature)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := loadKey()
			if err != nil {
				return err
			}
			exp, err := expiration(true)
			if err != nil {
				return err
			}
			signed, err := signer.SignURL(args[0], keyName, key, exp)
			if err != nil {
				return err
			}
			fmt.Println(signed)
			return nil
		},
	}

	var prefix string
	signPrefixCmd := &cobra.Command{
		Use:   "sign-prefix <url>",
		Short: "Firma un prefijo de URL y lo cuelga de la URL del request",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if prefix == "" {
				return fmt.Errorf("--prefix es requerido")
			}
			key, err := loadKey()
			if err != nil {
				return err
			}
			exp, err := expiration(true)
			if err != nil {
				return err
			}
			signed, err := signer.SignURLPrefix(args[0], prefix, keyName, key, exp)
			if err != nil {
				return err
			}
			fmt.Println(signed)
			return nil
		},
	}
	signPrefixCmd.Flags().StringVar(&prefix, "prefix", "", "Prefijo de URL autorizado, protocolo incluido")

	signCookieCmd := &cobra.Command{
		Use:   "sign-cookie <url-prefix>",
		Short: "Genera el valor del header Edge-Cache-Cookie para un prefijo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := loadKey()
			if err != nil {
				return err
			}
			exp, err := expiration(true)
			if err != nil {
				return err
			}
			cookie, err := signer.SignCookie(args[0], keyName, key, exp)
			if err != nil {
				return err
			}
			fmt.Println(cookie)
			return nil
		},
	}

	var (
		algoStr   string
		fullPath  string
		pathGlobs string
		urlPrefix string
	)
	signTokenCmd := &cobra.Command{
		Use:   "sign-token",
		Short: "Genera el sufijo de short token (scope + Expires + firma)",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := buildScope(fullPath, pathGlobs, urlPrefix)
			if err != nil {
				return err
			}
			algo, err := signer.ParseAlgorithm(algoStr)
			if err != nil {
				return err
			}
			key, err := loadKey()
			if err != nil {
				return err
			}
			exp, err := expiration(false)
			if err != nil {
				return err
			}
			var opts []signer.TokenOption
			if !exp.IsZero() {
				opts = append(opts, signer.WithExpiration(exp))
			}
			tok, err := signer.SignToken(key, algo, scope, opts...)
			if err != nil {
				return err
			}
			fmt.Println(tok)
			return nil
		},
	}
	signTokenCmd.Flags().StringVar(&algoStr, "algo", "ed25519", "Algoritmo: sha1|sha256|ed25519")
	signTokenCmd.Flags().StringVar(&fullPath, "full-path", "", "Path exacto autorizado (ej. /video.mp4)")
	signTokenCmd.Flags().StringVar(&pathGlobs, "path-globs", "", "Globs separados por , o ! (ej. /tv/*!/film/*)")
	signTokenCmd.Flags().StringVar(&urlPrefix, "url-prefix", "", "Prefijo de URL autorizado, protocolo incluido")

	root.AddCommand(signURLCmd)
	root.AddCommand(signPrefixCmd)
	root.AddCommand(signCookieCmd)
	root.AddCommand(signTokenCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

// buildScope arma la variante de scope a partir de los flags, exigiendo
// exactamente uno.
func buildScope(fullPath, pathGlobs, urlPrefix string) (signer.Scope, error) {
	set := 0
	for _, v := range []string{fullPath, pathGlobs, urlPrefix} {
		if v != "" {
			set++
		}
	}
	if set != 1 {
		return signer.Scope{}, fmt.Errorf("exactamente uno de --full-path, --path-globs o --url-prefix es requerido")
	}
	switch {
	case fullPath != "":
		return signer.FullPath(fullPath), nil
	case pathGlobs != "":
		return signer.PathGlobs(pathGlobs), nil
	default:
		return signer.URLPrefix(urlPrefix), nil
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
