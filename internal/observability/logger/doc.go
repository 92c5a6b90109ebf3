// Package logger provides a singleton Zap logger with context-based scoping.
//
// # Design Decisions
//
//   - Singleton: Una sola instancia global inicializada con Init().
//   - Context Scoping: cada comando puede colgar un logger "scoped" con campos
//     propios (bucket, zone, key_name, etc.) sin crear un nuevo core.
//   - Environments: "dev" usa consola con colores, "prod" usa JSON.
//   - Levels: debug, info, warn, error (configurable via LOG_LEVEL).
//
// # Usage
//
// Inicialización (una vez en main.go):
//
//	logger.Init(logger.Config{
//	    Env:   os.Getenv("APP_ENV"),   // "dev" o "prod"
//	    Level: os.Getenv("LOG_LEVEL"), // "debug", "info", "warn", "error"
//	})
//	defer logger.L().Sync()
//
// En componentes (con contexto):
//
//	log := logger.From(ctx)
//	log.Info("uploading object", logger.Bucket(bucket), logger.Object(name))
//
// Sin contexto (fallback al singleton):
//
//	logger.L().Info("deploy finished")
package logger
