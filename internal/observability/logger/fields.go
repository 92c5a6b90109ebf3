package logger

import (
	"time"

	"go.uber.org/zap"
)

// =================================================================================
// CAMPOS ESTÁNDAR - FIRMA
// =================================================================================

// KeyName crea un campo para el nombre de la clave de firma (nunca la clave).
func KeyName(v string) zap.Field {
	return zap.String("key_name", v)
}

// Algorithm crea un campo para el algoritmo de firma.
func Algorithm(v string) zap.Field {
	return zap.String("algorithm", v)
}

// Expires crea un campo para la expiración embebida (epoch seconds).
func Expires(v int64) zap.Field {
	return zap.Int64("expires", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - STORAGE / DEPLOY
// =================================================================================

// Bucket crea un campo para el bucket destino.
func Bucket(v string) zap.Field {
	return zap.String("bucket", v)
}

// Object crea un campo para el nombre del objeto subido.
func Object(v string) zap.Field {
	return zap.String("object", v)
}

// LocalPath crea un campo para el path local del archivo.
func LocalPath(v string) zap.Field {
	return zap.String("local_path", v)
}

// Branch crea un campo para la rama contra la que se diffea.
func Branch(v string) zap.Field {
	return zap.String("branch", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - COMPUTE
// =================================================================================

// Project crea un campo para el project ID.
func Project(v string) zap.Field {
	return zap.String("project", v)
}

// Zone crea un campo para la zona.
func Zone(v string) zap.Field {
	return zap.String("zone", v)
}

// Instance crea un campo para la instancia.
func Instance(v string) zap.Field {
	return zap.String("instance", v)
}

// Operation crea un campo para el nombre de la long-running operation.
func Operation(v string) zap.Field {
	return zap.String("operation", v)
}

// =================================================================================
// CAMPOS ESTÁNDAR - SISTEMA
// =================================================================================

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación actual.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// Duration crea un campo para una duración.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// Count crea un campo para un conteo.
func Count(v int) zap.Field {
	return zap.Int("count", v)
}

// String crea un campo string genérico.
func String(key, v string) zap.Field {
	return zap.String(key, v)
}

// Int crea un campo int genérico.
func Int(key string, v int) zap.Field {
	return zap.Int(key, v)
}
