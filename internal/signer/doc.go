// Package signer implements signed access credentials for Media CDN:
// signed URLs, signed URL prefixes, Edge-Cache-Cookie values and short
// token suffixes.
//
// # Design Decisions
//
//   - Puras y sin estado: cada operación solo toca sus argumentos y el output
//     recién allocado. Safe para llamar concurrentemente sin coordinación.
//   - La firma se computa SIEMPRE sobre los bytes exactos de la policy tal
//     como se ensambló (incluyendo sub-campos ya base64-encodeados) y se
//     appendea al final, nunca intercalada.
//   - Los errores salen al caller tal cual: input inválido, clave base64
//     malformada o tamaño de clave incorrecto. Nada se reintenta ni se
//     devuelve a medio construir.
package signer
