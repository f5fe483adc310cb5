// Package common contains shared constants, the error taxonomy and small
// helpers used across filesmanager components.
package common

// TokenHeaderName is the HTTP header carrying the session token.
const TokenHeaderName = "X-Token"

// SessionKeyPrefix prefixes every session key in the shared cache.
const SessionKeyPrefix = "auth_"
