// Package auth issues and verifies bearer tokens for the Todo API.
//
// Tokens are HS256-signed JWTs carrying a subject and a space-separated
// scope list. They are validated by signature and expiry only; there is no
// token store and no refresh flow.
package auth
