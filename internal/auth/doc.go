// Package auth implements credential checks, session management and the
// login, register and logout endpoints.
//
// Sessions are cookie-based, stored in SQLite via scs, and carry the
// authenticated user's ID. Every other part of the application reads
// the acting user from the request context that the middleware fills in.
package auth
