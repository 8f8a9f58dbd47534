// Package auth provides optional local authentication for the API.
//
// Two modes are supported, selected via AUTH_MODE:
//
//   - "none" (default): every request runs as an anonymous identity; the
//     per-operation authorization checks in the article service still apply.
//   - "local": accounts live in the users table, passwords are bcrypt-hashed,
//     and sessions are stored server-side in SQLite via scs.
//
// The middleware resolves the session into the requester's user id, which
// handlers read with GetUserID.
package auth
