// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides admin key and privacy hashing utilities.

# Admin Keys

Admin keys use HMAC-SHA256 to create deterministic, verifiable keys:

	adminKey := auth.GenerateAdminKey(auth.ScopeExport, salt)
	err := auth.ValidateAdminKey(auth.ScopeExport, adminKey, salt)

The key is URL-safe base64 encoded without padding. Since it's deterministic,
the same scope and salt always produce the same key, so nothing is stored.
Operators print a key with `surveyctl admin-key`.

Requests send the key in X-Admin-Key or as a bearer token:

	key := auth.KeyFromRequest(r)

# IP Hashing

Submissions are logged with a hashed client address only:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
