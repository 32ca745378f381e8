// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides the single access check of the service and log-safe
client identifiers.

# Clear Password

Clearing all votes is gated by one shared secret from configuration:

	if err := auth.CheckClearPassword(req.Password, cfg.ClearPassword); err != nil {
		// 401
	}

The comparison is exact string equality done in constant time. An empty
configured password rejects everything.

# IP Hashing

Vote submissions log a salted hash instead of the client address:

	hash := auth.HashIP(ipAddress, salt)

Returns first 8 bytes (16 hex chars) of HMAC-SHA256.
*/
package auth
