package redis

import "strings"

const defaultKeyspace Keyspace = "ac"

// Keyspace namespaces every key the backend writes so several environments
// can share one redis.
type Keyspace string

func (k Keyspace) IdempotencyKey(scope, id string) string {
	return k.join("idempotency", scope, id)
}

func (k Keyspace) RateLimitKey(scope string) string {
	return k.join("rate_limit", scope)
}

func (k Keyspace) AccessSessionKey(accessID string) string {
	return k.join("session", "access", accessID)
}

// VehicleLookupKey keys the shared plate cache by normalized plate.
func (k Keyspace) VehicleLookupKey(plate string) string {
	return k.join("vehicle", "lookup", strings.ToUpper(plate))
}

func (k Keyspace) join(parts ...string) string {
	ns := strings.TrimSpace(string(k))
	if ns == "" {
		ns = string(defaultKeyspace)
	}
	b := strings.Builder{}
	b.WriteString(ns)
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			b.WriteByte(':')
			b.WriteString(part)
		}
	}
	return b.String()
}
