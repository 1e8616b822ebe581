// Package store persists completed audit reports keyed by a composite of
// the audited business's identity, so repeat requests within the TTL reuse
// the earlier verdict.
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/sells-group/precall-audit/internal/model"
)

// Store is the audit-cache persistence interface.
type Store interface {
	// GetAudit returns the cached report for key, or nil on a miss.
	GetAudit(ctx context.Context, key string) (*model.AuditReport, error)
	// PutAudit stores a report under key with the given TTL.
	PutAudit(ctx context.Context, key string, report *model.AuditReport, ttl time.Duration) error
	// DeleteExpired removes expired entries and reports how many went.
	DeleteExpired(ctx context.Context) (int, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Key builds the cache key: {domain}_{city}_{service}_{business_name_hash}.
// The name is hashed so free-text input never leaks into key space.
func Key(domain, city, service, businessName string) string {
	sum := sha256.Sum256([]byte(businessName))
	return domain + "_" + city + "_" + service + "_" + hex.EncodeToString(sum[:])[:16]
}
