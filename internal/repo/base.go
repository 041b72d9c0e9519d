package repo

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Base provides a shared foundation for domain repositories: the GORM
// connection and the deadline applied to every call.
type Base struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewBase constructs a Base repository backed by the provided GORM connection.
// A non-positive timeout leaves calls bounded only by the caller's context.
func NewBase(db *gorm.DB, timeout time.Duration) Base {
	return Base{db: db, timeout: timeout}
}

// DB returns the GORM connection bound to ctx and the call deadline. The
// cancel func must always be called.
func (b Base) DB(ctx context.Context) (*gorm.DB, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if b.timeout <= 0 {
		return b.db.WithContext(ctx), func() {}
	}
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	return b.db.WithContext(ctx), cancel
}

// Timeout is the deadline DB applies to each call; zero means none.
func (b Base) Timeout() time.Duration {
	return b.timeout
}
