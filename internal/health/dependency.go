package health

import (
	"context"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Pinger is satisfied by database.MongoHandle.
type Pinger interface {
	Ping(ctx context.Context) error
}

// pingCheck adapts any "ping" call into a readiness Checker.
type pingCheck struct {
	name string
	ping func(context.Context) error
}

func (p pingCheck) Check(ctx context.Context) CheckResult {
	if err := p.ping(ctx); err != nil {
		return CheckResult{Name: p.name, Error: err.Error()}
	}
	return CheckResult{Name: p.name, Healthy: true}
}

// NewMongoChecker returns nil for a nil store, which NewProbeRunner skips.
func NewMongoChecker(store Pinger) Checker {
	if store == nil {
		return nil
	}
	return pingCheck{name: "mongo", ping: store.Ping}
}

func NewDBChecker(db *gorm.DB) Checker {
	if db == nil {
		return nil
	}
	return pingCheck{name: "sql", ping: func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}}
}

func NewRedisChecker(client redis.UniversalClient) Checker {
	if client == nil {
		return nil
	}
	return pingCheck{name: "redis", ping: func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}}
}
