// internal/core/ports/database.go
package ports

import "context"

// Database is the subset of the connection pool the HTTP layer needs for
// health reporting.
type Database interface {
	Ping(ctx context.Context) error
	Health(ctx context.Context) map[string]interface{}
}
