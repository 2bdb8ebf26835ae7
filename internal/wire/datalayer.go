package wire

import (
	"ai-writer-api/internal/infrastructure/persistence/postgres"
)

// PostgresOnlyDataLayer 仅包含 PostgreSQL 的数据层（用于 bootstrap）
type PostgresOnlyDataLayer struct {
	PgClient *postgres.Client
}
