package zombiezen

import (
	"fmt"
	"runtime"

	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"
)

// connPragmas are run on every new connection of the pool. Foreign keys are
// off by default in SQLite; the sentence tables cascade on doc deletion.
const connPragmas = `
PRAGMA foreign_keys = ON;
PRAGMA busy_timeout = 5000;
`

// NewPool opens a pool of one connection per CPU on the database file at
// dbPath, created if missing. Connections use WAL mode and foreign keys.
func NewPool(dbPath string) (*sqlitex.Pool, error) {
	pool, err := sqlitex.NewPool("file:"+dbPath, sqlitex.PoolOptions{
		PoolSize:    runtime.NumCPU(),
		PrepareConn: prepareConn,
	})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite pool at %s: %w", dbPath, err)
	}
	return pool, nil
}

func prepareConn(conn *sqlite.Conn) error {
	return sqlitex.ExecuteScript(conn, connPragmas, nil)
}
