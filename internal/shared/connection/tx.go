package connection

import (
	"database/sql"

	"gorm.io/gorm"
)

// TxSession binds a gorm session to an externally opened *sql.Tx, so
// repository calls made through the returned handle execute on that
// transaction instead of the pool. *sql.Tx satisfies gorm's ConnPool,
// and gorm skips its own implicit write transaction when it sees one.
func TxSession(db *gorm.DB, tx *sql.Tx) *gorm.DB {
	session := db.Session(&gorm.Session{NewDB: true})
	session.Statement.ConnPool = tx
	return session
}
