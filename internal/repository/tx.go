package repository

import "gorm.io/gorm"

// AdvisoryLockTx takes a transaction-scoped Postgres advisory lock keyed by an
// entity id. Serializes concurrent delete-then-reinsert child replacements on
// the same parent. Released automatically at commit/rollback. No-op when tx is
// nil (unit test mode).
func AdvisoryLockTx(tx *gorm.DB, key string) error {
	if tx == nil {
		return nil
	}
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", key).Error
}
