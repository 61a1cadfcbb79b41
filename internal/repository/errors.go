package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgconn"
	"gorm.io/gorm"
)

// IntegrityConflictError 唯一键或外键冲突，整组比赛数据已回滚
type IntegrityConflictError struct {
	MatchID string
	Op      string
	Err     error
}

func (e *IntegrityConflictError) Error() string {
	return fmt.Sprintf("比赛 %s %s 违反完整性约束: %v", e.MatchID, e.Op, e.Err)
}

func (e *IntegrityConflictError) Unwrap() error { return e.Err }

// postgres: 23505 unique_violation, 23503 foreign_key_violation
var pgIntegrityCodes = map[string]struct{}{"23505": {}, "23503": {}}

// isIntegrityViolation 兼容已翻译的 gorm 错误、pg 错误码以及 sqlite 的错误文本
func isIntegrityViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		_, ok := pgIntegrityCodes[pgErr.Code]
		return ok
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "FOREIGN KEY constraint failed") ||
		strings.Contains(msg, "duplicate key")
}

// wrapGroupErr 完整性冲突包装成 IntegrityConflictError，其它错误按普通错误返回
func wrapGroupErr(matchID, op string, err error) error {
	if isIntegrityViolation(err) {
		return &IntegrityConflictError{MatchID: matchID, Op: op, Err: err}
	}
	return fmt.Errorf("%s失败: %w, match_id: %s", op, err, matchID)
}
