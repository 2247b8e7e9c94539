package mysql

import (
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// isDuplicateError 唯一索引冲突
// TranslateError开启时为gorm.ErrDuplicatedKey；未翻译时按各数据库的错误信息判断
func isDuplicateError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || // MySQL 1062
		strings.Contains(msg, "duplicate key value") || // PostgreSQL 23505
		strings.Contains(msg, "UNIQUE constraint failed") // SQLite
}

// forUpdate SELECT ... FOR UPDATE（SQLite忽略行锁）
func forUpdate(db *gorm.DB) *gorm.DB {
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// paginate page从1开始；pageSize<=0时不分页
func paginate(db *gorm.DB, page, pageSize int) *gorm.DB {
	if pageSize <= 0 {
		return db
	}
	if page < 1 {
		page = 1
	}
	return db.Offset((page - 1) * pageSize).Limit(pageSize)
}

func likePattern(keyword string) string {
	return "%" + keyword + "%"
}
