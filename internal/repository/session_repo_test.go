package repository

import (
	"context"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// sqlRecorder 记录 gorm 生成的 SQL
type sqlRecorder struct {
	logger.Interface
	statements []string
}

func (r *sqlRecorder) LogMode(logger.LogLevel) logger.Interface { return r }

func (r *sqlRecorder) Trace(_ context.Context, _ time.Time, fc func() (string, int64), _ error) {
	sql, _ := fc()
	r.statements = append(r.statements, sql)
}

// dryRunDB 仅生成 SQL，不连接数据库
func dryRunDB(t *testing.T) (*gorm.DB, *sqlRecorder) {
	t.Helper()
	rec := &sqlRecorder{Interface: logger.Discard}
	db, err := gorm.Open(postgres.New(postgres.Config{DSN: "host=localhost user=postgres dbname=dry sslmode=disable"}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
		Logger:               rec,
	})
	if err != nil {
		t.Fatalf("初始化 DryRun 连接失败: %v", err)
	}
	return db, rec
}

func TestSessionRepo_GetForUpdateLocksRow(t *testing.T) {
	db, rec := dryRunDB(t)

	// DryRun 不执行查询，只检查生成的语句
	_, _ = NewSessionRepo(db).GetForUpdate(context.Background(), "s1")
	if len(rec.statements) != 1 {
		t.Fatalf("期望生成 1 条 SQL，实际 %d", len(rec.statements))
	}
	if !strings.Contains(rec.statements[0], "FOR UPDATE") {
		t.Errorf("应带行级锁: %s", rec.statements[0])
	}
}
