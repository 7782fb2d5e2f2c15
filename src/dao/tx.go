package dao

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ProjectsTask/EasyAuctionHouse/src/common/utils"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/xzap"
)

const (
	txAttempts   = 3
	txRetrySleep = 50 * time.Millisecond
)

// ExecuteInTx 在指定隔离级别的事务中执行 fn
// fn 正常返回则提交, 返回错误则回滚并把错误原样抛回给调用方
// 瞬时故障 (死锁/锁等待超时/序列化冲突) 自动重试, 业务错误不重试
// 不论成败都记录耗时和结果
func (d *Dao) ExecuteInTx(ctx context.Context, level sql.IsolationLevel, name string, fn func(tx *gorm.DB) error) error {
	start := time.Now()

	err := utils.Retry(name, txAttempts, txRetrySleep, isTransientTxErr, func() error {
		return d.DB.WithContext(ctx).Transaction(fn, &sql.TxOptions{Isolation: level})
	})

	elapsed := time.Since(start)
	if err != nil {
		xzap.WithContext(ctx).Warn("transaction rolled back",
			zap.String("name", name),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return errors.Wrapf(err, "failed on transaction %s", name)
	}

	xzap.WithContext(ctx).Debug("transaction committed",
		zap.String("name", name),
		zap.Duration("elapsed", elapsed))
	return nil
}

// isTransientTxErr 判断错误是否为数据库瞬时故障
// MySQL: 1213 死锁, 1205 锁等待超时; sqlite (测试环境): database is locked
func isTransientTxErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "Error 1213"),
		strings.Contains(msg, "Deadlock found"),
		strings.Contains(msg, "Error 1205"),
		strings.Contains(msg, "Lock wait timeout"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "could not serialize"):
		return true
	}
	return false
}
