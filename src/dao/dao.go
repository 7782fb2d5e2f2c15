package dao

import (
	"context"

	"gorm.io/gorm"

	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/xkv"
)

// Dao 数据访问对象
// 封装了数据库 (GORM) 和 Redis (KvStore) 的操作
// 所有的数据库交互逻辑应在此层实现, 避免在 Service 层直接操作 DB
type Dao struct {
	ctx context.Context

	DB      *gorm.DB   // 关系型数据库连接实例
	KvStore *xkv.Store // 键值存储实例 (Redis), 用于缓存
}

// New 创建一个新的 Dao 实例
func New(ctx context.Context, db *gorm.DB, kvStore *xkv.Store) *Dao {
	return &Dao{
		ctx:     ctx,
		DB:      db,
		KvStore: kvStore,
	}
}

// conn 返回应当使用的数据库句柄
// 带事务句柄时在事务内执行, 否则用普通连接
func (d *Dao) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return d.DB
}
