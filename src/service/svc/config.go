package svc

import (
	"gorm.io/gorm"

	"github.com/ProjectsTask/EasyAuctionHouse/src/dao"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/xkv"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/escrow"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/tagbuf"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/world"
)

// CtxConfig 服务上下文配置构建器
// 用于使用 Option 模式构建 ServerCtx
type CtxConfig struct {
	db        *gorm.DB
	dao       *dao.Dao
	KvStore   *xkv.Store
	inventory world.Inventory
	clock     world.Clock
}

type CtxOption func(conf *CtxConfig)

// NewServerCtx 创建新的服务上下文
// 三个托管池在这里构造: 每个用途一个单例, 其余代码只能通过 ServerCtx 拿到它们
func NewServerCtx(options ...CtxOption) *ServerCtx {
	c := &CtxConfig{clock: world.SystemClock{}}
	for _, opt := range options {
		opt(c)
	}
	return &ServerCtx{
		DB:        c.db,
		KvStore:   c.KvStore,
		Dao:       c.dao,
		Inventory: c.inventory,
		Clock:     c.clock,

		ListedPool:     escrow.NewStore(escrow.PoolListed, c.dao),
		CollateralPool: escrow.NewStore(escrow.PoolCollateral, c.dao),
		BankPool:       escrow.NewStore(escrow.PoolBank, c.dao),
		TagBuffer:      tagbuf.New(),
	}
}

func WithKv(kv *xkv.Store) CtxOption {
	return func(conf *CtxConfig) {
		conf.KvStore = kv
	}
}

func WithDB(db *gorm.DB) CtxOption {
	return func(conf *CtxConfig) {
		conf.db = db
	}
}

func WithDao(dao *dao.Dao) CtxOption {
	return func(conf *CtxConfig) {
		conf.dao = dao
	}
}

func WithInventory(inv world.Inventory) CtxOption {
	return func(conf *CtxConfig) {
		conf.inventory = inv
	}
}

func WithClock(clock world.Clock) CtxOption {
	return func(conf *CtxConfig) {
		conf.clock = clock
	}
}
