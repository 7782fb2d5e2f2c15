package svc

import (
	"context"
	"sync"

	"github.com/zeromicro/go-zero/core/stores/cache"
	"github.com/zeromicro/go-zero/core/stores/kv"
	"github.com/zeromicro/go-zero/core/stores/redis"
	"gorm.io/gorm"

	"github.com/ProjectsTask/EasyAuctionHouse/src/config"
	"github.com/ProjectsTask/EasyAuctionHouse/src/dao"
	"github.com/ProjectsTask/EasyAuctionHouse/src/model"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/xkv"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/xzap"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/escrow"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/tagbuf"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/world"
)

// ServerCtx 服务上下文, 聚合所有基础设施与协作方
// 托管池在这里一次性构造并持有: 生命周期与进程一致, 不做惰性重建
type ServerCtx struct {
	C       *config.Config
	DB      *gorm.DB
	Dao     *dao.Dao
	KvStore *xkv.Store

	Inventory world.Inventory // 背包协作方, 由游戏服注入
	Clock     world.Clock

	ListedPool     *escrow.Store // 挂单物品托管池
	CollateralPool *escrow.Store // 出价抵押托管池
	BankPool       *escrow.Store // 银行寄存托管池
	TagBuffer      *tagbuf.Buffer

	listingLocks sync.Map // listingID -> *sync.Mutex
}

// LockListing 获取挂单级互斥锁, 返回解锁函数
// 出价和结算都必须先持有本锁再动挂单: 校验与状态迁移之间不允许穿插
// 同一挂单上的另一次出价或结算, 否则两边会基于同一份旧快照各自通过校验
func (c *ServerCtx) LockListing(id int64) func() {
	v, _ := c.listingLocks.LoadOrStore(id, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// NewServiceContext 初始化服务上下文
// 该函数负责初始化后端服务所需的所有基础设施组件
func NewServiceContext(c *config.Config, inventory world.Inventory) (*ServerCtx, error) {
	// 1. 初始化日志系统 (Zap Logger)
	if _, err := xzap.SetUp(c.Log); err != nil {
		return nil, err
	}

	// 2. 构造 Redis 配置
	var kvConf kv.KvConf
	for _, con := range c.Kv.Redis {
		kvConf = append(kvConf, cache.NodeConf{
			RedisConf: redis.RedisConf{
				Host: con.Host,
				Type: con.Type,
				Pass: con.Pass,
			},
			Weight: 1,
		})
	}

	// 3. 初始化 Redis 客户端 (xkv Store)
	store := xkv.NewStore(kvConf)

	// 4. 初始化数据库连接 (GORM)
	db, err := model.NewDB(c.DB)
	if err != nil {
		return nil, err
	}

	// 5. 初始化数据访问层 (DAO)
	d := dao.New(context.Background(), db, store)

	// 6. 组装 ServerCtx 对象
	serverCtx := NewServerCtx(
		WithDB(db),
		WithKv(store),
		WithDao(d),
		WithInventory(inventory),
		WithClock(world.SystemClock{}),
	)
	serverCtx.C = c

	return serverCtx, nil
}
