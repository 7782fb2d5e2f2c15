package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ProjectsTask/EasyAuctionHouse/src/config"
	"github.com/ProjectsTask/EasyAuctionHouse/src/dao"
	"github.com/ProjectsTask/EasyAuctionHouse/src/model"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/svc"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/world"
)

const testCurrency uint32 = 273

// fakeClock 可拨动的时钟
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func testConfig() *config.Config {
	return &config.Config{
		AuctionCfg: config.AuctionCfg{
			Currencies:        []config.Currency{{Wcid: testCurrency, Name: "Pyreal"}},
			SweepIntervalSecs: 1,
			MailSender:        "Auction House",
			BrowsePageSize:    20,
			BrowseCacheSecs:   0,
		},
	}
}

// newTestCtx 组装一个跑在 sqlite 上的完整服务上下文
func newTestCtx(t *testing.T) (*svc.ServerCtx, *world.MemoryInventory, *fakeClock) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "service_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, model.Migrate(db))

	inv := world.NewMemoryInventory()
	clk := newFakeClock()
	d := dao.New(context.Background(), db, nil)

	svcCtx := svc.NewServerCtx(
		svc.WithDB(db),
		svc.WithDao(d),
		svc.WithInventory(inv),
		svc.WithClock(clk),
	)
	svcCtx.C = testConfig()
	return svcCtx, inv, clk
}

// grantPyreal 给角色发一堆货币, 返回物品 id
func grantPyreal(inv *world.MemoryInventory, actorID, itemID uint64, amount int32) {
	inv.Grant(actorID, &world.Item{
		ID:        itemID,
		Wcid:      testCurrency,
		Name:      "Pyreal",
		StackSize: amount,
		MaxStack:  25000,
	})
}
