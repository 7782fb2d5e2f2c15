package sweeper

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ProjectsTask/EasyAuctionHouse/src/config"
	"github.com/ProjectsTask/EasyAuctionHouse/src/dao"
	"github.com/ProjectsTask/EasyAuctionHouse/src/model"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/svc"
	service "github.com/ProjectsTask/EasyAuctionHouse/src/service/v1"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/world"
	types "github.com/ProjectsTask/EasyAuctionHouse/src/types/v1"
)

const testCurrency uint32 = 273

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
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

func newTestCtx(t *testing.T) (*svc.ServerCtx, *world.MemoryInventory, *fakeClock) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "sweeper_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, model.Migrate(db))

	inv := world.NewMemoryInventory()
	clk := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	d := dao.New(context.Background(), db, nil)

	svcCtx := svc.NewServerCtx(
		svc.WithDB(db),
		svc.WithDao(d),
		svc.WithInventory(inv),
		svc.WithClock(clk),
	)
	svcCtx.C = &config.Config{
		AuctionCfg: config.AuctionCfg{
			Currencies:        []config.Currency{{Wcid: testCurrency, Name: "Pyreal"}},
			SweepIntervalSecs: 1,
			MailSender:        "Auction House",
			BrowsePageSize:    20,
		},
	}
	return svcCtx, inv, clk
}

// listItem 卖家 10 挂出一件物品 (1 小时)
func listItem(t *testing.T, svcCtx *svc.ServerCtx, inv *world.MemoryInventory, itemID uint64) *types.ListingInfo {
	t.Helper()

	inv.Grant(10, &world.Item{ID: itemID, Wcid: 500, Name: "Shadowfire Isparian Wand", StackSize: 1})
	svcCtx.TagBuffer.Add(10, itemID)

	info, err := service.CreateSellOrder(context.Background(), svcCtx, types.SellReq{
		ActorID:       10,
		ActorName:     "Aruwen",
		Currency:      testCurrency,
		StartPrice:    100,
		DurationHours: 1,
	})
	require.NoError(t, err)
	return info
}

func getListing(t *testing.T, svcCtx *svc.ServerCtx, id int64) *model.Listing {
	t.Helper()
	l, err := svcCtx.Dao.GetListingByID(context.Background(), nil, id, false)
	require.NoError(t, err)
	return l
}

func TestSweepNeverCompletesEarly(t *testing.T) {
	svcCtx, inv, clk := newTestCtx(t)
	info := listItem(t, svcCtx, inv, 7001)
	s := New(context.Background(), svcCtx)

	// 结束时间之前的任何一轮扫描都不得触及该挂单
	for _, ahead := range []time.Duration{0, time.Minute, 30 * time.Minute, 59 * time.Minute} {
		s.Sweep(clk.Now().Add(ahead).Unix())
		assert.Equal(t, model.ListingStatusActive, getListing(t, svcCtx, info.ID).Status)
	}
	assert.Equal(t, 1, svcCtx.ListedPool.Size())
}

func TestSettleExpiredNoBidder(t *testing.T) {
	ctx := context.Background()
	svcCtx, inv, clk := newTestCtx(t)
	info := listItem(t, svcCtx, inv, 7002)
	s := New(ctx, svcCtx)

	clk.Advance(2 * time.Hour)
	s.Sweep(clk.Now().Unix())

	// 流拍: 挂单完结, 物品以邮件形式退回卖家, 托管池清空
	assert.Equal(t, model.ListingStatusCompleted, getListing(t, svcCtx, info.ID).Status)
	assert.Equal(t, 0, svcCtx.ListedPool.Size())

	mails, err := svcCtx.Dao.GetPendingMailByReceiver(ctx, 10)
	require.NoError(t, err)
	require.Len(t, mails, 1)
	assert.Equal(t, uint64(7002), mails[0].ItemID)
	assert.Contains(t, mails[0].Subject, "expired")
}

func TestSettleExpiredWithWinner(t *testing.T) {
	ctx := context.Background()
	svcCtx, inv, clk := newTestCtx(t)
	info := listItem(t, svcCtx, inv, 7003)
	s := New(ctx, svcCtx)

	grantPyreal := func(actorID, itemID uint64, amount int32) {
		inv.Grant(actorID, &world.Item{ID: itemID, Wcid: testCurrency, Name: "Pyreal", StackSize: amount, MaxStack: 25000})
	}
	grantPyreal(20, 9001, 150)

	_, err := service.PlaceBid(ctx, svcCtx, info.ID, types.BidReq{ActorID: 20, ActorName: "Tusker", Amount: 150})
	require.NoError(t, err)

	clk.Advance(2 * time.Hour)
	s.Sweep(clk.Now().Unix())

	listing := getListing(t, svcCtx, info.ID)
	assert.Equal(t, model.ListingStatusCompleted, listing.Status)

	// 物品寄给中标者
	winnerMail, err := svcCtx.Dao.GetPendingMailByReceiver(ctx, 20)
	require.NoError(t, err)
	require.Len(t, winnerMail, 1)
	assert.Equal(t, uint64(7003), winnerMail[0].ItemID)
	assert.Contains(t, winnerMail[0].Subject, "won")

	// 货款寄给卖家
	sellerMail, err := svcCtx.Dao.GetPendingMailByReceiver(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sellerMail, 1)
	assert.Contains(t, sellerMail[0].Subject, "Proceeds")

	// 两个托管池都清空, 出价记录已标记处理
	assert.Equal(t, 0, svcCtx.ListedPool.Size())
	assert.Equal(t, 0, svcCtx.CollateralPool.Size())

	bids, err := svcCtx.Dao.GetBidsByListing(ctx, info.ID)
	require.NoError(t, err)
	require.Len(t, bids, 1)
	assert.True(t, bids[0].Resolved)
}

func TestSettleTwiceIsNoOp(t *testing.T) {
	ctx := context.Background()
	svcCtx, inv, clk := newTestCtx(t)
	info := listItem(t, svcCtx, inv, 7004)
	s := New(ctx, svcCtx)

	clk.Advance(2 * time.Hour)
	now := clk.Now().Unix()

	require.NoError(t, s.SettleListing(info.ID, now))
	// 第二次结算观察到 completed, 是无操作
	require.NoError(t, s.SettleListing(info.ID, now))

	mails, err := svcCtx.Dao.GetPendingMailByReceiver(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, mails, 1)
}

// 结算中途失败时必须不留痕迹: 事务回滚恢复托管行, 内存登记也要放回,
// 下一轮清算可以从干净状态重试
func TestSettleFailureRestoresEscrow(t *testing.T) {
	ctx := context.Background()
	svcCtx, inv, clk := newTestCtx(t)
	info := listItem(t, svcCtx, inv, 7006)
	s := New(ctx, svcCtx)

	inv.Grant(20, &world.Item{ID: 9001, Wcid: testCurrency, Name: "Pyreal", StackSize: 150, MaxStack: 25000})
	_, err := service.PlaceBid(ctx, svcCtx, info.ID, types.BidReq{ActorID: 20, ActorName: "Tusker", Amount: 150})
	require.NoError(t, err)

	orderID := getListing(t, svcCtx, info.ID).OrderID

	// 人为掏空抵押池, 结算在取抵押那一步撞上不变量破坏
	taken, err := svcCtx.CollateralPool.WithdrawByRef(ctx, nil, orderID)
	require.NoError(t, err)
	require.Len(t, taken, 1)

	clk.Advance(2 * time.Hour)
	require.Error(t, s.SettleListing(info.ID, clk.Now().Unix()))

	// 挂单保持 active, 挂单物品回到托管池, 托管行未被删除, 没有寄出任何邮件
	assert.Equal(t, model.ListingStatusActive, getListing(t, svcCtx, info.ID).Status)
	assert.Equal(t, 1, svcCtx.ListedPool.Size())
	rows, err := svcCtx.Dao.GetEscrowItemsByRef(ctx, "listed", orderID)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	for _, actor := range []uint64{10, 20} {
		mails, err := svcCtx.Dao.GetPendingMailByReceiver(ctx, actor)
		require.NoError(t, err)
		assert.Empty(t, mails)
	}
}

// 完整拍卖场景: 挂单 -> A 出 100 -> B 出 90 被拒 -> B 出 150 -> 过期清算
func TestFullAuctionScenario(t *testing.T) {
	ctx := context.Background()
	svcCtx, inv, clk := newTestCtx(t)
	info := listItem(t, svcCtx, inv, 7005)
	s := New(ctx, svcCtx)

	inv.Grant(20, &world.Item{ID: 9001, Wcid: testCurrency, Name: "Pyreal", StackSize: 100, MaxStack: 25000})
	inv.Grant(30, &world.Item{ID: 9002, Wcid: testCurrency, Name: "Pyreal", StackSize: 200, MaxStack: 25000})

	// A 出 100, 成为最高
	_, err := service.PlaceBid(ctx, svcCtx, info.ID, types.BidReq{ActorID: 20, ActorName: "Tusker", Amount: 100})
	require.NoError(t, err)

	// B 出 90, 低于当前最高被拒
	_, err = service.PlaceBid(ctx, svcCtx, info.ID, types.BidReq{ActorID: 30, ActorName: "Olthoi", Amount: 90})
	require.Error(t, err)

	// B 出 150, A 的 100 全额退回
	_, err = service.PlaceBid(ctx, svcCtx, info.ID, types.BidReq{ActorID: 30, ActorName: "Olthoi", Amount: 150})
	require.NoError(t, err)
	assert.Equal(t, int64(100), inv.Count(20, testCurrency))

	// 过期后清算
	clk.Advance(2 * time.Hour)
	s.Sweep(clk.Now().Unix())

	listing := getListing(t, svcCtx, info.ID)
	assert.Equal(t, model.ListingStatusCompleted, listing.Status)
	assert.Equal(t, uint64(30), listing.HighestBidderID)

	// 物品归 B, 150 货款归卖家
	winnerMail, err := svcCtx.Dao.GetPendingMailByReceiver(ctx, 30)
	require.NoError(t, err)
	require.Len(t, winnerMail, 1)
	assert.Equal(t, uint64(7005), winnerMail[0].ItemID)

	sellerMail, err := svcCtx.Dao.GetPendingMailByReceiver(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sellerMail, 1)

	var rows []model.EscrowItem
	require.NoError(t, svcCtx.DB.Find(&rows).Error)
	assert.Empty(t, rows, "custody rows should be gone after settlement")
}
