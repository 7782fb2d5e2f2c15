package escrow

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"sync"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ProjectsTask/EasyAuctionHouse/src/dao"
	"github.com/ProjectsTask/EasyAuctionHouse/src/model"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/errcode"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/world"
)

func newTestDao(t *testing.T) *dao.Dao {
	t.Helper()

	path := filepath.Join(t.TempDir(), "escrow_test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, model.Migrate(db))

	return dao.New(context.Background(), db, nil)
}

func testItem(id uint64, stack int32) *world.Item {
	return &world.Item{
		ID:        id,
		Wcid:      273,
		Name:      "Pyreal",
		StackSize: stack,
		MaxStack:  25000,
	}
}

func TestDepositWithdrawRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewStore(PoolListed, newTestDao(t))

	item := testItem(100, 1)
	require.NoError(t, s.Deposit(ctx, nil, 1, item, "order-a"))

	owner, ok := s.OwnerOf(100)
	require.True(t, ok)
	assert.Equal(t, uint64(1), owner)

	got, err := s.WithdrawItem(ctx, nil, 100)
	require.NoError(t, err)
	assert.Equal(t, item, got)

	// 取出后登记被清除
	_, ok = s.OwnerOf(100)
	assert.False(t, ok)
	_, err = s.WithdrawItem(ctx, nil, 100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDepositPersistsCustodyRow(t *testing.T) {
	ctx := context.Background()
	d := newTestDao(t)
	s := NewStore(PoolCollateral, d)

	require.NoError(t, s.Deposit(ctx, nil, 9, testItem(200, 150), "order-b"))

	rows, err := d.GetEscrowItemsByRef(ctx, string(PoolCollateral), "order-b")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, uint64(200), rows[0].ItemID)
	assert.Equal(t, uint64(9), rows[0].OwnerID)
	assert.Equal(t, int64(150), rows[0].Amount)

	// 取出后托管行同步删除
	_, err = s.WithdrawItem(ctx, nil, 200)
	require.NoError(t, err)
	rows, err = d.GetEscrowItemsByRef(ctx, string(PoolCollateral), "order-b")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDuplicateDepositIsInvariantViolation(t *testing.T) {
	ctx := context.Background()
	s := NewStore(PoolListed, newTestDao(t))

	require.NoError(t, s.Deposit(ctx, nil, 1, testItem(300, 1), "order-c"))
	err := s.Deposit(ctx, nil, 1, testItem(300, 1), "order-c")
	assert.ErrorIs(t, err, errcode.ErrEscrowCorrupted)
	assert.Equal(t, 1, s.Size())
}

func TestWithdrawByRef(t *testing.T) {
	ctx := context.Background()
	s := NewStore(PoolListed, newTestDao(t))

	require.NoError(t, s.Deposit(ctx, nil, 1, testItem(400, 1), "order-d"))
	require.NoError(t, s.Deposit(ctx, nil, 1, testItem(401, 1), "order-d"))
	require.NoError(t, s.Deposit(ctx, nil, 2, testItem(402, 1), "order-e"))

	assert.Len(t, s.ItemsByRef("order-d"), 2)
	assert.Len(t, s.ItemsByOwner(2), 1)

	items, err := s.WithdrawByRef(ctx, nil, "order-d")
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 1, s.Size())

	// 没有匹配物品时返回空集而不是错误, 是否异常由调用方判断
	items, err = s.WithdrawByRef(ctx, nil, "order-d")
	require.NoError(t, err)
	assert.Empty(t, items)
}

// 事务内的出池必须走事务连接: 托管行的删除跟同事务的其他写一起提交,
// 不允许用第二个连接去写同一个库
func TestWithdrawInsideTransaction(t *testing.T) {
	ctx := context.Background()
	d := newTestDao(t)
	s := NewStore(PoolListed, d)

	require.NoError(t, s.Deposit(ctx, nil, 1, testItem(500, 1), "order-f"))

	err := d.ExecuteInTx(ctx, sql.LevelSerializable, "settle_test", func(tx *gorm.DB) error {
		items, werr := s.WithdrawByRef(ctx, tx, "order-f")
		if werr != nil {
			return werr
		}
		require.Len(t, items, 1)
		return d.InsertEscrowItem(ctx, tx, &model.EscrowItem{
			ItemID: 501, OwnerID: 1, Pool: string(PoolListed), Ref: "order-g", Amount: 1,
		})
	})
	require.NoError(t, err)

	rows, err := d.GetEscrowItemsByRef(ctx, string(PoolListed), "order-f")
	require.NoError(t, err)
	assert.Empty(t, rows)
	rows, err = d.GetEscrowItemsByRef(ctx, string(PoolListed), "order-g")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.Equal(t, 0, s.Size())
}

// 事务回滚后托管行自动恢复, Restore 补回内存登记; 重复调用无副作用
func TestRestoreAfterRollback(t *testing.T) {
	ctx := context.Background()
	d := newTestDao(t)
	s := NewStore(PoolCollateral, d)

	require.NoError(t, s.Deposit(ctx, nil, 9, testItem(600, 150), "order-h"))

	var taken []*world.Item
	err := d.ExecuteInTx(ctx, sql.LevelSerializable, "settle_test", func(tx *gorm.DB) error {
		var werr error
		taken, werr = s.WithdrawByRef(ctx, tx, "order-h")
		require.NoError(t, werr)
		return assert.AnError
	})
	require.Error(t, err)
	require.Len(t, taken, 1)
	assert.Equal(t, 0, s.Size())

	s.Restore(9, "order-h", taken)
	s.Restore(9, "order-h", taken)

	assert.Equal(t, 1, s.Size())
	owner, ok := s.OwnerOf(600)
	require.True(t, ok)
	assert.Equal(t, uint64(9), owner)

	rows, err := d.GetEscrowItemsByRef(ctx, string(PoolCollateral), "order-h")
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestPoolOperationsAreSerialized(t *testing.T) {
	ctx := context.Background()
	s := NewStore(PoolBank, newTestDao(t))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				id := uint64(g*1000 + i)
				ref := fmt.Sprintf("bank-%d", g)
				assert.NoError(t, s.Deposit(ctx, nil, uint64(g), testItem(id, 1), ref))
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(t, 200, s.Size())
	for g := 0; g < 8; g++ {
		assert.Len(t, s.ItemsByOwner(uint64(g)), 25)
	}
}
