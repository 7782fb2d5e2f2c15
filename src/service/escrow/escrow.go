package escrow

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ProjectsTask/EasyAuctionHouse/src/dao"
	"github.com/ProjectsTask/EasyAuctionHouse/src/model"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/errcode"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/world"
)

// 托管池: 挂单物品和抵押货币离开角色背包之后的临时归属地
// 每个用途一个单例池, 由 ServerCtx 在启动时构造并注入
// 池上的所有操作被一把池级互斥锁串行化: 池很小, 操作都是内存级的,
// 用粗粒度锁换一个可以直接论证正确性的互斥模型
//
// 入池/出池都同步落库 (au_escrow_items): 多步流程中途崩溃后,
// 任何一件物品的位置都能唯一确定 —— 在某个池里, 或者在某个角色身上

// Pool 池的种类
type Pool string

const (
	PoolListed     Pool = "listed"     // 挂单中的物品
	PoolCollateral Pool = "collateral" // 出价抵押的货币
	PoolBank       Pool = "bank"       // 银行寄存
)

// ErrNotFound 池中没有匹配的托管物品
var ErrNotFound = errors.New("escrow: item not found")

type entry struct {
	ownerID uint64 // 有权取回的角色
	ref     string // 用途标记 (卖单 uuid / 银行角色标识)
	item    *world.Item
}

// Store 单个用途的托管池
type Store struct {
	pool Pool
	d    *dao.Dao

	mu    sync.Mutex
	items map[uint64]*entry // itemID -> entry
}

// NewStore 构造一个托管池
func NewStore(pool Pool, d *dao.Dao) *Store {
	return &Store{
		pool:  pool,
		d:     d,
		items: make(map[uint64]*entry),
	}
}

// Deposit 把物品存入托管池
// 在数据库事务内调用时传入 tx, 托管行跟随事务一起提交或回滚; 否则传 nil 立即落库
// 同一物品重复入池说明上层流程已经错乱, 按不变量破坏处理
func (s *Store) Deposit(ctx context.Context, tx *gorm.DB, ownerID uint64, item *world.Item, ref string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.items[item.ID]; exists {
		return errcode.ErrEscrowCorrupted
	}

	// 先落库再进内存: 落库失败时池状态不变
	row := &model.EscrowItem{
		ItemID:  item.ID,
		OwnerID: ownerID,
		Pool:    string(s.pool),
		Ref:     ref,
		Amount:  int64(item.StackSize),
	}
	if err := s.d.InsertEscrowItem(ctx, tx, row); err != nil {
		return errors.Wrap(err, "failed on persist escrow deposit")
	}

	s.items[item.ID] = &entry{ownerID: ownerID, ref: ref, item: item}
	return nil
}

// WithdrawItem 按物品 id 取出单件物品, 清除其托管登记
// 事务内调用必须传 tx: 托管行的删除要和事务里的其他写同连接提交,
// 用第二个连接写同一个库在 sqlite 上会直接撞锁
func (s *Store) WithdrawItem(ctx context.Context, tx *gorm.DB, itemID uint64) (*world.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[itemID]
	if !ok {
		return nil, ErrNotFound
	}

	if err := s.d.DeleteEscrowItem(ctx, tx, itemID); err != nil {
		return nil, errors.Wrap(err, "failed on persist escrow withdraw")
	}

	delete(s.items, itemID)
	return e.item, nil
}

// WithdrawByRef 取出某个用途标记下的全部物品
// 没有匹配物品时返回空切片, 由调用方决定这是否异常
func (s *Store) WithdrawByRef(ctx context.Context, tx *gorm.DB, ref string) ([]*world.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*world.Item
	for id, e := range s.items {
		if e.ref != ref {
			continue
		}
		if err := s.d.DeleteEscrowItem(ctx, tx, id); err != nil {
			// 部分取出也是一致的: 已取出的物品登记已清, 剩余的保持托管
			return out, errors.Wrap(err, "failed on persist escrow withdraw")
		}
		delete(s.items, id)
		out = append(out, e.item)
	}
	return out, nil
}

// Restore 在事务回滚后把取出的物品放回内存登记
// 只用于出池发生在事务内而事务最终没有提交的场合: 托管行已随回滚恢复,
// 这里只补内存侧, 不写库; 已在池中的物品跳过, 重复调用无副作用
func (s *Store) Restore(ownerID uint64, ref string, items []*world.Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, it := range items {
		if _, exists := s.items[it.ID]; exists {
			continue
		}
		s.items[it.ID] = &entry{ownerID: ownerID, ref: ref, item: it}
	}
}

// ItemsByRef 只读查询某个用途标记下的物品
func (s *Store) ItemsByRef(ref string) []*world.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*world.Item
	for _, e := range s.items {
		if e.ref == ref {
			out = append(out, e.item)
		}
	}
	return out
}

// ItemsByOwner 只读查询归属某个角色的物品
func (s *Store) ItemsByOwner(ownerID uint64) []*world.Item {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []*world.Item
	for _, e := range s.items {
		if e.ownerID == ownerID {
			out = append(out, e.item)
		}
	}
	return out
}

// OwnerOf 查询物品的托管归属
func (s *Store) OwnerOf(itemID uint64) (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[itemID]
	if !ok {
		return 0, false
	}
	return e.ownerID, true
}

// Size 池中物品数量
func (s *Store) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
