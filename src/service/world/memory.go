package world

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
)

var ErrItemNotFound = errors.New("item not found in actor inventory")

// MemoryInventory 进程内背包实现
// 单机部署和测试时使用; 接入真实游戏服时换成对端实现
type MemoryInventory struct {
	mu     sync.Mutex
	actors map[uint64]map[uint64]*Item
	nextID uint64 // SplitStack 拆分出的新物品 id 从这里分配
}

func NewMemoryInventory() *MemoryInventory {
	return &MemoryInventory{
		actors: make(map[uint64]map[uint64]*Item),
		nextID: 1 << 32, // 与外部导入的物品 id 区分开
	}
}

// Grant 直接把物品放到角色身上, 用于初始化和测试造数
func (m *MemoryInventory) Grant(actorID uint64, item *Item) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.actors[actorID] == nil {
		m.actors[actorID] = make(map[uint64]*Item)
	}
	m.actors[actorID][item.ID] = item
}

func (m *MemoryInventory) FindItem(ctx context.Context, actorID uint64, itemID uint64) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.actors[actorID][itemID]
	if !ok {
		return nil, errors.Wrapf(ErrItemNotFound, "actor %d item %d", actorID, itemID)
	}
	cp := *it
	return &cp, nil
}

func (m *MemoryInventory) RemoveItem(ctx context.Context, actorID uint64, itemID uint64) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.actors[actorID][itemID]
	if !ok {
		return nil, errors.Wrapf(ErrItemNotFound, "actor %d item %d", actorID, itemID)
	}
	delete(m.actors[actorID], itemID)
	return it, nil
}

func (m *MemoryInventory) AddItem(ctx context.Context, actorID uint64, item *Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.actors[actorID] == nil {
		m.actors[actorID] = make(map[uint64]*Item)
	}
	m.actors[actorID][item.ID] = item
	return nil
}

func (m *MemoryInventory) CurrencyItems(ctx context.Context, actorID uint64, wcid uint32) ([]*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var items []*Item
	for _, it := range m.actors[actorID] {
		if it.Wcid == wcid {
			cp := *it
			items = append(items, &cp)
		}
	}
	return items, nil
}

func (m *MemoryInventory) SplitStack(ctx context.Context, actorID uint64, itemID uint64, amount int32) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	it, ok := m.actors[actorID][itemID]
	if !ok {
		return nil, errors.Wrapf(ErrItemNotFound, "actor %d item %d", actorID, itemID)
	}
	if amount <= 0 || amount >= it.StackSize {
		return nil, errors.Errorf("invalid split amount %d for stack of %d", amount, it.StackSize)
	}

	it.StackSize -= amount
	split := *it
	split.ID = atomic.AddUint64(&m.nextID, 1)
	split.StackSize = amount
	return &split, nil
}

// Count 角色身上指定货币的总面额, 测试断言用
func (m *MemoryInventory) Count(actorID uint64, wcid uint32) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var total int64
	for _, it := range m.actors[actorID] {
		if it.Wcid == wcid {
			total += int64(it.StackSize)
		}
	}
	return total
}
