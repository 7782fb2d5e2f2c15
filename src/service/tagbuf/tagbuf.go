package tagbuf

import "sync"

// Buffer 按角色隔离的卖单物品标记缓冲
// 玩家在下卖单之前把要卖的物品逐件标记进来, 卖单流程一次性消费
// 两级 map + 一把读写锁: 操作都是 O(1)/O(n) 的内存动作, 不需要跨角色锁
// 缓冲没有过期时间, 只在显式清空或被卖单消费时清除
type Buffer struct {
	mu   sync.RWMutex
	tags map[uint64]map[uint64]struct{} // actorID -> set of itemIDs
}

func New() *Buffer {
	return &Buffer{
		tags: make(map[uint64]map[uint64]struct{}),
	}
}

// Add 标记一件物品, 重复标记是幂等的
func (b *Buffer) Add(actorID, itemID uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	set, ok := b.tags[actorID]
	if !ok {
		set = make(map[uint64]struct{})
		b.tags[actorID] = set
	}
	set[itemID] = struct{}{}
}

// Remove 取消一件物品的标记, 返回是否真的存在过
func (b *Buffer) Remove(actorID, itemID uint64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	set, ok := b.tags[actorID]
	if !ok {
		return false
	}
	if _, exists := set[itemID]; !exists {
		return false
	}
	delete(set, itemID)
	if len(set) == 0 {
		delete(b.tags, actorID)
	}
	return true
}

// Clear 清空某角色的全部标记
func (b *Buffer) Clear(actorID uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.tags, actorID)
}

// List 返回某角色当前标记的物品 id 快照
func (b *Buffer) List(actorID uint64) []uint64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	set, ok := b.tags[actorID]
	if !ok {
		return nil
	}
	out := make([]uint64, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	return out
}

// Snapshot 给卖单流程用的快照读
// 只读不清: 只有卖单成功后调用方才应 Clear, 失败时标记保持原样
func (b *Buffer) Snapshot(actorID uint64) []uint64 {
	return b.List(actorID)
}
