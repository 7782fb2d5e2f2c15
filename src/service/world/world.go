package world

import (
	"context"
	"time"
)

// 拍卖行核心不直接操纵游戏世界对象, 一切背包/邮件交互都走这里定义的窄接口
// 真实实现由游戏服提供; 测试里用内存假实现

// Actor 参与交易的角色
type Actor struct {
	ID   uint64
	Name string
}

// Item 世界物品在拍卖行视角下的投影
// StackSize 对货币物品来说就是面额
type Item struct {
	ID        uint64
	Wcid      uint32 // 物品类型编号, 货币物品用它和配置里的 currency 匹配
	Name      string
	Icon      uint32
	Desc      string
	StackSize int32
	MaxStack  int32
	Attuned   bool // 绑定物品不可交易
	Trading   bool // 正在交易面板中
	Busy      bool // 正在转移/使用中
}

// Available 物品当前是否可以被卖家挂单
func (it *Item) Available() bool {
	return !it.Attuned && !it.Trading && !it.Busy
}

// Inventory 背包/物品托管协作方
// 所有操作都以角色为边界: 拍卖行只能动属于该角色、且角色本人可触及的物品
type Inventory interface {
	// FindItem 在角色自己的背包或装备栏中定位物品, 不可达返回 not found
	FindItem(ctx context.Context, actorID uint64, itemID uint64) (*Item, error)
	// RemoveItem 把物品从角色身上移除并交给调用方托管
	RemoveItem(ctx context.Context, actorID uint64, itemID uint64) (*Item, error)
	// AddItem 把物品放回角色的背包
	AddItem(ctx context.Context, actorID uint64, item *Item) error
	// CurrencyItems 列出角色身上指定货币类型的全部物品 (含叠加堆)
	CurrencyItems(ctx context.Context, actorID uint64, wcid uint32) ([]*Item, error)
	// SplitStack 从指定叠加堆上拆出 amount 面额的新物品, 原堆减少相应数量
	SplitStack(ctx context.Context, actorID uint64, itemID uint64, amount int32) (*Item, error)
}

// Clock 统一的时间来源, 方便测试拨表
type Clock interface {
	Now() time.Time
}

// SystemClock 直接读系统时间
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
