package types

// BankReq 银行寄存/取回请求
type BankReq struct {
	ActorID uint64 `json:"actor_id" binding:"required,actorid"`
	ItemID  uint64 `json:"item_id" binding:"required"`
}

// BankItemInfo 寄存中的物品
type BankItemInfo struct {
	ItemID    uint64 `json:"item_id"`
	Name      string `json:"name"`
	Icon      uint32 `json:"icon"`
	StackSize int32  `json:"stack_size"`
}

// BankItemsResp 某角色的寄存物品列表
type BankItemsResp struct {
	ActorID uint64         `json:"actor_id"`
	Result  []BankItemInfo `json:"result"`
}
