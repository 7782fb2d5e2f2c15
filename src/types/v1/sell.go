package types

// SellReq 创建卖单请求
// 物品列表不在请求里: 卖单消费的是该角色当前的标记缓冲
type SellReq struct {
	ActorID       uint64 `json:"actor_id" binding:"required,actorid"`
	ActorName     string `json:"actor_name" binding:"required"`
	Currency      uint32 `json:"currency" binding:"required"`
	StartPrice    int64  `json:"start_price" binding:"required,gt=0"`
	BuyoutPrice   int64  `json:"buyout_price" binding:"gte=0"` // 0 表示不启用一口价
	DurationHours int64  `json:"duration_hours" binding:"required,duration"`
}

// SellResp 创建卖单响应
type SellResp struct {
	Listing ListingInfo `json:"listing"`
}
