package types

// TagReq 标记缓冲的增删请求
type TagReq struct {
	ActorID uint64 `json:"actor_id" binding:"required,actorid"`
	ItemID  uint64 `json:"item_id" binding:"required"`
}

// TagClearReq 清空标记缓冲
type TagClearReq struct {
	ActorID uint64 `json:"actor_id" binding:"required,actorid"`
}

// TagListResp 当前标记的物品集合
type TagListResp struct {
	ActorID uint64   `json:"actor_id"`
	ItemIDs []uint64 `json:"item_ids"`
}
