package types

// BidReq 出价请求
type BidReq struct {
	ActorID   uint64 `json:"actor_id" binding:"required,actorid"`
	ActorName string `json:"actor_name" binding:"required"`
	Amount    int64  `json:"amount" binding:"required,gt=0"`
}

// BidResp 出价成功响应
type BidResp struct {
	ListingID  int64  `json:"listing_id"`
	BidID      int64  `json:"bid_id"`
	Amount     int64  `json:"amount"`
	BidderName string `json:"bidder_name"`
	Message    string `json:"message"` // 给玩家的单行提示
}
