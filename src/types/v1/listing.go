package types

// ListingFilter 列表页查询参数
// Sort 取值为 "列名_方向", 列名和方向都走白名单校验, 非法值在进 SQL 之前就被拒绝
type ListingFilter struct {
	Currency uint32 `form:"currency" json:"currency"`   // 0 表示不过滤货币
	SellerID uint64 `form:"seller_id" json:"seller_id"` // 0 表示不过滤卖家
	Keyword  string `form:"keyword" json:"keyword"`     // 物品名称模糊匹配
	Sort     string `form:"sort" json:"sort"`           // 如 "end_time_asc", 空串用默认排序
	Page     int    `form:"page" json:"page"`
	PageSize int    `form:"page_size" json:"page_size"`
}

// ListingInfo 对外返回的挂单信息
type ListingInfo struct {
	ID                int64  `json:"id"`
	ItemID            uint64 `json:"item_id"`
	ItemName          string `json:"item_name"`
	ItemIcon          uint32 `json:"item_icon"`
	ItemDesc          string `json:"item_desc"`
	SellerName        string `json:"seller_name"`
	Currency          uint32 `json:"currency"`
	CurrencyName      string `json:"currency_name"`
	StartPrice        int64  `json:"start_price"`
	BuyoutPrice       int64  `json:"buyout_price"`
	StackSize         int32  `json:"stack_size"`
	NumberOfStacks    int32  `json:"number_of_stacks"`
	StartTime         int64  `json:"start_time"`
	EndTime           int64  `json:"end_time"`
	Status            string `json:"status"`
	HighestBid        int64  `json:"highest_bid,omitempty"`
	HighestBidderName string `json:"highest_bidder_name,omitempty"`
}

// ListingsResp 列表页响应
type ListingsResp struct {
	Result []ListingInfo `json:"result"`
	Count  int64         `json:"count"`
}
