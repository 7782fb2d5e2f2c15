package model

// 拍卖行核心表的 gorm 模型
// 表名统一带 au_ 前缀, 与订单簿等其他业务表隔离

// ListingStatus 挂单状态
// active 为初始态; completed/cancelled 为终态, 只允许单向迁移, 记录不删除
const (
	ListingStatusActive    = "active"
	ListingStatusCompleted = "completed"
	ListingStatusCancelled = "cancelled"
)

// MailStatus 邮件投递状态
const (
	MailStatusPending = "pending"
	MailStatusSent    = "sent"
	MailStatusFailed  = "failed"
)

// Listing 挂单记录
// 最高出价三个字段为反范式冗余, 由出价流程维护, 用于列表页快速读取
// 物品展示信息 (名称/图标/描述) 在创建时快照, 避免列表查询回表
type Listing struct {
	ID                int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID           string `gorm:"column:order_id;size:36;uniqueIndex" json:"order_id"` // 卖单 uuid, 托管物品的 tag 也用它
	ItemID            uint64 `gorm:"column:item_id" json:"item_id"`
	ItemName          string `gorm:"column:item_name;size:128" json:"item_name"`
	ItemIcon          uint32 `gorm:"column:item_icon" json:"item_icon"`
	ItemDesc          string `gorm:"column:item_desc;size:1024" json:"item_desc"`
	SellerID          uint64 `gorm:"column:seller_id;index" json:"seller_id"`
	SellerName        string `gorm:"column:seller_name;size:64" json:"seller_name"`
	Currency          uint32 `gorm:"column:currency" json:"currency"` // 结算货币的物品类型编号
	StartPrice        int64  `gorm:"column:start_price" json:"start_price"`
	BuyoutPrice       int64  `gorm:"column:buyout_price" json:"buyout_price"` // 0 表示未启用一口价
	StackSize         int32  `gorm:"column:stack_size" json:"stack_size"`
	NumberOfStacks    int32  `gorm:"column:number_of_stacks" json:"number_of_stacks"`
	StartTime         int64  `gorm:"column:start_time" json:"start_time"` // unix 秒
	EndTime           int64  `gorm:"column:end_time;index" json:"end_time"`
	Status            string `gorm:"column:status;size:16;index" json:"status"`
	HighestBid        int64  `gorm:"column:highest_bid" json:"highest_bid"` // 0 表示尚无出价
	HighestBidderID   uint64 `gorm:"column:highest_bidder_id" json:"highest_bidder_id"`
	HighestBidderName string `gorm:"column:highest_bidder_name;size:64" json:"highest_bidder_name"`
	CreatedAt         int64  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt         int64  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func ListingTableName() string {
	return "au_listings"
}

func (Listing) TableName() string {
	return ListingTableName()
}

// Bid 出价记录
// 只增不改, 结算时仅翻转 resolved 标记
type Bid struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ListingID  int64  `gorm:"column:listing_id;index" json:"listing_id"`
	BidderID   uint64 `gorm:"column:bidder_id;index" json:"bidder_id"`
	BidderName string `gorm:"column:bidder_name;size:64" json:"bidder_name"`
	Amount     int64  `gorm:"column:amount" json:"amount"`
	BidTime    int64  `gorm:"column:bid_time" json:"bid_time"`
	Resolved   bool   `gorm:"column:resolved" json:"resolved"`
}

func BidTableName() string {
	return "au_bids"
}

func (Bid) TableName() string {
	return BidTableName()
}

// BidItem 出价与抵押货币物品的关联
// 记录某次出价具体托管了哪些货币物品, 以及每件贡献的数额
type BidItem struct {
	ID        int64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	BidID     int64  `gorm:"column:bid_id;index" json:"bid_id"`
	ListingID int64  `gorm:"column:listing_id;index" json:"listing_id"`
	ItemID    uint64 `gorm:"column:item_id" json:"item_id"`
	Amount    int64  `gorm:"column:amount" json:"amount"`
}

func BidItemTableName() string {
	return "au_bid_items"
}

func (BidItem) TableName() string {
	return BidItemTableName()
}

// MailItem 待投递邮件
// 结算流程写入 pending 记录, 投递方 (游戏服) 负责消费并更新状态
type MailItem struct {
	ID         string `gorm:"column:id;size:36;primaryKey" json:"id"`
	Sender     string `gorm:"column:sender;size:64" json:"sender"` // 展示用发件人, 如 "Auction House"
	ReceiverID uint64 `gorm:"column:receiver_id;index" json:"receiver_id"`
	ItemID     uint64 `gorm:"column:item_id" json:"item_id"`
	ItemIcon   uint32 `gorm:"column:item_icon" json:"item_icon"`
	Subject    string `gorm:"column:subject;size:256" json:"subject"`
	Status     string `gorm:"column:status;size:16;index" json:"status"`
	CreatedAt  int64  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func MailItemTableName() string {
	return "au_mail_items"
}

func (MailItem) TableName() string {
	return MailItemTableName()
}

// EscrowItem 托管物品的归属记录
// 入池/出池时同步写入或删除, 保证崩溃后每件物品的位置都可唯一确定
type EscrowItem struct {
	ItemID      uint64 `gorm:"column:item_id;primaryKey" json:"item_id"`
	OwnerID     uint64 `gorm:"column:owner_id;index" json:"owner_id"` // 有权取回该物品的角色
	Pool        string `gorm:"column:pool;size:16;index" json:"pool"` // listed / collateral / bank
	Ref         string `gorm:"column:ref;size:64;index" json:"ref"`   // 用途标记: 卖单 uuid 或银行角色标识
	Amount      int64  `gorm:"column:amount" json:"amount"`           // 货币物品的面额, 非货币为 0
	DepositedAt int64  `gorm:"column:deposited_at;autoCreateTime" json:"deposited_at"`
}

func EscrowItemTableName() string {
	return "au_escrow_items"
}

func (EscrowItem) TableName() string {
	return EscrowItemTableName()
}
