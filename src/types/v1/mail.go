package types

// MailInfo 待领取邮件
type MailInfo struct {
	ID        string `json:"id"`
	Sender    string `json:"sender"`
	ItemID    uint64 `json:"item_id"`
	ItemIcon  uint32 `json:"item_icon"`
	Subject   string `json:"subject"`
	Status    string `json:"status"`
	CreatedAt int64  `json:"created_at"`
}

// MailsResp 邮件列表响应
type MailsResp struct {
	Result []MailInfo `json:"result"`
}
