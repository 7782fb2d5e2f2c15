package types

import "github.com/shopspring/decimal"

// CurrencyStats 单一货币维度的市场统计
// 金额用 decimal 聚合, 避免均价等除法结果丢精度
type CurrencyStats struct {
	Currency      uint32          `json:"currency"`
	CurrencyName  string          `json:"currency_name"`
	ActiveCount   int64           `json:"active_count"`   // 在售挂单数
	TotalVolume   decimal.Decimal `json:"total_volume"`   // 已完成挂单的成交总额
	AveragePrice  decimal.Decimal `json:"average_price"`  // 已完成挂单均价
	HighestActive int64           `json:"highest_active"` // 在售挂单中的最高当前出价
}

// StatsResp 市场统计响应
type StatsResp struct {
	Result []CurrencyStats `json:"result"`
}
