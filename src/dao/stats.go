package dao

import (
	"context"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/ProjectsTask/EasyAuctionHouse/src/model"
)

// CurrencyStatsRow 按货币分组的统计行
// 成交额在 SQL 里求和, 均价用 decimal 在内存里算, 避免整数除法截断
type CurrencyStatsRow struct {
	Currency       uint32
	ActiveCount    int64
	CompletedCount int64
	TotalVolume    int64
	HighestActive  int64
}

// GetCurrencyStats 市场统计: 每种货币的在售数量, 在售最高出价, 已成交数量与总额
func (d *Dao) GetCurrencyStats(ctx context.Context) ([]CurrencyStatsRow, error) {
	// 1. 在售维度
	type activeRow struct {
		Currency      uint32
		ActiveCount   int64
		HighestActive int64
	}
	var actives []activeRow
	if err := d.DB.WithContext(ctx).Model(&model.Listing{}).
		Select("currency, count(*) as active_count, max(highest_bid) as highest_active").
		Where("status = ?", model.ListingStatusActive).
		Group("currency").
		Scan(&actives).Error; err != nil {
		return nil, errors.Wrap(err, "failed on query active stats")
	}

	// 2. 已成交维度 (只统计有中标者的)
	type completedRow struct {
		Currency       uint32
		CompletedCount int64
		TotalVolume    int64
	}
	var completeds []completedRow
	if err := d.DB.WithContext(ctx).Model(&model.Listing{}).
		Select("currency, count(*) as completed_count, sum(highest_bid) as total_volume").
		Where("status = ? and highest_bidder_id != 0", model.ListingStatusCompleted).
		Group("currency").
		Scan(&completeds).Error; err != nil {
		return nil, errors.Wrap(err, "failed on query completed stats")
	}

	// 3. 合并两个维度
	merged := make(map[uint32]*CurrencyStatsRow)
	for _, a := range actives {
		merged[a.Currency] = &CurrencyStatsRow{
			Currency:      a.Currency,
			ActiveCount:   a.ActiveCount,
			HighestActive: a.HighestActive,
		}
	}
	for _, c := range completeds {
		row, ok := merged[c.Currency]
		if !ok {
			row = &CurrencyStatsRow{Currency: c.Currency}
			merged[c.Currency] = row
		}
		row.CompletedCount = c.CompletedCount
		row.TotalVolume = c.TotalVolume
	}

	result := make([]CurrencyStatsRow, 0, len(merged))
	for _, row := range merged {
		result = append(result, *row)
	}
	return result, nil
}

// AveragePrice 已成交均价, 无成交返回 0
func (r CurrencyStatsRow) AveragePrice() decimal.Decimal {
	if r.CompletedCount == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(r.TotalVolume).
		Div(decimal.NewFromInt(r.CompletedCount)).
		Round(2)
}
