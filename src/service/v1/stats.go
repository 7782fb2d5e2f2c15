package service

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/ProjectsTask/EasyAuctionHouse/src/service/svc"
	"github.com/ProjectsTask/EasyAuctionHouse/src/types/v1"
)

// GetMarketStats 市场统计
// 只统计配置中存在的货币, 防止历史脏数据混进结果
func GetMarketStats(ctx context.Context, svcCtx *svc.ServerCtx) (*types.StatsResp, error) {
	rows, err := svcCtx.Dao.GetCurrencyStats(ctx)
	if err != nil {
		return nil, err
	}

	resp := &types.StatsResp{Result: make([]types.CurrencyStats, 0, len(rows))}
	for _, row := range rows {
		name, ok := svcCtx.C.AuctionCfg.CurrencyName(row.Currency)
		if !ok {
			continue
		}
		resp.Result = append(resp.Result, types.CurrencyStats{
			Currency:      row.Currency,
			CurrencyName:  name,
			ActiveCount:   row.ActiveCount,
			TotalVolume:   decimal.NewFromInt(row.TotalVolume),
			AveragePrice:  row.AveragePrice(),
			HighestActive: row.HighestActive,
		})
	}
	return resp, nil
}
