package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/ProjectsTask/EasyAuctionHouse/src/model"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/svc"
	"github.com/ProjectsTask/EasyAuctionHouse/src/types/v1"
)

// defaultIsolation 普通读写事务的隔离级别
// 清算流程单独要求 serializable, 见 sweeper
const defaultIsolation = sql.LevelReadCommitted

// browseCacheKey 列表页缓存键, 包含全部过滤条件
func browseCacheKey(f types.ListingFilter) string {
	return fmt.Sprintf("auction:browse:%d:%d:%s:%s:%d:%d",
		f.Currency, f.SellerID, f.Keyword, f.Sort, f.Page, f.PageSize)
}

// DetailCacheKey 单个挂单详情的缓存键
// 出价和结算改写挂单后都按这个键做写失效, 详情页不展示已过期的最高价
func DetailCacheKey(listingID int64) string {
	return fmt.Sprintf("auction:listing:%d", listingID)
}

// GetListings 列表页查询
// 读多写少, 结果做短 TTL 缓存; 浏览允许轻微过期, 不做写失效
func GetListings(ctx context.Context, svcCtx *svc.ServerCtx, filter types.ListingFilter) (*types.ListingsResp, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.PageSize == 0 {
		filter.PageSize = svcCtx.C.AuctionCfg.BrowsePageSize
	}

	cacheSecs := svcCtx.C.AuctionCfg.BrowseCacheSecs
	key := browseCacheKey(filter)
	if cacheSecs > 0 && svcCtx.KvStore != nil {
		if raw := svcCtx.KvStore.ReadCache(key); raw != "" {
			var cached types.ListingsResp
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	listings, count, err := svcCtx.Dao.GetActiveListings(ctx, filter, svcCtx.Clock.Now().Unix())
	if err != nil {
		return nil, err
	}

	resp := &types.ListingsResp{
		Result: make([]types.ListingInfo, 0, len(listings)),
		Count:  count,
	}
	for i := range listings {
		name, _ := svcCtx.C.AuctionCfg.CurrencyName(listings[i].Currency)
		resp.Result = append(resp.Result, toListingInfo(&listings[i], name))
	}

	if cacheSecs > 0 && svcCtx.KvStore != nil {
		if raw, err := json.Marshal(resp); err == nil {
			svcCtx.KvStore.WriteCache(key, string(raw), cacheSecs)
		}
	}
	return resp, nil
}

// GetListingDetail 单个挂单详情
// 短 TTL 缓存, 出价/结算的写路径会主动失效
func GetListingDetail(ctx context.Context, svcCtx *svc.ServerCtx, listingID int64) (*types.ListingInfo, error) {
	cacheSecs := svcCtx.C.AuctionCfg.BrowseCacheSecs
	key := DetailCacheKey(listingID)
	if cacheSecs > 0 && svcCtx.KvStore != nil {
		if raw := svcCtx.KvStore.ReadCache(key); raw != "" {
			var cached types.ListingInfo
			if err := json.Unmarshal([]byte(raw), &cached); err == nil {
				return &cached, nil
			}
		}
	}

	listing, err := svcCtx.Dao.GetListingByID(ctx, nil, listingID, false)
	if err != nil {
		return nil, err
	}
	name, _ := svcCtx.C.AuctionCfg.CurrencyName(listing.Currency)
	info := toListingInfo(listing, name)

	if cacheSecs > 0 && svcCtx.KvStore != nil {
		if raw, err := json.Marshal(info); err == nil {
			svcCtx.KvStore.WriteCache(key, string(raw), cacheSecs)
		}
	}
	return &info, nil
}

// GetSellerListings 某个卖家的挂单列表, status 为空串表示全部
func GetSellerListings(ctx context.Context, svcCtx *svc.ServerCtx, sellerID uint64, status string) (*types.ListingsResp, error) {
	listings, err := svcCtx.Dao.GetListingsBySeller(ctx, sellerID, status)
	if err != nil {
		return nil, err
	}

	resp := &types.ListingsResp{
		Result: make([]types.ListingInfo, 0, len(listings)),
		Count:  int64(len(listings)),
	}
	for i := range listings {
		name, _ := svcCtx.C.AuctionCfg.CurrencyName(listings[i].Currency)
		resp.Result = append(resp.Result, toListingInfo(&listings[i], name))
	}
	return resp, nil
}

// toListingInfo 数据库模型转对外结构
func toListingInfo(l *model.Listing, currencyName string) types.ListingInfo {
	return types.ListingInfo{
		ID:                l.ID,
		ItemID:            l.ItemID,
		ItemName:          l.ItemName,
		ItemIcon:          l.ItemIcon,
		ItemDesc:          l.ItemDesc,
		SellerName:        l.SellerName,
		Currency:          l.Currency,
		CurrencyName:      currencyName,
		StartPrice:        l.StartPrice,
		BuyoutPrice:       l.BuyoutPrice,
		StackSize:         l.StackSize,
		NumberOfStacks:    l.NumberOfStacks,
		StartTime:         l.StartTime,
		EndTime:           l.EndTime,
		Status:            l.Status,
		HighestBid:        l.HighestBid,
		HighestBidderName: l.HighestBidderName,
	}
}
