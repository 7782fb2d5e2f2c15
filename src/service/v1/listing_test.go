package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProjectsTask/EasyAuctionHouse/src/model"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/errcode"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/world"
	"github.com/ProjectsTask/EasyAuctionHouse/src/types/v1"
)

func TestGetListingsDefaultsAndDetail(t *testing.T) {
	ctx := context.Background()
	svcCtx, inv, _ := newTestCtx(t)

	inv.Grant(10, &world.Item{ID: 4001, Wcid: 500, Name: "Flaming Skull", StackSize: 1})
	svcCtx.TagBuffer.Add(10, 4001)
	created, err := CreateSellOrder(ctx, svcCtx, sellReq(10))
	require.NoError(t, err)

	// page/page_size 为零时落到配置默认值
	resp, err := GetListings(ctx, svcCtx, types.ListingFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Count)
	require.Len(t, resp.Result, 1)
	assert.Equal(t, "Pyreal", resp.Result[0].CurrencyName)

	detail, err := GetListingDetail(ctx, svcCtx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, detail.ID)
	assert.Equal(t, "Flaming Skull", detail.ItemName)

	_, err = GetListingDetail(ctx, svcCtx, 99999)
	assert.ErrorIs(t, err, errcode.ErrListingNotFound)
}

func TestGetSellerListingsStatusFilter(t *testing.T) {
	ctx := context.Background()
	svcCtx, inv, _ := newTestCtx(t)

	inv.Grant(10, &world.Item{ID: 4002, Wcid: 500, Name: "Flaming Skull", StackSize: 1})
	svcCtx.TagBuffer.Add(10, 4002)
	_, err := CreateSellOrder(ctx, svcCtx, sellReq(10))
	require.NoError(t, err)

	resp, err := GetSellerListings(ctx, svcCtx, 10, model.ListingStatusActive)
	require.NoError(t, err)
	assert.Equal(t, int64(1), resp.Count)

	resp, err = GetSellerListings(ctx, svcCtx, 10, model.ListingStatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, int64(0), resp.Count)

	// 非法状态在进 SQL 之前被拒绝
	_, err = GetSellerListings(ctx, svcCtx, 10, "archived")
	require.Error(t, err)
	e, ok := errcode.AsErr(err)
	require.True(t, ok)
	assert.True(t, e.IsValidation())
}

func TestGetMarketStats(t *testing.T) {
	ctx := context.Background()
	svcCtx, inv, _ := newTestCtx(t)

	// 两单成交 (100 + 150), 一单在售
	for i, setup := range []struct {
		itemID uint64
		bid    int64
	}{
		{4101, 100},
		{4102, 150},
		{4103, 0},
	} {
		inv.Grant(10, &world.Item{ID: setup.itemID, Wcid: 500, Name: "Flaming Skull", StackSize: 1})
		svcCtx.TagBuffer.Add(10, setup.itemID)
		created, err := CreateSellOrder(ctx, svcCtx, sellReq(10))
		require.NoError(t, err)

		if setup.bid > 0 {
			bidder := uint64(20 + i)
			grantPyreal(inv, bidder, 9000+setup.itemID, int32(setup.bid))
			_, err = PlaceBid(ctx, svcCtx, created.ID, types.BidReq{
				ActorID: bidder, ActorName: "Bidder", Amount: setup.bid,
			})
			require.NoError(t, err)
			_, err = svcCtx.Dao.CompleteListing(ctx, nil, created.ID)
			require.NoError(t, err)
		}
	}

	resp, err := GetMarketStats(ctx, svcCtx)
	require.NoError(t, err)
	require.Len(t, resp.Result, 1)

	stats := resp.Result[0]
	assert.Equal(t, testCurrency, stats.Currency)
	assert.Equal(t, int64(1), stats.ActiveCount)
	assert.True(t, stats.TotalVolume.Equal(decimal.NewFromInt(250)), "total volume %s", stats.TotalVolume)
	assert.True(t, stats.AveragePrice.Equal(decimal.NewFromInt(125)), "average price %s", stats.AveragePrice)
}

func TestGetPendingMailEmpty(t *testing.T) {
	svcCtx, _, _ := newTestCtx(t)

	resp, err := GetPendingMail(context.Background(), svcCtx, 42)
	require.NoError(t, err)
	assert.Empty(t, resp.Result)
}
