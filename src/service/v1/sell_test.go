package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ProjectsTask/EasyAuctionHouse/src/model"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/errcode"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/world"
	"github.com/ProjectsTask/EasyAuctionHouse/src/types/v1"
)

func sellReq(sellerID uint64) types.SellReq {
	return types.SellReq{
		ActorID:       sellerID,
		ActorName:     "Aruwen",
		Currency:      testCurrency,
		StartPrice:    100,
		DurationHours: 1,
	}
}

func TestCreateSellOrderSuccess(t *testing.T) {
	ctx := context.Background()
	svcCtx, inv, clk := newTestCtx(t)

	inv.Grant(10, &world.Item{ID: 1001, Wcid: 500, Name: "Silifi of Crimson Stars", StackSize: 1})
	inv.Grant(10, &world.Item{ID: 1002, Wcid: 500, Name: "Silifi of Crimson Stars", StackSize: 1})
	svcCtx.TagBuffer.Add(10, 1001)
	svcCtx.TagBuffer.Add(10, 1002)

	info, err := CreateSellOrder(ctx, svcCtx, sellReq(10))
	require.NoError(t, err)
	assert.Equal(t, model.ListingStatusActive, info.Status)
	assert.Equal(t, int32(2), info.NumberOfStacks)
	assert.Equal(t, "Pyreal", info.CurrencyName)
	assert.Equal(t, clk.Now().Add(time.Hour).Unix(), info.EndTime)

	// 物品离开卖家背包, 全部进入挂单托管池
	_, err = inv.FindItem(ctx, 10, 1001)
	assert.Error(t, err)
	assert.Equal(t, 2, svcCtx.ListedPool.Size())

	listing, err := svcCtx.Dao.GetListingByID(ctx, nil, info.ID, false)
	require.NoError(t, err)
	assert.Len(t, svcCtx.ListedPool.ItemsByRef(listing.OrderID), 2)

	// 标记缓冲已被消费
	assert.Empty(t, svcCtx.TagBuffer.List(10))
}

func TestCreateSellOrderValidation(t *testing.T) {
	ctx := context.Background()
	svcCtx, inv, _ := newTestCtx(t)

	inv.Grant(10, &world.Item{ID: 1001, Wcid: 500, Name: "Shield", StackSize: 1})
	svcCtx.TagBuffer.Add(10, 1001)

	cases := []struct {
		name   string
		mutate func(*types.SellReq)
	}{
		{"zero duration", func(r *types.SellReq) { r.DurationHours = 0 }},
		{"excessive duration", func(r *types.SellReq) { r.DurationHours = 200 }},
		{"zero start price", func(r *types.SellReq) { r.StartPrice = 0 }},
		{"negative buyout", func(r *types.SellReq) { r.BuyoutPrice = -1 }},
		{"buyout below start", func(r *types.SellReq) { r.StartPrice = 100; r.BuyoutPrice = 50 }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := sellReq(10)
			tc.mutate(&req)

			_, err := CreateSellOrder(ctx, svcCtx, req)
			require.Error(t, err)
			e, ok := errcode.AsErr(err)
			require.True(t, ok)
			assert.True(t, e.IsValidation())

			// 校验失败不产生任何托管副作用
			assert.Equal(t, 0, svcCtx.ListedPool.Size())
			assert.ElementsMatch(t, []uint64{1001}, svcCtx.TagBuffer.List(10))
			_, findErr := inv.FindItem(ctx, 10, 1001)
			assert.NoError(t, findErr)
		})
	}

	// 未配置的货币
	req := sellReq(10)
	req.Currency = 999
	_, err := CreateSellOrder(ctx, svcCtx, req)
	assert.ErrorIs(t, err, errcode.ErrUnknownCurrency)
}

func TestCreateSellOrderEmptyTagBuffer(t *testing.T) {
	svcCtx, _, _ := newTestCtx(t)

	_, err := CreateSellOrder(context.Background(), svcCtx, sellReq(10))
	assert.ErrorIs(t, err, errcode.ErrEmptyTagBuffer)
}

func TestCreateSellOrderUnwindOnUnavailableItem(t *testing.T) {
	ctx := context.Background()
	svcCtx, inv, _ := newTestCtx(t)

	// 两件可挂, 一件绑定不可挂: 无论处理顺序如何, 整单必须失败且物品全数回到卖家手里
	inv.Grant(10, &world.Item{ID: 2001, Wcid: 500, Name: "Robe", StackSize: 1})
	inv.Grant(10, &world.Item{ID: 2002, Wcid: 500, Name: "Robe", StackSize: 1})
	inv.Grant(10, &world.Item{ID: 2003, Wcid: 500, Name: "Attuned Robe", StackSize: 1, Attuned: true})
	svcCtx.TagBuffer.Add(10, 2001)
	svcCtx.TagBuffer.Add(10, 2002)
	svcCtx.TagBuffer.Add(10, 2003)

	_, err := CreateSellOrder(ctx, svcCtx, sellReq(10))
	assert.ErrorIs(t, err, errcode.ErrItemNotAvailable)

	// 不丢物品, 不留部分挂单
	assert.Equal(t, 0, svcCtx.ListedPool.Size())
	for _, id := range []uint64{2001, 2002, 2003} {
		_, findErr := inv.FindItem(ctx, 10, id)
		assert.NoError(t, findErr, "item %d should be back with the seller", id)
	}
	// 失败时标记缓冲保持原样
	assert.Len(t, svcCtx.TagBuffer.List(10), 3)

	var count int64
	require.NoError(t, svcCtx.DB.Model(&model.Listing{}).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestCreateSellOrderTaggedItemGone(t *testing.T) {
	ctx := context.Background()
	svcCtx, _, _ := newTestCtx(t)

	// 标记之后物品被丢弃/转移, 下单时已不可达
	svcCtx.TagBuffer.Add(10, 3001)

	_, err := CreateSellOrder(ctx, svcCtx, sellReq(10))
	assert.ErrorIs(t, err, errcode.ErrItemNotAvailable)
	assert.Equal(t, 0, svcCtx.ListedPool.Size())
}
