package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ProjectsTask/EasyAuctionHouse/src/common/utils"
	"github.com/ProjectsTask/EasyAuctionHouse/src/model"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/errcode"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/xzap"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/svc"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/world"
	"github.com/ProjectsTask/EasyAuctionHouse/src/types/v1"
)

// CreateSellOrder 创建卖单
// 把卖家标记缓冲里的物品整体移入托管池并写入挂单记录, 作为一个单元执行:
// 任何一步失败, 已托管的物品全部退回卖家, 不留下部分挂单
// 注意: 物品在进入托管的那一刻就离开了卖家背包, 即使随后建单失败又被退回 ——
// 调用方不能假设 "失败等于物品从未离开过背包"
func CreateSellOrder(ctx context.Context, svcCtx *svc.ServerCtx, req types.SellReq) (*types.ListingInfo, error) {
	// 1. 请求形状校验, 指名第一个不合法的字段
	if req.StartPrice <= 0 {
		return nil, errcode.NewInvalidField("start_price", "must be positive")
	}
	if req.BuyoutPrice < 0 {
		return nil, errcode.NewInvalidField("buyout_price", "must not be negative")
	}
	if req.BuyoutPrice != 0 && req.BuyoutPrice < req.StartPrice {
		return nil, errcode.NewInvalidField("buyout_price", "must be at least the start price")
	}
	if req.DurationHours < utils.MinDurationHours || req.DurationHours > utils.MaxDurationHours {
		return nil, errcode.NewInvalidField("duration_hours",
			fmt.Sprintf("must be in [%d, %d]", utils.MinDurationHours, utils.MaxDurationHours))
	}
	currencyName, ok := svcCtx.C.AuctionCfg.CurrencyName(req.Currency)
	if !ok {
		return nil, errcode.ErrUnknownCurrency
	}

	// 2. 读取标记缓冲快照 (只读; 成功之后才清空)
	itemIDs := svcCtx.TagBuffer.Snapshot(req.ActorID)
	if len(itemIDs) == 0 {
		return nil, errcode.ErrEmptyTagBuffer
	}

	orderID := uuid.NewString()

	// 3. 逐件校验并移入托管池
	// escrowed 记录已入池的物品, 供失败时整体退回
	var escrowed []*world.Item
	unwind := func() {
		for _, it := range escrowed {
			if _, err := svcCtx.ListedPool.WithdrawItem(ctx, nil, it.ID); err != nil {
				// 退回失败意味着物品滞留在池里, 托管登记仍能定位它, 但必须告警
				xzap.WithContext(ctx).Error("ALERT: failed on unwind listed escrow",
					zap.Uint64("item_id", it.ID), zap.Error(err))
				continue
			}
			if err := svcCtx.Inventory.AddItem(ctx, req.ActorID, it); err != nil {
				xzap.WithContext(ctx).Error("ALERT: failed on return item to seller",
					zap.Uint64("item_id", it.ID),
					zap.Uint64("seller_id", req.ActorID),
					zap.Error(err))
			}
		}
	}

	for _, itemID := range itemIDs {
		// 3.1 物品必须在卖家自己的背包或装备栏里可达
		item, err := svcCtx.Inventory.FindItem(ctx, req.ActorID, itemID)
		if err != nil || item == nil {
			unwind()
			return nil, errcode.ErrItemNotAvailable
		}
		// 3.2 绑定/交易中/转移中的物品不可挂单
		if !item.Available() {
			unwind()
			return nil, errcode.ErrItemNotAvailable
		}
		// 3.3 从卖家身上移除
		removed, err := svcCtx.Inventory.RemoveItem(ctx, req.ActorID, itemID)
		if err != nil {
			unwind()
			return nil, errcode.ErrItemNotAvailable
		}
		// 3.4 进入托管池并立即落库
		if err := svcCtx.ListedPool.Deposit(ctx, nil, req.ActorID, removed, orderID); err != nil {
			// 入池失败, 物品还在手里, 直接放回
			if addErr := svcCtx.Inventory.AddItem(ctx, req.ActorID, removed); addErr != nil {
				xzap.WithContext(ctx).Error("ALERT: failed on return item after deposit failure",
					zap.Uint64("item_id", removed.ID), zap.Error(addErr))
			}
			unwind()
			return nil, err
		}
		escrowed = append(escrowed, removed)
	}

	// 4. 写入挂单记录
	first := escrowed[0]
	now := svcCtx.Clock.Now()
	listing := &model.Listing{
		OrderID:        orderID,
		ItemID:         first.ID,
		ItemName:       first.Name,
		ItemIcon:       first.Icon,
		ItemDesc:       first.Desc,
		SellerID:       req.ActorID,
		SellerName:     req.ActorName,
		Currency:       req.Currency,
		StartPrice:     req.StartPrice,
		BuyoutPrice:    req.BuyoutPrice,
		StackSize:      first.StackSize,
		NumberOfStacks: int32(len(escrowed)),
		StartTime:      now.Unix(),
		EndTime:        now.Add(time.Duration(req.DurationHours) * time.Hour).Unix(),
		Status:         model.ListingStatusActive,
	}
	if err := svcCtx.Dao.CreateListing(ctx, nil, listing); err != nil {
		// 5. 建单失败: 退回全部已托管物品后再上抛
		unwind()
		return nil, err
	}

	// 6. 挂单成立, 此时才消费掉标记缓冲
	svcCtx.TagBuffer.Clear(req.ActorID)

	xzap.WithContext(ctx).Info("sell order created",
		zap.Int64("listing_id", listing.ID),
		zap.String("order_id", orderID),
		zap.Uint64("seller_id", req.ActorID),
		zap.Int("items", len(escrowed)))

	info := toListingInfo(listing, currencyName)
	return &info, nil
}
