package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ProjectsTask/EasyAuctionHouse/src/common/utils"
	"github.com/ProjectsTask/EasyAuctionHouse/src/model"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/errcode"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/xzap"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/svc"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/world"
	"github.com/ProjectsTask/EasyAuctionHouse/src/types/v1"
)

// bidSnapshot 出价前的挂单最高价三元组, 失败补偿时按它恢复
type bidSnapshot struct {
	amount     int64
	bidderID   uint64
	bidderName string
}

// PlaceBid 对挂单出价
// 校验按固定顺序执行, 第一个失败者即为结果; 校验全部通过后的状态迁移作为一个单元:
//  1. 快照当前最高出价
//  2. 退还前任最高出价者的托管货币
//  3. 从新出价者身上取走等额货币进入托管 (支持拆分叠加堆)
//  4. 更新挂单最高价字段并追加出价记录 (同一事务)
//
// 第 2 步之后任何一步失败都会完整回退: 恢复快照, 把旧抵押重新托管, 退回新抵押
// 失败后重放该流程 (从干净的校验态开始) 会得到相同的结果
func PlaceBid(ctx context.Context, svcCtx *svc.ServerCtx, listingID int64, req types.BidReq) (*types.BidResp, error) {
	// 0. 同一挂单上的出价串行化: 两笔并发出价不允许基于同一份旧快照各自通过校验,
	//    否则低价可以覆盖已接受的高价, 双方的抵押还会同时滞留在池里
	unlock := svcCtx.LockListing(listingID)
	defer unlock()

	// ---- 校验阶段, 无副作用 ----

	// 1. 挂单存在且仍在售
	listing, err := svcCtx.Dao.GetListingByID(ctx, nil, listingID, false)
	if err != nil {
		return nil, err
	}
	if listing.Status != model.ListingStatusActive {
		return nil, errcode.ErrListingNotActive
	}
	// 2. 不能对自己的挂单出价
	if req.ActorID == listing.SellerID {
		return nil, errcode.ErrSelfBid
	}
	// 3. 已是最高出价者时不允许重复出价
	if listing.HighestBidderID != 0 && req.ActorID == listing.HighestBidderID {
		return nil, errcode.ErrAlreadyHighest
	}
	// 4. 出价必须不低于当前最高价和起拍价, 且不超过一口价 (启用时)
	if req.Amount < utils.MaxInt64(listing.StartPrice, listing.HighestBid) {
		return nil, errcode.ErrBidTooLow
	}
	if listing.BuyoutPrice != 0 && req.Amount > listing.BuyoutPrice {
		return nil, errcode.NewInvalidField("amount", "exceeds the buyout price")
	}
	// 5. 挂单未过结束时间
	if svcCtx.Clock.Now().Unix() >= listing.EndTime {
		return nil, errcode.ErrListingExpired
	}
	// 6. 货币类型已配置
	currencyName, ok := svcCtx.C.AuctionCfg.CurrencyName(listing.Currency)
	if !ok {
		return nil, errcode.ErrUnknownCurrency
	}
	// 7. 出价者身上的货币足以覆盖本次出价
	holdings, err := svcCtx.Inventory.CurrencyItems(ctx, req.ActorID, listing.Currency)
	if err != nil {
		return nil, errcode.ErrInsufficientFunds
	}
	var onHand int64
	for _, it := range holdings {
		onHand += int64(it.StackSize)
	}
	if onHand < req.Amount {
		return nil, errcode.ErrInsufficientFunds
	}

	// ---- 迁移阶段, 从这里开始的失败都要补偿 ----

	// 1. 快照, 供恢复
	snap := bidSnapshot{
		amount:     listing.HighestBid,
		bidderID:   listing.HighestBidderID,
		bidderName: listing.HighestBidderName,
	}

	// 2. 退还前任最高出价者的托管货币
	var prevItems []*world.Item
	if snap.bidderID != 0 {
		prevItems, err = svcCtx.CollateralPool.WithdrawByRef(ctx, nil, listing.OrderID)
		if err != nil {
			return nil, err
		}
		for _, it := range prevItems {
			if addErr := svcCtx.Inventory.AddItem(ctx, snap.bidderID, it); addErr != nil {
				xzap.WithContext(ctx).Error("ALERT: failed on return collateral to previous bidder",
					zap.Uint64("bidder_id", snap.bidderID),
					zap.Uint64("item_id", it.ID),
					zap.Error(addErr))
			}
		}
	}

	// reEscrowPrev 补偿动作: 把前任出价者的货币重新托管回该挂单
	reEscrowPrev := func() {
		for _, it := range prevItems {
			if _, rmErr := svcCtx.Inventory.RemoveItem(ctx, snap.bidderID, it.ID); rmErr != nil {
				xzap.WithContext(ctx).Error("ALERT: failed on reclaim collateral from previous bidder",
					zap.Uint64("bidder_id", snap.bidderID),
					zap.Uint64("item_id", it.ID),
					zap.Error(rmErr))
				continue
			}
			if depErr := svcCtx.CollateralPool.Deposit(ctx, nil, snap.bidderID, it, listing.OrderID); depErr != nil {
				xzap.WithContext(ctx).Error("ALERT: failed on re-escrow previous collateral",
					zap.Uint64("item_id", it.ID), zap.Error(depErr))
			}
		}
	}

	// 3. 从新出价者身上取走恰好等额的货币进入托管
	newItems, bidItems, err := takeCurrency(ctx, svcCtx, req.ActorID, listing, req.Amount)
	if err != nil {
		// 取币中途失败: takeCurrency 已退回它动过的物品, 这里恢复前任的托管
		reEscrowPrev()
		return nil, err
	}

	// returnNew 补偿动作: 把本次新托管的货币退回出价者
	returnNew := func() {
		for _, it := range newItems {
			if _, wErr := svcCtx.CollateralPool.WithdrawItem(ctx, nil, it.ID); wErr != nil {
				xzap.WithContext(ctx).Error("ALERT: failed on unwind new collateral",
					zap.Uint64("item_id", it.ID), zap.Error(wErr))
				continue
			}
			if addErr := svcCtx.Inventory.AddItem(ctx, req.ActorID, it); addErr != nil {
				xzap.WithContext(ctx).Error("ALERT: failed on return new collateral to bidder",
					zap.Uint64("item_id", it.ID), zap.Error(addErr))
			}
		}
	}

	// 4. 在同一事务里更新最高价字段并追加出价记录
	bid := &model.Bid{
		ListingID:  listingID,
		BidderID:   req.ActorID,
		BidderName: req.ActorName,
		Amount:     req.Amount,
		BidTime:    svcCtx.Clock.Now().Unix(),
	}
	err = svcCtx.Dao.ExecuteInTx(ctx, defaultIsolation, "place_bid", func(tx *gorm.DB) error {
		// 带 status 和快照最高价双重保护的比较交换: 0 行生效说明挂单在校验之后
		// 被并发结算或被别的进程改写了最高价, 本次出价必须整体失败
		ok, err := svcCtx.Dao.SetListingHighestBid(ctx, tx, listingID, snap.amount, req.Amount, req.ActorID, req.ActorName)
		if err != nil {
			return err
		}
		if !ok {
			return errcode.ErrBidConflict
		}
		if err := svcCtx.Dao.CreateBid(ctx, tx, bid); err != nil {
			return err
		}
		for i := range bidItems {
			bidItems[i].BidID = bid.ID
		}
		return svcCtx.Dao.CreateBidItems(ctx, tx, bidItems)
	})
	if err != nil {
		// 事务已回滚, 数据库里的快照未被改动; 补偿托管池和双方背包
		returnNew()
		reEscrowPrev()
		return nil, err
	}

	if svcCtx.KvStore != nil {
		svcCtx.KvStore.DropCache(DetailCacheKey(listingID))
	}

	xzap.WithContext(ctx).Info("bid accepted",
		zap.Int64("listing_id", listingID),
		zap.Int64("bid_id", bid.ID),
		zap.Uint64("bidder_id", req.ActorID),
		zap.Int64("amount", req.Amount),
		zap.Int64("previous_amount", snap.amount))

	// 5. 通知出价者
	return &types.BidResp{
		ListingID:  listingID,
		BidID:      bid.ID,
		Amount:     req.Amount,
		BidderName: req.ActorName,
		Message:    fmt.Sprintf("Your bid of %d %s on %s is now the highest.", req.Amount, currencyName, listing.ItemName),
	}, nil
}

// takeCurrency 从出价者身上取走恰好 amount 数额的货币并托管到挂单名下
// 整堆优先, 最后不足一堆时拆分; 取币中途凑不齐就退回已取部分并报余额不足
// 返回入池的物品和对应的出价-抵押关联行 (bid_id 由调用方提交事务前回填)
func takeCurrency(ctx context.Context, svcCtx *svc.ServerCtx, bidderID uint64, listing *model.Listing, amount int64) ([]*world.Item, []model.BidItem, error) {
	var taken []*world.Item
	var bidItems []model.BidItem

	// 失败时把已托管的部分退回出价者
	undo := func() {
		for _, it := range taken {
			if _, err := svcCtx.CollateralPool.WithdrawItem(ctx, nil, it.ID); err != nil {
				xzap.WithContext(ctx).Error("ALERT: failed on unwind partial currency take",
					zap.Uint64("item_id", it.ID), zap.Error(err))
				continue
			}
			if err := svcCtx.Inventory.AddItem(ctx, bidderID, it); err != nil {
				xzap.WithContext(ctx).Error("ALERT: failed on return currency to bidder",
					zap.Uint64("item_id", it.ID), zap.Error(err))
			}
		}
	}

	remaining := amount
	holdings, err := svcCtx.Inventory.CurrencyItems(ctx, bidderID, listing.Currency)
	if err != nil {
		return nil, nil, errcode.ErrInsufficientFunds
	}

	for _, holding := range holdings {
		if remaining <= 0 {
			break
		}

		take := utils.MinInt64(int64(holding.StackSize), remaining)
		var detached *world.Item
		if take == int64(holding.StackSize) {
			// 整堆取走
			detached, err = svcCtx.Inventory.RemoveItem(ctx, bidderID, holding.ID)
		} else {
			// 最后一堆只差一部分, 拆出需要的面额
			detached, err = svcCtx.Inventory.SplitStack(ctx, bidderID, holding.ID, int32(take))
		}
		if err != nil {
			undo()
			return nil, nil, errcode.ErrInsufficientFunds
		}

		if err := svcCtx.CollateralPool.Deposit(ctx, nil, bidderID, detached, listing.OrderID); err != nil {
			// 入池失败, 物品还在手里, 直接放回
			if addErr := svcCtx.Inventory.AddItem(ctx, bidderID, detached); addErr != nil {
				xzap.WithContext(ctx).Error("ALERT: failed on return currency after deposit failure",
					zap.Uint64("item_id", detached.ID), zap.Error(addErr))
			}
			undo()
			return nil, nil, err
		}

		taken = append(taken, detached)
		bidItems = append(bidItems, model.BidItem{
			ListingID: listing.ID,
			ItemID:    detached.ID,
			Amount:    int64(detached.StackSize),
		})
		remaining -= int64(detached.StackSize)
	}

	// 背包在校验和取币之间被并发消耗时会走到这里
	if remaining > 0 {
		undo()
		return nil, nil, errcode.ErrInsufficientFunds
	}

	return taken, bidItems, nil
}
