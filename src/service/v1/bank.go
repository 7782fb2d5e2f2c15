package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/errcode"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/xzap"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/svc"
	"github.com/ProjectsTask/EasyAuctionHouse/src/types/v1"
)

// 银行寄存: 第三个托管用途
// 物品以 "bank-<actorID>" 为标记进入银行池, 只有本人能取回
// 银行池和其他两个池共享同一套托管登记规则: 入池/出池同步落库

func bankRef(actorID uint64) string {
	return fmt.Sprintf("bank-%d", actorID)
}

// BankDeposit 把一件物品寄存进银行池
func BankDeposit(ctx context.Context, svcCtx *svc.ServerCtx, req types.BankReq) (*types.BankItemsResp, error) {
	item, err := svcCtx.Inventory.FindItem(ctx, req.ActorID, req.ItemID)
	if err != nil || item == nil {
		return nil, errcode.ErrItemNotAvailable
	}
	if !item.Available() {
		return nil, errcode.ErrItemNotAvailable
	}

	removed, err := svcCtx.Inventory.RemoveItem(ctx, req.ActorID, req.ItemID)
	if err != nil {
		return nil, errcode.ErrItemNotAvailable
	}
	if err := svcCtx.BankPool.Deposit(ctx, nil, req.ActorID, removed, bankRef(req.ActorID)); err != nil {
		// 入池失败, 物品还在手里, 直接放回
		if addErr := svcCtx.Inventory.AddItem(ctx, req.ActorID, removed); addErr != nil {
			xzap.WithContext(ctx).Error("ALERT: failed on return item after bank deposit failure",
				zap.Uint64("item_id", removed.ID), zap.Error(addErr))
		}
		return nil, err
	}

	xzap.WithContext(ctx).Info("bank deposit",
		zap.Uint64("actor_id", req.ActorID),
		zap.Uint64("item_id", req.ItemID))

	return bankItems(svcCtx, req.ActorID), nil
}

// BankWithdraw 从银行池取回自己寄存的物品
func BankWithdraw(ctx context.Context, svcCtx *svc.ServerCtx, req types.BankReq) (*types.BankItemsResp, error) {
	// 只有寄存人本人能取回
	owner, ok := svcCtx.BankPool.OwnerOf(req.ItemID)
	if !ok || owner != req.ActorID {
		return nil, errcode.ErrItemNotAvailable
	}

	item, err := svcCtx.BankPool.WithdrawItem(ctx, nil, req.ItemID)
	if err != nil {
		return nil, err
	}
	if err := svcCtx.Inventory.AddItem(ctx, req.ActorID, item); err != nil {
		// 放回背包失败, 重新寄存, 物品仍然可定位
		if depErr := svcCtx.BankPool.Deposit(ctx, nil, req.ActorID, item, bankRef(req.ActorID)); depErr != nil {
			xzap.WithContext(ctx).Error("ALERT: failed on re-deposit after bank withdraw failure",
				zap.Uint64("item_id", item.ID), zap.Error(depErr))
		}
		return nil, errcode.ErrItemNotAvailable
	}

	xzap.WithContext(ctx).Info("bank withdraw",
		zap.Uint64("actor_id", req.ActorID),
		zap.Uint64("item_id", req.ItemID))

	return bankItems(svcCtx, req.ActorID), nil
}

// GetBankItems 查询某角色寄存中的全部物品
func GetBankItems(ctx context.Context, svcCtx *svc.ServerCtx, actorID uint64) (*types.BankItemsResp, error) {
	return bankItems(svcCtx, actorID), nil
}

func bankItems(svcCtx *svc.ServerCtx, actorID uint64) *types.BankItemsResp {
	items := svcCtx.BankPool.ItemsByOwner(actorID)
	resp := &types.BankItemsResp{ActorID: actorID, Result: make([]types.BankItemInfo, 0, len(items))}
	for _, it := range items {
		resp.Result = append(resp.Result, types.BankItemInfo{
			ItemID:    it.ID,
			Name:      it.Name,
			Icon:      it.Icon,
			StackSize: it.StackSize,
		})
	}
	return resp
}
