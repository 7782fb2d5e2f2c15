package sweeper

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/zeromicro/go-zero/core/threading"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ProjectsTask/EasyAuctionHouse/src/model"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/errcode"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/xzap"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/svc"
	service "github.com/ProjectsTask/EasyAuctionHouse/src/service/v1"
	"github.com/ProjectsTask/EasyAuctionHouse/src/service/world"
)

// Service 过期清算服务
// 唯一把挂单推进到终态的路径: 固定间隔扫描 active 且已过结束时间的挂单,
// 每单恰好结算一次 —— 发货给中标者 (或退回卖家), 给卖家寄出货款, 标记 completed
//
// 扫描与结算都要求 serializable 隔离: 并发的两次清算不允许都从同一份旧读出发
// 去完成同一张挂单; 后到者会在重读时看到 completed 并且什么都不做
type Service struct {
	ctx      context.Context
	svcCtx   *svc.ServerCtx
	interval time.Duration
}

// New 初始化清算服务
func New(ctx context.Context, svcCtx *svc.ServerCtx) *Service {
	return &Service{
		ctx:      ctx,
		svcCtx:   svcCtx,
		interval: time.Duration(svcCtx.C.AuctionCfg.SweepIntervalSecs) * time.Second,
	}
}

// Start 启动后台清算循环
func (s *Service) Start() {
	threading.GoSafe(s.sweepLoop)
}

// sweepLoop 清算循环: 固定间隔触发, 停机过程中直接跳过本轮
func (s *Service) sweepLoop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			xzap.WithContext(s.ctx).Info("sweep loop stopped due to context cancellation")
			return
		case <-ticker.C:
			if s.ctx.Err() != nil {
				return
			}
			s.Sweep(s.svcCtx.Clock.Now().Unix())
		}
	}
}

// Sweep 执行一轮清算
// 先在 serializable 事务里圈出过期挂单, 再逐单在各自的子事务里结算:
// 单个挂单结算失败只回滚它自己, 记日志后留给下一轮重试, 不拖累同批其他挂单
func (s *Service) Sweep(now int64) {
	var ids []int64
	err := s.svcCtx.Dao.ExecuteInTx(s.ctx, sql.LevelSerializable, "sweep_scan", func(tx *gorm.DB) error {
		var scanErr error
		ids, scanErr = s.svcCtx.Dao.GetExpiredListingIDs(s.ctx, tx, now)
		return scanErr
	})
	if err != nil {
		xzap.WithContext(s.ctx).Error("failed on scan expired listings", zap.Error(err))
		return
	}
	if len(ids) == 0 {
		return
	}

	xzap.WithContext(s.ctx).Info("sweeping expired listings", zap.Int("count", len(ids)))

	for _, id := range ids {
		if s.ctx.Err() != nil {
			return
		}
		if err := s.SettleListing(id, now); err != nil {
			// 失败的挂单保持 active, 下一轮重试
			xzap.WithContext(s.ctx).Error("failed on settle listing, will retry next sweep",
				zap.Int64("listing_id", id),
				zap.Error(err))
		}
	}
}

// SettleListing 结算单个挂单, 整体在一个 serializable 子事务里执行
// 托管行的增删走同一个事务连接, 跟邮件/状态写入一起提交或回滚;
// 内存侧的池登记不受回滚保护, 失败路径上由 restore 放回
// 挂单只有在结算完整成功时才会被标记 completed
func (s *Service) SettleListing(id int64, now int64) error {
	unlock := s.svcCtx.LockListing(id)
	defer unlock()

	var listing *model.Listing
	var listedTaken, collateralTaken []*world.Item

	// restore 把已从池里取出的物品放回内存登记
	// 只在事务注定回滚 (或已回滚) 时调用: 托管行由回滚恢复, 这里只补内存侧
	restore := func() {
		if listing == nil {
			return
		}
		s.svcCtx.ListedPool.Restore(listing.SellerID, listing.OrderID, listedTaken)
		s.svcCtx.CollateralPool.Restore(listing.HighestBidderID, listing.OrderID, collateralTaken)
		listedTaken, collateralTaken = nil, nil
	}

	err := s.svcCtx.Dao.ExecuteInTx(s.ctx, sql.LevelSerializable, "settle_listing", func(tx *gorm.DB) error {
		listedTaken, collateralTaken = nil, nil

		// 1. 事务内重读并加锁, 抵御并发的清算或出价
		var err error
		listing, err = s.svcCtx.Dao.GetListingByID(s.ctx, tx, id, true)
		if err != nil {
			return err
		}
		if listing.Status != model.ListingStatusActive {
			// 已被并发的另一轮清算处理过, 本次是无操作
			return nil
		}
		if listing.EndTime > now {
			// 扫描与结算之间挂单被续期之类的情况, 不在这轮处理
			return nil
		}

		// 2. 取出挂单托管的物品
		listedTaken, err = s.svcCtx.ListedPool.WithdrawByRef(s.ctx, tx, listing.OrderID)
		if err != nil {
			restore()
			return err
		}
		if len(listedTaken) == 0 {
			// 挂单还在 active 却找不到托管物品, 说明别处的数据已经损坏
			xzap.WithContext(s.ctx).Error("ALERT: active listing has no escrowed items",
				zap.Int64("listing_id", id),
				zap.String("order_id", listing.OrderID))
			return errcode.ErrEscrowCorrupted
		}

		sender := s.svcCtx.C.AuctionCfg.MailSender

		if listing.HighestBidderID == 0 {
			// 3. 流拍: 物品走邮件退回卖家
			for _, it := range listedTaken {
				mail := &model.MailItem{
					ID:         uuid.NewString(),
					Sender:     sender,
					ReceiverID: listing.SellerID,
					ItemID:     it.ID,
					ItemIcon:   it.Icon,
					Subject:    fmt.Sprintf("Your auction for %s has expired.", listing.ItemName),
					Status:     model.MailStatusPending,
				}
				if err := s.svcCtx.Dao.CreateMailItem(s.ctx, tx, mail); err != nil {
					restore()
					return err
				}
			}
		} else {
			// 3. 有中标者: 物品寄给中标者, 货款寄给卖家
			// 双方都不要求在线, 所以两边都走邮件通道
			for _, it := range listedTaken {
				mail := &model.MailItem{
					ID:         uuid.NewString(),
					Sender:     sender,
					ReceiverID: listing.HighestBidderID,
					ItemID:     it.ID,
					ItemIcon:   it.Icon,
					Subject:    fmt.Sprintf("You won the auction for %s.", listing.ItemName),
					Status:     model.MailStatusPending,
				}
				if err := s.svcCtx.Dao.CreateMailItem(s.ctx, tx, mail); err != nil {
					restore()
					return err
				}
			}

			collateralTaken, err = s.svcCtx.CollateralPool.WithdrawByRef(s.ctx, tx, listing.OrderID)
			if err != nil {
				restore()
				return err
			}
			if len(collateralTaken) == 0 {
				xzap.WithContext(s.ctx).Error("ALERT: winning listing has no escrowed collateral",
					zap.Int64("listing_id", id),
					zap.String("order_id", listing.OrderID))
				restore()
				return errcode.ErrEscrowCorrupted
			}
			for _, it := range collateralTaken {
				mail := &model.MailItem{
					ID:         uuid.NewString(),
					Sender:     sender,
					ReceiverID: listing.SellerID,
					ItemID:     it.ID,
					ItemIcon:   it.Icon,
					Subject:    fmt.Sprintf("Proceeds from the sale of %s.", listing.ItemName),
					Status:     model.MailStatusPending,
				}
				if err := s.svcCtx.Dao.CreateMailItem(s.ctx, tx, mail); err != nil {
					restore()
					return err
				}
			}

			if err := s.svcCtx.Dao.ResolveBids(s.ctx, tx, id); err != nil {
				restore()
				return err
			}
		}

		// 4. 状态迁移 active -> completed
		// where 条件带 status 保护, 0 行生效说明重读之后还是被人抢先了
		ok, err := s.svcCtx.Dao.CompleteListing(s.ctx, tx, id)
		if err != nil {
			restore()
			return err
		}
		if !ok {
			restore()
			return errors.New("listing state changed during settlement")
		}
		return nil
	})
	if err != nil {
		// 提交本身失败时闭包已正常返回, 内存登记还没放回; 回滚恢复了托管行, 这里补内存侧
		restore()
		return err
	}
	if listing == nil || listing.Status != model.ListingStatusActive || listing.EndTime > now {
		// 无操作路径, 没有任何状态被改动
		return nil
	}

	if s.svcCtx.KvStore != nil {
		s.svcCtx.KvStore.DropCache(service.DetailCacheKey(id))
	}

	xzap.WithContext(s.ctx).Info("listing settled",
		zap.Int64("listing_id", id),
		zap.Uint64("winner_id", listing.HighestBidderID),
		zap.Int64("amount", listing.HighestBid))
	return nil
}
