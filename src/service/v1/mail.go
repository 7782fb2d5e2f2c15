package service

import (
	"context"

	"github.com/ProjectsTask/EasyAuctionHouse/src/service/svc"
	"github.com/ProjectsTask/EasyAuctionHouse/src/types/v1"
)

// GetPendingMail 查询某角色的待领取邮件
// 投递本身由游戏服的邮件通道消费, 这里只暴露查询
func GetPendingMail(ctx context.Context, svcCtx *svc.ServerCtx, receiverID uint64) (*types.MailsResp, error) {
	mails, err := svcCtx.Dao.GetPendingMailByReceiver(ctx, receiverID)
	if err != nil {
		return nil, err
	}

	resp := &types.MailsResp{Result: make([]types.MailInfo, 0, len(mails))}
	for _, m := range mails {
		resp.Result = append(resp.Result, types.MailInfo{
			ID:        m.ID,
			Sender:    m.Sender,
			ItemID:    m.ItemID,
			ItemIcon:  m.ItemIcon,
			Subject:   m.Subject,
			Status:    m.Status,
			CreatedAt: m.CreatedAt,
		})
	}
	return resp, nil
}
