package dao

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ProjectsTask/EasyAuctionHouse/src/model"
)

// CreateMailItem 写入一封待投递邮件
// 结算流程在事务内调用, 与状态迁移一起提交
func (d *Dao) CreateMailItem(ctx context.Context, tx *gorm.DB, mail *model.MailItem) error {
	if err := d.conn(tx).WithContext(ctx).Create(mail).Error; err != nil {
		return errors.Wrap(err, "failed on create mail item")
	}
	return nil
}

// GetPendingMailByReceiver 查询某角色的全部待领取邮件
func (d *Dao) GetPendingMailByReceiver(ctx context.Context, receiverID uint64) ([]model.MailItem, error) {
	var mails []model.MailItem
	if err := d.DB.WithContext(ctx).
		Where("receiver_id = ? and status = ?", receiverID, model.MailStatusPending).
		Order("created_at asc").
		Find(&mails).Error; err != nil {
		return nil, errors.Wrap(err, "failed on query pending mail")
	}
	return mails, nil
}
