package dao

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ProjectsTask/EasyAuctionHouse/src/model"
)

// 托管归属记录的读写
// 入池/出池必须立刻落库: 多步流程中间崩溃时, 每件物品要么在某个池里有唯一一行,
// 要么不在任何池里 (已回到角色身上), 不允许出现第三种状态

// InsertEscrowItem 登记一件物品进入托管池
func (d *Dao) InsertEscrowItem(ctx context.Context, tx *gorm.DB, item *model.EscrowItem) error {
	if err := d.conn(tx).WithContext(ctx).Create(item).Error; err != nil {
		return errors.Wrap(err, "failed on insert escrow item")
	}
	return nil
}

// DeleteEscrowItem 把物品移出托管池的登记
func (d *Dao) DeleteEscrowItem(ctx context.Context, tx *gorm.DB, itemID uint64) error {
	if err := d.conn(tx).WithContext(ctx).
		Where("item_id = ?", itemID).
		Delete(&model.EscrowItem{}).Error; err != nil {
		return errors.Wrap(err, "failed on delete escrow item")
	}
	return nil
}

// GetEscrowItemsByRef 按用途标记查询某个池中的托管记录
func (d *Dao) GetEscrowItemsByRef(ctx context.Context, pool, ref string) ([]model.EscrowItem, error) {
	var items []model.EscrowItem
	if err := d.DB.WithContext(ctx).
		Where("pool = ? and ref = ?", pool, ref).
		Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "failed on query escrow items by ref")
	}
	return items, nil
}

// GetEscrowItemsByOwner 按归属角色查询某个池中的托管记录
func (d *Dao) GetEscrowItemsByOwner(ctx context.Context, pool string, ownerID uint64) ([]model.EscrowItem, error) {
	var items []model.EscrowItem
	if err := d.DB.WithContext(ctx).
		Where("pool = ? and owner_id = ?", pool, ownerID).
		Find(&items).Error; err != nil {
		return nil, errors.Wrap(err, "failed on query escrow items by owner")
	}
	return items, nil
}
