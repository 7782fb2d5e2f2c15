package dao

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/ProjectsTask/EasyAuctionHouse/src/model"
)

// CreateBid 追加一条出价记录, id 由数据库分配并回填
func (d *Dao) CreateBid(ctx context.Context, tx *gorm.DB, bid *model.Bid) error {
	if err := d.conn(tx).WithContext(ctx).Create(bid).Error; err != nil {
		return errors.Wrap(err, "failed on create bid")
	}
	return nil
}

// CreateBidItems 记录本次出价托管的抵押货币物品
func (d *Dao) CreateBidItems(ctx context.Context, tx *gorm.DB, items []model.BidItem) error {
	if len(items) == 0 {
		return nil
	}
	if err := d.conn(tx).WithContext(ctx).Create(&items).Error; err != nil {
		return errors.Wrap(err, "failed on create bid items")
	}
	return nil
}

// GetBidsByListing 查询某挂单的全部出价, 按出价时间升序
func (d *Dao) GetBidsByListing(ctx context.Context, listingID int64) ([]model.Bid, error) {
	var bids []model.Bid
	if err := d.DB.WithContext(ctx).
		Where("listing_id = ?", listingID).
		Order("bid_time asc, id asc").
		Find(&bids).Error; err != nil {
		return nil, errors.Wrap(err, "failed on query bids by listing")
	}
	return bids, nil
}

// ResolveBids 结算时把挂单下的全部出价标记为已处理
func (d *Dao) ResolveBids(ctx context.Context, tx *gorm.DB, listingID int64) error {
	if err := d.conn(tx).WithContext(ctx).Model(&model.Bid{}).
		Where("listing_id = ? and resolved = ?", listingID, false).
		Update("resolved", true).Error; err != nil {
		return errors.Wrap(err, "failed on resolve bids")
	}
	return nil
}
