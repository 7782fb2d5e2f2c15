package dao

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ProjectsTask/EasyAuctionHouse/src/model"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/errcode"
	"github.com/ProjectsTask/EasyAuctionHouse/src/types/v1"
)

const MaxPageSize = 100

// sortColumns 列表页允许的排序列白名单
// key 是对外暴露的列名, value 是实际的 SQL 列
var sortColumns = map[string]string{
	"name":           "item_name",
	"stack_size":     "stack_size",
	"buyout_price":   "buyout_price",
	"start_price":    "start_price",
	"seller":         "seller_name",
	"currency":       "currency",
	"highest_bidder": "highest_bidder_name",
	"end_time":       "end_time",
}

// parseSort 把 "end_time_asc" 这样的排序参数翻译成 SQL 的 order by 子句
// 非法列名或方向返回校验错误, 绝不把用户输入拼进 SQL
func parseSort(sort string) (string, error) {
	if sort == "" {
		return "end_time asc", nil // 默认按结束时间升序, 快到期的排前面
	}

	var col, dir string
	if s, ok := strings.CutSuffix(sort, "_asc"); ok {
		col, dir = s, "asc"
	} else if s, ok := strings.CutSuffix(sort, "_desc"); ok {
		col, dir = s, "desc"
	} else {
		return "", errcode.NewInvalidField("sort", sort)
	}

	sqlCol, ok := sortColumns[col]
	if !ok {
		return "", errcode.NewInvalidField("sort", sort)
	}
	return fmt.Sprintf("%s %s", sqlCol, dir), nil
}

// CreateListing 插入新的挂单记录, id 由数据库分配并回填
func (d *Dao) CreateListing(ctx context.Context, tx *gorm.DB, listing *model.Listing) error {
	if err := d.conn(tx).WithContext(ctx).Create(listing).Error; err != nil {
		return errors.Wrap(err, "failed on create listing")
	}
	return nil
}

// GetListingByID 按 id 查询挂单
// forUpdate 为 true 时在事务内加行锁, 用于结算前的重读
func (d *Dao) GetListingByID(ctx context.Context, tx *gorm.DB, id int64, forUpdate bool) (*model.Listing, error) {
	db := d.conn(tx).WithContext(ctx)
	if forUpdate {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var listing model.Listing
	if err := db.Where("id = ?", id).First(&listing).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errcode.ErrListingNotFound
		}
		return nil, errors.Wrap(err, "failed on get listing by id")
	}
	return &listing, nil
}

// GetActiveListings 条件查询在售挂单, 带分页和排序
// 排序与分页参数在任何 SQL 执行前校验, 非法直接拒绝
func (d *Dao) GetActiveListings(ctx context.Context, filter types.ListingFilter, now int64) ([]model.Listing, int64, error) {
	orderBy, err := parseSort(filter.Sort)
	if err != nil {
		return nil, 0, err
	}
	if filter.Page < 1 {
		return nil, 0, errcode.NewInvalidField("page", "must be >= 1")
	}
	if filter.PageSize < 1 || filter.PageSize > MaxPageSize {
		return nil, 0, errcode.NewInvalidField("page_size", fmt.Sprintf("must be in [1, %d]", MaxPageSize))
	}

	// 浏览页允许读到轻微过期的数据 (read committed 足够), 但不展示已过结束时间的
	db := d.DB.WithContext(ctx).Model(&model.Listing{}).
		Where("status = ? and end_time > ?", model.ListingStatusActive, now)
	if filter.Currency != 0 {
		db = db.Where("currency = ?", filter.Currency)
	}
	if filter.SellerID != 0 {
		db = db.Where("seller_id = ?", filter.SellerID)
	}
	if filter.Keyword != "" {
		db = db.Where("item_name like ?", "%"+filter.Keyword+"%")
	}

	var count int64
	if err := db.Count(&count).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed on count active listings")
	}

	var listings []model.Listing
	if err := db.Order(orderBy).
		Limit(filter.PageSize).
		Offset(filter.PageSize * (filter.Page - 1)).
		Find(&listings).Error; err != nil {
		return nil, 0, errors.Wrap(err, "failed on query active listings")
	}

	return listings, count, nil
}

// GetListingsBySeller 查询某个卖家的挂单, status 为空串表示不过滤
func (d *Dao) GetListingsBySeller(ctx context.Context, sellerID uint64, status string) ([]model.Listing, error) {
	db := d.DB.WithContext(ctx).Model(&model.Listing{}).Where("seller_id = ?", sellerID)
	if status != "" {
		if status != model.ListingStatusActive &&
			status != model.ListingStatusCompleted &&
			status != model.ListingStatusCancelled {
			return nil, errcode.NewInvalidField("status", status)
		}
		db = db.Where("status = ?", status)
	}

	var listings []model.Listing
	if err := db.Order("end_time asc").Find(&listings).Error; err != nil {
		return nil, errors.Wrap(err, "failed on query seller listings")
	}
	return listings, nil
}

// GetExpiredListingIDs 查询所有已过结束时间且仍在 active 状态的挂单 id
// 只在清算事务内调用, 隔离级别由调用方给定 (serializable)
func (d *Dao) GetExpiredListingIDs(ctx context.Context, tx *gorm.DB, now int64) ([]int64, error) {
	var ids []int64
	if err := d.conn(tx).WithContext(ctx).Model(&model.Listing{}).
		Where("status = ? and end_time <= ?", model.ListingStatusActive, now).
		Pluck("id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, "failed on query expired listing ids")
	}
	return ids, nil
}

// SetListingHighestBid 以比较交换的方式覆写挂单的最高出价三元组
// where 条件同时带 status 和当前最高价保护: 0 行生效说明挂单已被并发结算,
// 或最高价已被别的写入者改写, 调用方必须让本次出价失败并回退托管
func (d *Dao) SetListingHighestBid(ctx context.Context, tx *gorm.DB, id int64, prevAmount, amount int64, bidderID uint64, bidderName string) (bool, error) {
	res := d.conn(tx).WithContext(ctx).Model(&model.Listing{}).
		Where("id = ? and status = ? and highest_bid = ?", id, model.ListingStatusActive, prevAmount).
		Updates(map[string]interface{}{
			"highest_bid":         amount,
			"highest_bidder_id":   bidderID,
			"highest_bidder_name": bidderName,
		})
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "failed on update listing highest bid")
	}
	return res.RowsAffected == 1, nil
}

// CompleteListing 把挂单从 active 迁移到 completed
// where 条件带 status 保护: 并发的第二次清算会影响 0 行, 调用方据此判定为他人已结算
func (d *Dao) CompleteListing(ctx context.Context, tx *gorm.DB, id int64) (bool, error) {
	res := d.conn(tx).WithContext(ctx).Model(&model.Listing{}).
		Where("id = ? and status = ?", id, model.ListingStatusActive).
		Update("status", model.ListingStatusCompleted)
	if res.Error != nil {
		return false, errors.Wrap(res.Error, "failed on complete listing")
	}
	return res.RowsAffected == 1, nil
}
