package model

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DBConfig 数据库连接配置
type DBConfig struct {
	Host        string `toml:"host" mapstructure:"host" json:"host"`
	Port        int    `toml:"port" mapstructure:"port" json:"port"`
	User        string `toml:"user" mapstructure:"user" json:"user"`
	Password    string `toml:"password" mapstructure:"password" json:"password"`
	Database    string `toml:"database" mapstructure:"database" json:"database"`
	MaxIdleConn int    `toml:"max_idle_conn" mapstructure:"max_idle_conn" json:"max_idle_conn"`
	MaxOpenConn int    `toml:"max_open_conn" mapstructure:"max_open_conn" json:"max_open_conn"`
}

// NewDB 初始化数据库连接 (GORM + MySQL)
func NewDB(c *DBConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Database)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed on open mysql connection")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "failed on get sql db")
	}
	// 连接池参数
	sqlDB.SetMaxIdleConns(c.MaxIdleConn)
	sqlDB.SetMaxOpenConns(c.MaxOpenConn)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// Migrate 建表 (开发与测试环境使用, 生产走 SQL 迁移脚本)
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&Listing{},
		&Bid{},
		&BidItem{},
		&MailItem{},
		&EscrowItem{},
	)
}
