package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"

	"github.com/ProjectsTask/EasyAuctionHouse/src/model"
	"github.com/ProjectsTask/EasyAuctionHouse/src/pkg/xzap"
)

// Config 定义了应用程序的全局配置结构
type Config struct {
	Api        ApiConf         `toml:"api" mapstructure:"api" json:"api"`                         // HTTP 服务配置
	Monitor    Monitor         `toml:"monitor" mapstructure:"monitor" json:"monitor"`             // 监控相关配置
	Log        xzap.Conf       `toml:"log" mapstructure:"log" json:"log"`                         // 日志配置
	Kv         KvConf          `toml:"kv" mapstructure:"kv" json:"kv"`                            // KV存储配置 (Redis)
	DB         *model.DBConfig `toml:"db" mapstructure:"db" json:"db"`                            // 数据库配置 (MySQL)
	AuctionCfg AuctionCfg      `toml:"auction_cfg" mapstructure:"auction_cfg" json:"auction_cfg"` // 拍卖行业务配置
}

// ApiConf HTTP 服务配置
type ApiConf struct {
	Port string `toml:"port" mapstructure:"port" json:"port"` // 监听地址, 如 ":9010"
}

// Monitor 定义监控配置
type Monitor struct {
	PprofEnable bool  `toml:"pprof_enable" mapstructure:"pprof_enable" json:"pprof_enable"` // 是否开启 Pprof
	PprofPort   int64 `toml:"pprof_port" mapstructure:"pprof_port" json:"pprof_port"`       // Pprof 监听端口
}

// KvConf 定义 Key-Value 存储配置
type KvConf struct {
	Redis []*Redis `toml:"redis" mapstructure:"redis" json:"redis"` // Redis 列表（可能支持多实例）
}

// Redis 定义 Redis 连接配置
type Redis struct {
	Host string `toml:"host" mapstructure:"host" json:"host"` // Redis 主机地址
	Type string `toml:"type" mapstructure:"type" json:"type"` // Redis 类型 (node, cluster)
	Pass string `toml:"pass" mapstructure:"pass" json:"pass"` // Redis 密码
}

// Currency 可用作结算货币的物品类型
type Currency struct {
	Wcid uint32 `toml:"wcid" mapstructure:"wcid" json:"wcid"` // 货币物品的类型编号
	Name string `toml:"name" mapstructure:"name" json:"name"` // 展示名称, 如 "Pyreal", "Trade Note"
}

// AuctionCfg 拍卖行业务配置
type AuctionCfg struct {
	Currencies        []Currency `toml:"currencies" mapstructure:"currencies" json:"currencies"`                            // 支持的货币类型
	SweepIntervalSecs int64      `toml:"sweep_interval_secs" mapstructure:"sweep_interval_secs" json:"sweep_interval_secs"` // 过期扫描间隔 (秒)
	MailSender        string     `toml:"mail_sender" mapstructure:"mail_sender" json:"mail_sender"`                         // 系统邮件发件人名称
	BrowsePageSize    int        `toml:"browse_page_size" mapstructure:"browse_page_size" json:"browse_page_size"`          // 列表页默认每页条数
	BrowseCacheSecs   int        `toml:"browse_cache_secs" mapstructure:"browse_cache_secs" json:"browse_cache_secs"`       // 列表页缓存秒数, 0 关闭
}

// CurrencyName 按货币类型编号查展示名, 未配置返回 false
func (a AuctionCfg) CurrencyName(wcid uint32) (string, bool) {
	for _, c := range a.Currencies {
		if c.Wcid == wcid {
			return c.Name, true
		}
	}
	return "", false
}

// UnmarshalConfig 加载并解析指定路径的配置文件
// 环境变量以 AUCTION_ 为前缀覆盖同名配置项, 如 AUCTION_DB_HOST
func UnmarshalConfig(configFilePath string) (*Config, error) {
	viper.SetConfigFile(configFilePath)
	viper.SetConfigType("toml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("AUCTION")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return nil, err
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate 启动前校验配置是否完整
func (c *Config) Validate() error {
	if c.DB == nil || c.DB.Host == "" || c.DB.Database == "" {
		return errors.New("invalid db config")
	}
	if len(c.AuctionCfg.Currencies) == 0 {
		return errors.New("at least one auction currency must be configured")
	}
	for _, cur := range c.AuctionCfg.Currencies {
		if cur.Wcid == 0 || cur.Name == "" {
			return errors.New("invalid auction currency config")
		}
	}
	if c.AuctionCfg.SweepIntervalSecs <= 0 {
		c.AuctionCfg.SweepIntervalSecs = 5
	}
	if c.AuctionCfg.BrowsePageSize <= 0 {
		c.AuctionCfg.BrowsePageSize = 20
	}
	if c.AuctionCfg.MailSender == "" {
		c.AuctionCfg.MailSender = "Auction House"
	}
	return nil
}
