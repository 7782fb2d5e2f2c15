package xzap

import (
	"context"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Conf 日志配置
type Conf struct {
	Level      string `toml:"level" mapstructure:"level" json:"level"`                   // 日志级别 (debug/info/warn/error)
	Mode       string `toml:"mode" mapstructure:"mode" json:"mode"`                      // 输出模式 (console/file)
	Path       string `toml:"path" mapstructure:"path" json:"path"`                      // 文件模式下的日志路径
	MaxSize    int    `toml:"max_size" mapstructure:"max_size" json:"max_size"`          // 单个日志文件大小上限 (MB)
	MaxBackups int    `toml:"max_backups" mapstructure:"max_backups" json:"max_backups"` // 保留的历史日志文件数
	MaxFileAge int    `toml:"max_file_age" mapstructure:"max_file_age" json:"max_file_age"`
	Compress   bool   `toml:"compress" mapstructure:"compress" json:"compress"` // 是否压缩历史日志
}

var (
	mu     sync.RWMutex
	global = zap.NewNop() // 在 SetUp 之前写日志是安全的, 只是不会输出
)

// SetUp 初始化全局日志实例
// 控制台模式直接输出到 stderr; 文件模式通过 lumberjack 做滚动切割
func SetUp(c Conf) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if err := level.UnmarshalText([]byte(c.Level)); err != nil && c.Level != "" {
		return nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var ws zapcore.WriteSyncer
	if c.Mode == "file" && c.Path != "" {
		// 文件输出: lumberjack 负责按大小切割和清理
		ws = zapcore.AddSync(&lumberjack.Logger{
			Filename:   c.Path,
			MaxSize:    c.MaxSize,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxFileAge,
			Compress:   c.Compress,
		})
	} else {
		ws = zapcore.AddSync(os.Stderr)
	}

	core := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), ws, level)
	logger := zap.New(core, zap.AddCaller())

	mu.Lock()
	global = logger
	mu.Unlock()

	return logger, nil
}

// WithContext 返回绑定上下文的日志实例
// 目前上下文中没有额外的日志字段, 保留该入口是为了让调用方统一写法
func WithContext(_ context.Context) *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}
