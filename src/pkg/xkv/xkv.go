package xkv

import (
	"github.com/zeromicro/go-zero/core/stores/kv"
)

// Store 对 go-zero kv.Store 的薄封装
// 列表页等读多写少的查询结果会在这里做短 TTL 缓存
type Store struct {
	kv.Store
}

// NewStore 根据 KV 配置创建存储实例
func NewStore(c kv.KvConf) *Store {
	return &Store{Store: kv.NewStore(c)}
}

// ReadCache 读取缓存内容, 未命中返回空串
func (s *Store) ReadCache(key string) string {
	val, err := s.Get(key)
	if err != nil {
		return ""
	}
	return val
}

// WriteCache 写入缓存并设置过期秒数, 失败静默 (缓存不影响正确性)
func (s *Store) WriteCache(key, val string, seconds int) {
	_ = s.Setex(key, val, seconds)
}

// DropCache 删除缓存键, 用于写路径失效
func (s *Store) DropCache(keys ...string) {
	_, _ = s.Del(keys...)
}
