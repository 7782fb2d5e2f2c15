package utils

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	// validatorM 存储自定义的验证器函数映射
	// key: 验证规则名称 ("actorid", "duration")
	// value: 验证函数实现
	validatorM map[string]validator.Func
)

func init() {
	validatorM = map[string]validator.Func{
		"actorid":  validActorID,  // 角色 GUID 必须非零
		"duration": validDuration, // 挂单时长必须在允许区间内
	}
}

const (
	MinDurationHours = 1
	MaxDurationHours = 168 // 最长一周
)

var (
	// validActorID 验证角色标识是否合法 (非零 uint64)
	validActorID validator.Func = func(fl validator.FieldLevel) bool {
		id, ok := fl.Field().Interface().(uint64)
		if ok {
			return id != 0
		}
		return false
	}

	// validDuration 验证挂单时长 (小时) 是否在 [MinDurationHours, MaxDurationHours] 区间
	validDuration validator.Func = func(fl validator.FieldLevel) bool {
		hours, ok := fl.Field().Interface().(int64)
		if ok {
			return hours >= MinDurationHours && hours <= MaxDurationHours
		}
		return false
	}
)

// RegisterValidators 把自定义验证规则注册进 gin 的 binding 引擎
// 在路由初始化时调用一次
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	for tag, fn := range validatorM {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return err
		}
	}
	return nil
}
