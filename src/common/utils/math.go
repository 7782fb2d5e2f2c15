package utils

// MaxInt64 返回两个 int64 整数中的较大值
func MaxInt64(x, y int64) int64 {
	if x < y {
		return y
	}
	return x
}

// MinInt64 返回两个 int64 整数中的较小值
func MinInt64(x, y int64) int64 {
	if x > y {
		return y
	}
	return x
}
