package util

import (
	"math"
	"strconv"
)

// MustParseUint 将字符串转换为无符号整数，解析失败时返回 0
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// Round2 保留两位小数，用于计算百分比
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Percentage 由得分和总分推导百分比（两位小数），total 为 0 时返回 0
func Percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(float64(score) / float64(total) * 100)
}
