package util

import (
	"strconv"
	"strings"
	"time"
)

// GetMidnight 截断到当天零点
func GetMidnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StrSliceToUInt64Slice 字符串切片转 uint64 切片，非法项直接丢弃
func StrSliceToUInt64Slice(strs []string) ([]uint64, error) {
	res := make([]uint64, 0, len(strs))
	for _, s := range strs {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			continue
		}
		res = append(res, v)
	}
	return res, nil
}

// NormalizeEmail 邮箱统一转为小写后存储和比较
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsEmailLike 判断标识符是否形如邮箱
func IsEmailLike(identifier string) bool {
	at := strings.Index(identifier, "@")
	return at > 0 && at < len(identifier)-1
}

// SplitSkills 将逗号分隔的技能串拆为去重后的列表
func SplitSkills(raw string) []string {
	parts := strings.Split(raw, ",")

	skillSet := make(map[string]struct{})
	var skills []string

	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s == "" {
			continue
		}
		if _, exists := skillSet[s]; !exists {
			skillSet[s] = struct{}{}
			skills = append(skills, s)
		}
	}

	return skills
}

// PtrInt 用于将 int 转换为 *int
func PtrInt(i int) *int {
	return &i
}

// PtrInt64 用于将 int64 转换为 *int64
func PtrInt64(i int64) *int64 {
	return &i
}

// PtrStr 用于将 string 转换为 *string
func PtrStr(s string) *string {
	return &s
}
