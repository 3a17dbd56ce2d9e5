package kafka

import (
	"fmt"
	"strconv"
	"time"
)

// Canal 将行数据中的所有列值序列化为字符串，NULL 列为 nil
// 下面的辅助函数统一做容错转换，解析失败时返回零值

func StrToString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func StrToUint64(v interface{}) uint64 {
	n, err := strconv.ParseUint(StrToString(v), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func StrToInt64(v interface{}) int64 {
	n, err := strconv.ParseInt(StrToString(v), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func StrToInt(v interface{}) int {
	return int(StrToInt64(v))
}

func StrToDateTime(v interface{}) time.Time {
	s := StrToString(v)
	if s == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}
