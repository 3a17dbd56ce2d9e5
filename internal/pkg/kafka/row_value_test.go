package kafka

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStrToString(t *testing.T) {
	assert.Equal(t, "", StrToString(nil))
	assert.Equal(t, "hello", StrToString("hello"))
	assert.Equal(t, "42", StrToString(42))
}

func TestStrToUint64(t *testing.T) {
	assert.Equal(t, uint64(0), StrToUint64(nil))
	assert.Equal(t, uint64(42), StrToUint64("42"))
	assert.Equal(t, uint64(0), StrToUint64("abc"))
}

func TestStrToInt(t *testing.T) {
	assert.Equal(t, 0, StrToInt(nil))
	assert.Equal(t, -7, StrToInt("-7"))
	assert.Equal(t, 0, StrToInt(""))
}

func TestStrToInt64(t *testing.T) {
	assert.Equal(t, int64(0), StrToInt64(nil))
	assert.Equal(t, int64(1717000000), StrToInt64("1717000000"))
}

func TestStrToDateTime(t *testing.T) {
	parsed := StrToDateTime("2024-05-10 15:04:05")
	assert.Equal(t, time.Date(2024, 5, 10, 15, 4, 5, 0, time.Local), parsed)

	assert.True(t, StrToDateTime(nil).IsZero())
	assert.True(t, StrToDateTime("not-a-date").IsZero())
}
