package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetMidnight(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	at := time.Date(2024, 5, 10, 23, 59, 59, 999, loc)

	midnight := GetMidnight(at)
	assert.Equal(t, time.Date(2024, 5, 10, 0, 0, 0, 0, loc), midnight)
	assert.Equal(t, loc, midnight.Location())
}

func TestStrSliceToUInt64Slice(t *testing.T) {
	res, err := StrSliceToUInt64Slice([]string{"1", "42", "abc", "", "-5", "9"})
	require.NoError(t, err)
	// 非法项直接丢弃
	assert.Equal(t, []uint64{1, 42, 9}, res)
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "alice@example.com", NormalizeEmail("  Alice@Example.COM "))
	assert.Equal(t, "", NormalizeEmail("   "))
}

func TestIsEmailLike(t *testing.T) {
	tests := []struct {
		identifier string
		want       bool
	}{
		{"alice@example.com", true},
		{"a@b", true},
		{"alice", false},
		{"@example.com", false},
		{"alice@", false},
		{"", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsEmailLike(tt.identifier), tt.identifier)
	}
}

func TestSplitSkills(t *testing.T) {
	assert.Equal(t, []string{"Go", "Kafka", "Redis"}, SplitSkills("Go, Kafka ,Redis,Go"))
	assert.Nil(t, SplitSkills(""))
	assert.Nil(t, SplitSkills(" , ,"))
}
