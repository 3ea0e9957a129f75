package pricefeed

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare id", in: "ff61491a", want: "0xff61491a"},
		{name: "prefixed id", in: "0xff61491a", want: "0xff61491a"},
		{name: "empty", in: "", want: "0x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeID(tt.in)
			assert.Equal(t, tt.want, got)
			// normalizing twice equals normalizing once
			assert.Equal(t, got, NormalizeID(got))
		})
	}
}

func TestSnapshotMapNormalizesKeys(t *testing.T) {
	m := SnapshotMap{}
	m.Set("abc", PriceSnapshot{Mantissa: 1})

	p, ok := m.Get("0xabc")
	assert.True(t, ok)
	assert.Equal(t, int64(1), p.Mantissa)

	_, ok = m.Get("abc")
	assert.True(t, ok)

	assert.Equal(t, []string{"0xdef"}, m.Missing([]string{"abc", "0xdef"}))
}

func TestUpdateSet(t *testing.T) {
	s := NewUpdateSet()
	s.Add("0xb", "a", "0xa", "b")

	assert.Equal(t, []string{"0xb", "0xa"}, s.IDs())
	assert.Equal(t, 2, s.Len())
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("c"))
}

func TestItemConfigFeedIDs(t *testing.T) {
	items := ItemConfig{
		"ETH/USD": {{ID: "0xeth"}},
		"BTC/ETH": {{ID: "btc"}, {ID: "eth", Operator: OperatorDivide}},
	}

	assert.Equal(t, []string{"BTC/ETH", "ETH/USD"}, items.Names())
	assert.Equal(t, []string{"0xbtc", "0xeth"}, items.Normalized().FeedIDs())
}
