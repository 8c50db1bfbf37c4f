package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRound2HalfUp(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"10.005", "10.01"},
		{"10.004", "10"},
		{"0.125", "0.13"},
		{"99.994", "99.99"},
		{"99.995", "100"},
		{"0", "0"},
	}

	for _, tc := range cases {
		in, err := decimal.NewFromString(tc.in)
		assert.NoError(t, err)
		assert.True(t, Round2(in).Equal(decimal.RequireFromString(tc.want)),
			"Round2(%s) = %s, want %s", tc.in, Round2(in), tc.want)
	}
}

func TestPercent(t *testing.T) {
	// 15% of 33.33 = 4.9995 -> 5.00
	got := Percent(decimal.RequireFromString("33.33"), decimal.RequireFromString("15"))
	assert.True(t, got.Equal(decimal.RequireFromString("5")), "got %s", got)
}

func TestMul(t *testing.T) {
	got := Mul(decimal.RequireFromString("2.99"), 3)
	assert.True(t, got.Equal(decimal.RequireFromString("8.97")), "got %s", got)
}

func TestMin(t *testing.T) {
	a := decimal.RequireFromString("5")
	b := decimal.RequireFromString("3.50")
	assert.True(t, Min(a, b).Equal(b))
	assert.True(t, Min(b, a).Equal(b))
}

func TestSum(t *testing.T) {
	got := Sum(
		decimal.RequireFromString("1.10"),
		decimal.RequireFromString("2.20"),
		decimal.RequireFromString("3.30"),
	)
	assert.True(t, got.Equal(decimal.RequireFromString("6.60")), "got %s", got)
}
