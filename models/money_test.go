package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestMoneyArithmetic(t *testing.T) {
	a := MoneyFromFloat(1450.50)
	b := MoneyFromFloat(549.50)

	assert.True(t, a.Add(b).Equal(MoneyFromInt(2000)))
	assert.True(t, a.Sub(a).IsZero())
	assert.True(t, a.GreaterThan(b))
	assert.True(t, b.LessThan(a))
	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, 0, a.Cmp(MoneyFromFloat(1450.5)))
}

func TestMoneyFloatSumIsExact(t *testing.T) {
	// 0.1 + 0.2 must come out as exactly 0.30.
	sum := MoneyFromFloat(0.1).Add(MoneyFromFloat(0.2))
	assert.True(t, sum.Equal(MoneyFromFloat(0.3)))
	assert.Equal(t, "0.30", sum.String())
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "1450.50", MoneyFromFloat(1450.5).String())
	assert.Equal(t, "800.00", MoneyFromInt(800).String())
	assert.Equal(t, "0.00", ZeroMoney().String())
}

func TestMoneyFromString(t *testing.T) {
	m, err := MoneyFromString(" 99.90 ")
	require.NoError(t, err)
	assert.Equal(t, "99.90", m.String())

	_, err = MoneyFromString("not-a-number")
	assert.Error(t, err)
}

func TestMoneyRatio(t *testing.T) {
	assert.InDelta(t, 0.5, MoneyFromInt(800).Ratio(MoneyFromInt(1600)), 1e-9)
	assert.Zero(t, MoneyFromInt(800).Ratio(ZeroMoney()))
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	raw, err := json.Marshal(MoneyFromFloat(1450.5))
	require.NoError(t, err)
	assert.Equal(t, `"1450.50"`, string(raw))

	var m Money
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.True(t, m.Equal(MoneyFromFloat(1450.5)))

	// Bare numbers from older clients decode too.
	require.NoError(t, json.Unmarshal([]byte(`800`), &m))
	assert.True(t, m.Equal(MoneyFromInt(800)))

	require.NoError(t, json.Unmarshal([]byte(`null`), &m))
	assert.True(t, m.IsZero())
}

type moneyDoc struct {
	Amount Money `bson:"amount"`
}

func TestMoneyBSONRoundTrip(t *testing.T) {
	raw, err := bson.Marshal(moneyDoc{Amount: MoneyFromFloat(1450.5)})
	require.NoError(t, err)

	var out moneyDoc
	require.NoError(t, bson.Unmarshal(raw, &out))
	assert.True(t, out.Amount.Equal(MoneyFromFloat(1450.5)))
}

func TestMoneyBSONDecodesNumericTypes(t *testing.T) {
	// Legacy documents store amounts as doubles or integers.
	cases := []struct {
		name  string
		value interface{}
		want  Money
	}{
		{"double", 12.5, MoneyFromFloat(12.5)},
		{"int32", int32(900), MoneyFromInt(900)},
		{"int64", int64(1200), MoneyFromInt(1200)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := bson.Marshal(bson.M{"amount": tc.value})
			require.NoError(t, err)

			var out moneyDoc
			require.NoError(t, bson.Unmarshal(raw, &out))
			assert.True(t, out.Amount.Equal(tc.want), "got %s", out.Amount)
		})
	}
}

func TestMoneyBSONUnknownTypeDegradesToZero(t *testing.T) {
	raw, err := bson.Marshal(bson.M{"amount": true})
	require.NoError(t, err)

	var out moneyDoc
	require.NoError(t, bson.Unmarshal(raw, &out))
	assert.True(t, out.Amount.IsZero())
}

func TestPaymentSlotState(t *testing.T) {
	var s PaymentSlot
	assert.Equal(t, SlotUnset, s.State())

	s.Amount = MoneyFromInt(800)
	assert.Equal(t, SlotPending, s.State())
	assert.False(t, s.Signed())

	s.Signature = "https://img.example/sig.png"
	assert.Equal(t, SlotSigned, s.State())
	assert.True(t, s.Signed())
}
