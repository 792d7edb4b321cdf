package models

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// Money is a fixed-point amount. All monetary math in the engine goes through
// this type; raw float64 arithmetic on amounts is not allowed anywhere.
type Money struct {
	d decimal.Decimal
}

func ZeroMoney() Money {
	return Money{d: decimal.Zero}
}

func MoneyFromFloat(v float64) Money {
	return Money{d: decimal.NewFromFloat(v)}
}

func MoneyFromInt(v int64) Money {
	return Money{d: decimal.NewFromInt(v)}
}

// MoneyFromString parses a decimal amount like "1450.50".
func MoneyFromString(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return Money{d: d}, nil
}

func (m Money) Add(o Money) Money        { return Money{d: m.d.Add(o.d)} }
func (m Money) Sub(o Money) Money        { return Money{d: m.d.Sub(o.d)} }
func (m Money) IsZero() bool             { return m.d.IsZero() }
func (m Money) IsPositive() bool         { return m.d.IsPositive() }
func (m Money) IsNegative() bool         { return m.d.IsNegative() }
func (m Money) Equal(o Money) bool       { return m.d.Equal(o.d) }
func (m Money) GreaterThan(o Money) bool { return m.d.GreaterThan(o.d) }
func (m Money) LessThan(o Money) bool    { return m.d.LessThan(o.d) }
func (m Money) Cmp(o Money) int          { return m.d.Cmp(o.d) }

// String renders the amount with two decimal places.
func (m Money) String() string {
	return m.d.StringFixed(2)
}

// Ratio returns m/total as a float in [0,1] for display purposes only.
// A zero total yields zero.
func (m Money) Ratio(total Money) float64 {
	if total.IsZero() {
		return 0
	}
	f, _ := m.d.Div(total.d).Float64()
	return f
}

func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *Money) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		m.d = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", s, err)
	}
	m.d = d
	return nil
}

func (m Money) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(m.d.String())
}

// UnmarshalBSONValue accepts string, double and integer encodings; anything
// else degrades to zero rather than failing the whole snapshot decode.
func (m *Money) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.String:
		s, _, ok := bsoncore.ReadString(data)
		if !ok {
			m.d = decimal.Zero
			return nil
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			m.d = decimal.Zero
			return nil
		}
		m.d = d
	case bsontype.Double:
		f, _, ok := bsoncore.ReadDouble(data)
		if !ok {
			m.d = decimal.Zero
			return nil
		}
		m.d = decimal.NewFromFloat(f)
	case bsontype.Int32:
		i, _, ok := bsoncore.ReadInt32(data)
		if !ok {
			m.d = decimal.Zero
			return nil
		}
		m.d = decimal.NewFromInt(int64(i))
	case bsontype.Int64:
		i, _, ok := bsoncore.ReadInt64(data)
		if !ok {
			m.d = decimal.Zero
			return nil
		}
		m.d = decimal.NewFromInt(i)
	default:
		m.d = decimal.Zero
	}
	return nil
}
