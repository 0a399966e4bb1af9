package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBigIntArithmetic(t *testing.T) {
	a := NewBigInt(100)
	b := NewBigInt(25)

	assert.Equal(t, "125", a.Add(b).String())
	assert.Equal(t, "75", a.Sub(b).String())
	assert.Equal(t, "2500", a.Mul(b).String())
	assert.Equal(t, "4", a.Div(b).String())
	assert.Equal(t, 1, a.Cmp(b))
	assert.Equal(t, b, MinBigInt(a, b))
}

func TestBigIntLargeValues(t *testing.T) {
	// 1e18 scale times a large supply must not overflow
	precision, err := NewBigIntFromString("1000000000000000000")
	require.NoError(t, err)

	supply, err := NewBigIntFromString("115792089237316195423570985008687907853269984665640564039457")
	require.NoError(t, err)

	product := supply.Mul(precision)
	assert.Equal(t, supply, product.Div(precision))
}

func TestBigIntScan(t *testing.T) {
	tests := []struct {
		name     string
		src      any
		expected string
		wantErr  bool
	}{
		{name: "string", src: "42", expected: "42"},
		{name: "bytes", src: []byte("987654321987654321987654321"), expected: "987654321987654321987654321"},
		{name: "int64", src: int64(7), expected: "7"},
		{name: "nil", src: nil, expected: "0"},
		{name: "empty string", src: "", expected: "0"},
		{name: "garbage", src: "not-a-number", wantErr: true},
		{name: "unsupported type", src: 3.14, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b BigInt
			err := b.Scan(tt.src)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, b.String())
		})
	}
}

func TestBigIntJSONRoundTrip(t *testing.T) {
	b, err := NewBigIntFromString("340282366920938463463374607431768211455")
	require.NoError(t, err)

	data, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, `"340282366920938463463374607431768211455"`, string(data))

	var decoded BigInt
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, 0, b.Cmp(decoded))

	// bare numbers are accepted too
	var fromNumber BigInt
	require.NoError(t, json.Unmarshal([]byte(`123`), &fromNumber))
	assert.Equal(t, "123", fromNumber.String())
}

func TestBigIntValue(t *testing.T) {
	b := NewBigInt(99)
	v, err := b.Value()
	require.NoError(t, err)
	assert.Equal(t, "99", v)
}
