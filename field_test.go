package fix

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// fieldOver creates Field referencing the value at given offset and length
// inside given region, mirrors what the decoder scanner produces
func fieldOver(region []byte, tag Tag, valueOffset int, valueLength int) Field {
	return NewField(tag, region, valueOffset, valueLength)
}

func TestField_Bytes(t *testing.T) {
	region := []byte("35=D\x0144=101.25\x01")

	f := fieldOver(region, 44, 8, 6)
	assert.Equal(t, []byte("101.25"), f.Bytes())

	empty := Field{}
	assert.Nil(t, empty.Bytes())
}

func TestField_Bytes_aliasesBackingRegion(t *testing.T) {
	region := []byte("55=EUR/USD\x01")
	f := fieldOver(region, 55, 3, 7)

	region[3] = 'G'
	assert.Equal(t, []byte("GUR/USD"), f.Bytes())
}

func TestField_AsString(t *testing.T) {
	var testCases = []struct {
		name        string
		given       []byte
		expect      string
		expectError string
	}{
		{
			name:   "ascii value",
			given:  []byte("EUR/USD"),
			expect: "EUR/USD",
		},
		{
			name:   "utf8 value",
			given:  []byte("börse"),
			expect: "börse",
		},
		{
			name:   "empty value",
			given:  []byte(""),
			expect: "",
		},
		{
			name:        "invalid utf8",
			given:       []byte{0xFF, 0xFE, 0x41},
			expectError: ErrValueInvalidEncoding.Error(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			region := append([]byte("58="), append(tc.given, SOH)...)
			f := fieldOver(region, 58, 3, len(tc.given))

			result, err := f.AsString()

			if tc.expectError != "" {
				assert.EqualError(t, err, tc.expectError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expect, result)
		})
	}
}

func TestField_AsInt(t *testing.T) {
	var testCases = []struct {
		name        string
		given       []byte
		expect      int64
		expectError string
	}{
		{
			name:   "positive integer",
			given:  []byte("100"),
			expect: 100,
		},
		{
			name:   "negative integer",
			given:  []byte("-42"),
			expect: -42,
		},
		{
			name:   "zero",
			given:  []byte("0"),
			expect: 0,
		},
		{
			name:        "decimal is not an integer",
			given:       []byte("1.5"),
			expectError: ErrValueInvalidNumber.Error(),
		},
		{
			name:        "empty value",
			given:       []byte(""),
			expectError: ErrValueInvalidNumber.Error(),
		},
		{
			name:        "text value",
			given:       []byte("abc"),
			expectError: ErrValueInvalidNumber.Error(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			region := append([]byte("38="), append(tc.given, SOH)...)
			f := fieldOver(region, 38, 3, len(tc.given))

			result, err := f.AsInt()

			if tc.expectError != "" {
				assert.EqualError(t, err, tc.expectError)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.expect, result)
		})
	}
}

func TestField_AsFloat64(t *testing.T) {
	var testCases = []struct {
		name        string
		given       []byte
		expect      float64
		expectError string
	}{
		{
			name:   "decimal number",
			given:  []byte("101.25"),
			expect: 101.25,
		},
		{
			name:   "integer is a valid decimal",
			given:  []byte("100"),
			expect: 100,
		},
		{
			name:   "negative decimal",
			given:  []byte("-0.5"),
			expect: -0.5,
		},
		{
			name:        "empty value",
			given:       []byte(""),
			expectError: ErrValueInvalidNumber.Error(),
		},
		{
			name:        "text value",
			given:       []byte("1,5"),
			expectError: ErrValueInvalidNumber.Error(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			region := append([]byte("44="), append(tc.given, SOH)...)
			f := fieldOver(region, 44, 3, len(tc.given))

			result, err := f.AsFloat64()

			if tc.expectError != "" {
				assert.EqualError(t, err, tc.expectError)
				return
			}
			assert.NoError(t, err)
			assert.InDelta(t, tc.expect, result, 0)
		})
	}
}

func TestField_AsTime(t *testing.T) {
	region := []byte("60=20231201-10:30:00.000\x01")
	f := fieldOver(region, 60, 3, 21)

	result, err := f.AsTime()

	assert.NoError(t, err)
	assert.True(t, time.Date(2023, 12, 1, 10, 30, 0, 0, time.UTC).Equal(result))
}

func TestFields_FindByTag(t *testing.T) {
	region := []byte("58=first\x0145=2\x0158=second\x01")
	fields := Fields{
		fieldOver(region, 58, 3, 5),
		fieldOver(region, 45, 12, 1),
		fieldOver(region, 58, 17, 6),
	}

	var testCases = []struct {
		name        string
		whenTag     Tag
		expectValue string
		expectOK    bool
	}{
		{
			name:        "single occurrence",
			whenTag:     45,
			expectValue: "2",
			expectOK:    true,
		},
		{
			name:        "last occurrence wins for duplicate tag",
			whenTag:     58,
			expectValue: "second",
			expectOK:    true,
		},
		{
			name:     "unknown tag",
			whenTag:  55,
			expectOK: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f, ok := fields.FindByTag(tc.whenTag)

			assert.Equal(t, tc.expectOK, ok)
			if tc.expectOK {
				assert.Equal(t, []byte(tc.expectValue), f.Bytes())
			}
		})
	}
}
