package verify_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberguard/verify"
)

func TestCheckUnitedStates(t *testing.T) {
	result, err := verify.Check("+1 650-253-0000", "US")
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, "6502530000", result.Number)
	assert.Equal(t, "+16502530000", result.InternationalFormat)
	assert.Equal(t, "+1", result.CountryPrefix)
	assert.Equal(t, "US", result.CountryCode)
	assert.Equal(t, "United States of America", result.CountryName)
	assert.Equal(t, "North America", result.Location)
	// Area code 650 sorts above "500".
	assert.Equal(t, "T-Mobile USA / Bell Canada", result.Carrier)
}

func TestCheckPhilippinesCarriers(t *testing.T) {
	tests := []struct {
		name    string
		number  string
		carrier string
	}{
		{
			name:    "smart prefix",
			number:  "09181234567",
			carrier: "SMART Communications",
		},
		{
			name:    "globe prefix",
			number:  "09171234567",
			carrier: "Globe Telecom / DITO",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := verify.Check(tt.number, "PH")
			require.NoError(t, err)

			assert.True(t, result.Valid)
			assert.Equal(t, "PH", result.CountryCode)
			assert.Equal(t, "Philippines", result.CountryName)
			assert.Equal(t, "Metro Manila", result.Location)
			assert.Equal(t, tt.carrier, result.Carrier)
			// The significant number drops the trunk zero.
			assert.Equal(t, "9", result.Number[:1])
		})
	}
}

func TestCheckRejectsBadNumbers(t *testing.T) {
	tests := []struct {
		name   string
		number string
		region string
		want   error
	}{
		{name: "too short", number: "650253", region: "US", want: verify.ErrTooShort},
		{name: "too long", number: "65025300001234", region: "US", want: verify.ErrTooLong},
		{name: "not a number", number: "hello", region: "US", want: verify.ErrNotANumber},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verify.Check(tt.number, tt.region)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
