package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDonationInputAcceptsNumberOrString(t *testing.T) {
	cases := map[string]float64{
		`{"amount": 500}`:       500,
		`{"amount": "250.50"}`:  250.5,
		`{"amount": "$1,000"}`:  1000,
		`{"amount": 0.99}`:      0.99,
		`{"amount": " 12.5 "}`:  12.5,
	}

	for body, want := range cases {
		var in DonationInput
		require.NoError(t, json.Unmarshal([]byte(body), &in), body)
		require.NotNil(t, in.Amount, body)
		assert.InDelta(t, want, float64(*in.Amount), 0.0001, body)
	}
}

func TestDonationInputMissingFieldsStayNil(t *testing.T) {
	var in DonationInput
	require.NoError(t, json.Unmarshal([]byte(`{"type":"Cash","amount":null}`), &in))

	assert.Nil(t, in.Amount)
	assert.Nil(t, in.Date)
	assert.Nil(t, in.DonorID)
	require.NotNil(t, in.Type)
	assert.Equal(t, "Cash", *in.Type)
}

func TestDonationInputRejectsGarbageAmount(t *testing.T) {
	for _, body := range []string{
		`{"amount":"lots"}`,
		`{"amount":"NaN"}`,
		`{"amount":"Infinity"}`,
		`{"amount":"-inf"}`,
	} {
		var in DonationInput
		assert.Error(t, json.Unmarshal([]byte(body), &in), body)
	}
}

func TestParseAmountRejectsNonFinite(t *testing.T) {
	for _, raw := range []string{"NaN", "nan", "Inf", "+Infinity", "-inf"} {
		_, err := ParseAmount(raw)
		assert.Error(t, err, raw)
	}

	f, err := ParseAmount("$1,250.75")
	require.NoError(t, err)
	assert.InDelta(t, 1250.75, f, 0.0001)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2024-03-10T14:30:00-05:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 10, 19, 30, 0, 0, time.UTC), d)

	_, err = ParseDate("15/01/2024")
	assert.Error(t, err)
}

func TestDateOnlyUnmarshal(t *testing.T) {
	var in TaskInput
	require.NoError(t, json.Unmarshal([]byte(`{"dueDate":"2025-01-20","status":"pending"}`), &in))
	require.NotNil(t, in.DueDate)
	assert.Equal(t, "2025-01-20", in.DueDate.Format(DateLayout))
	assert.True(t, in.Status.Valid())
}

func TestRoleValid(t *testing.T) {
	assert.True(t, RoleAdmin.Valid())
	assert.True(t, RoleStaff.Valid())
	assert.False(t, Role("OWNER").Valid())
}
