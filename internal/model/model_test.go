package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	r, err := ParseRole("admin")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("Admin")
	assert.Error(t, err)
	_, err = ParseRole("")
	assert.Error(t, err)
}

func TestParseTestRideStatus(t *testing.T) {
	for _, s := range []string{"Pending", "Confirmed", "Cancelled"} {
		got, err := ParseTestRideStatus(s)
		require.NoError(t, err)
		assert.Equal(t, TestRideStatus(s), got)
	}
	_, err := ParseTestRideStatus("canceled")
	assert.Error(t, err)
}

func TestPublicUserOmitsHash(t *testing.T) {
	u := User{ID: 3, Username: "asha", Email: "asha@example.com", PasswordHash: "$2a$10$secret", Role: RoleCustomer}
	b, err := json.Marshal(u.Public())
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret")
	assert.JSONEq(t, `{"id":3,"username":"asha","email":"asha@example.com","role":"customer"}`, string(b))
}

func TestBookingDetailFlattensTestRide(t *testing.T) {
	d := BookingDetail{TestRide: TestRide{ID: 9, Status: TestRidePending}, DealerName: "Speed Motors"}
	b, err := json.Marshal(d)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.EqualValues(t, 9, m["id"])
	assert.Equal(t, "Pending", m["status"])
	assert.Equal(t, "Speed Motors", m["dealer_name"])
}
