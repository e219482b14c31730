package ruletable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rateline/internal/testdb"
)

func TestStore_ReplaceAndSnapshot(t *testing.T) {
	db := testdb.Open(t, "offices")
	ctx := context.Background()

	want, err := LoadFile("testdata/rules.yaml")
	require.NoError(t, err)

	store := NewStore(db)
	require.NoError(t, store.Replace(ctx, want))

	got, err := store.Snapshot(ctx)
	require.NoError(t, err)

	require.Len(t, got.Offices, len(want.Offices))
	assert.Equal(t, *want.Offices[0].Location, *got.Offices[0].Location)
	assert.True(t, got.Offices[0].PickupFirstFreeKm.Equal(want.Offices[0].PickupFirstFreeKm))
	assert.Len(t, got.ZonePolicies, 1)
	assert.Len(t, got.PackagePricing, 2)
	assert.Len(t, got.Routes, 2)
	assert.Len(t, got.TiersForRoute("nbo-msa-parcel"), 2)
	assert.Len(t, got.VehiclePricing, 2)
	assert.Equal(t, want.Surges[0].Locations, got.Surges[0].Locations)
	assert.True(t, got.International[1].BasePrice.Equal(want.International[1].BasePrice))
	assert.Empty(t, Validate(got))
}
