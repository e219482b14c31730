package ruletable

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFile(t *testing.T) {
	snap, err := LoadFile("testdata/rules.yaml")
	require.NoError(t, err)

	require.Len(t, snap.Offices, 3)
	nbo := snap.Offices[0]
	require.NotNil(t, nbo.Location)
	assert.InDelta(t, -1.283333, nbo.Location.Lat, 1e-9)
	assert.True(t, nbo.PickupFirstFreeKm.Equal(decimal.NewFromInt(5)))

	require.Len(t, snap.Routes, 2)
	assert.Equal(t, int64(1), snap.Routes[0].OfficeA, "route pair normalized")
	assert.Equal(t, int64(2), snap.Routes[0].OfficeB)

	tiers := snap.TiersForRoute("nbo-msa-parcel")
	require.Len(t, tiers, 2)
	assert.True(t, tiers[0].IsFlat())
	assert.True(t, tiers[1].MaxWeight.Equal(decimal.RequireFromString("50.99")))

	assert.Equal(t, []string{"mombasa", "malindi"}, snap.Surges[0].Keywords())
	assert.False(t, snap.LoadedAt.IsZero())
	assert.Empty(t, Validate(snap))
}

func TestDecode_RejectsUnknownKeys(t *testing.T) {
	_, err := Decode(strings.NewReader("offices:\n  - id: 1\n    nmae: typo\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nmae")
}

func TestDecode_Empty(t *testing.T) {
	_, err := Decode(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyRuleFile)
}

func TestEncode_RoundTrip(t *testing.T) {
	snap, err := LoadFile("testdata/rules.yaml")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, snap))
	again, err := Decode(&buf)
	require.NoError(t, err)

	assert.Equal(t, len(snap.RouteTiers), len(again.RouteTiers))
	assert.True(t, again.VehiclePricing[1].ExtraPerKm.Equal(snap.VehiclePricing[1].ExtraPerKm))
	assert.Equal(t, *snap.Offices[1].Location, *again.Offices[1].Location)
}

func TestCheck(t *testing.T) {
	snap, err := LoadFile("testdata/rules.yaml")
	require.NoError(t, err)
	snap.WeightTiers = append(snap.WeightTiers, WeightTier{ID: 3, Name: "overlap", MinWeight: decimal.NewFromInt(10), MaxWeight: decimal.NewFromInt(20)})
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	err = Check(context.Background(), snap, true, log)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Len(t, verr.Issues, 1)
	assert.Equal(t, "weight_tiers", verr.Issues[0].Table)

	assert.NoError(t, Check(context.Background(), snap, false, log))
}

func TestValidate_InvertedBrackets(t *testing.T) {
	snap, err := LoadFile("testdata/rules.yaml")
	require.NoError(t, err)
	snap.PackagePricing = append(snap.PackagePricing, PackagePricing{
		ID: 22, OfficeID: 1,
		MinWeight: decimal.NewFromInt(500), MaxWeight: decimal.NewFromInt(400),
		MinDistance: decimal.NewFromInt(100), MaxDistance: decimal.NewFromInt(200),
	})
	snap.International = append(snap.International, InternationalPolicy{
		ID: 3, CityID: 9, MinWeight: decimal.NewFromInt(10), MaxWeight: decimal.NewFromInt(1),
	})

	issues := Validate(snap)
	require.Len(t, issues, 2)
	assert.Equal(t, "package_pricing[22]: min above max", issues[0].String())
	assert.Equal(t, "international[city 9]: policy 3 has min above max", issues[1].String())
}
