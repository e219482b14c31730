// README: Rating requests, quotes, and engine configuration.
package rating

import (
	"time"

	"github.com/shopspring/decimal"

	"rateline/internal/modules/pricing"
	"rateline/internal/modules/ruletable"
	"rateline/internal/types"
)

type Product string

const (
	ProductIntracity     Product = "intracity"
	ProductInterCounty   Product = "intercounty"
	ProductFullLoad      Product = "fullload"
	ProductInternational Product = "international"
)

// Coordinates are "lat,lng" strings. Dimensions are in cm, weight in kg.
type IntracityRequest struct {
	Sender    string          `json:"sender" validate:"required,latlng"`
	Recipient string          `json:"recipient" validate:"required,latlng"`
	Weight    decimal.Decimal `json:"weight" validate:"gt=0"`
	Length    decimal.Decimal `json:"length" validate:"gte=0"`
	Width     decimal.Decimal `json:"width" validate:"gte=0"`
	Height    decimal.Decimal `json:"height" validate:"gte=0"`
}

type InterCountyRequest struct {
	Sender           string          `json:"sender" validate:"required,latlng"`
	Recipient        string          `json:"recipient" validate:"required,latlng"`
	Weight           decimal.Decimal `json:"weight" validate:"gt=0"`
	Length           decimal.Decimal `json:"length" validate:"gte=0"`
	Width            decimal.Decimal `json:"width" validate:"gte=0"`
	Height           decimal.Decimal `json:"height" validate:"gte=0"`
	RequiresPickup   bool            `json:"requires_pickup"`
	RequiresLastMile bool            `json:"requires_last_mile"`
}

type FullLoadRequest struct {
	Origin          string          `json:"origin" validate:"required,latlng"`
	Destination     string          `json:"destination" validate:"required,latlng"`
	DestinationName string          `json:"destination_name"`
	Weight          decimal.Decimal `json:"weight" validate:"gt=0"`
	VehicleID       int64           `json:"vehicle_id" validate:"required,gt=0"`
}

type InternationalRequest struct {
	CityID int64           `json:"city_id" validate:"required,gt=0"`
	Weight decimal.Decimal `json:"weight" validate:"gt=0"`
}

// Resolution records which rule rows produced a quote. Zero values mean the
// stage did not apply to the product.
type Resolution struct {
	OriginOfficeID        int64  `json:"origin_office_id,omitempty"`
	DestinationOfficeID   int64  `json:"destination_office_id,omitempty"`
	ZonePolicyID          int64  `json:"zone_policy_id,omitempty"`
	PackagePricingID      int64  `json:"package_pricing_id,omitempty"`
	RouteID               string `json:"route_id,omitempty"`
	RouteTierID           int64  `json:"route_tier_id,omitempty"`
	VehicleID             int64  `json:"vehicle_id,omitempty"`
	VehicleName           string `json:"vehicle_name,omitempty"`
	BandID                int64  `json:"band_id,omitempty"`
	BandName              string `json:"band_name,omitempty"`
	WeightTierID          int64  `json:"weight_tier_id,omitempty"`
	WeightTierName        string `json:"weight_tier_name,omitempty"`
	SurgeID               int64  `json:"surge_id,omitempty"`
	InternationalPolicyID int64  `json:"international_policy_id,omitempty"`
}

// Quote is the immutable result of one rating call.
type Quote struct {
	ID               string                 `json:"id"`
	Product          Product                `json:"product"`
	DistanceKm       decimal.Decimal        `json:"distance_km"`
	ChargeableWeight decimal.Decimal        `json:"chargeable_weight"`
	SizeCategory     ruletable.SizeCategory `json:"size_category,omitempty"`
	Fees             pricing.Breakdown      `json:"fees"`
	Total            types.Money            `json:"total"`
	Resolution       Resolution             `json:"resolution"`
	IssuedAt         time.Time              `json:"issued_at"`
}

type Config struct {
	Currency           string
	VolumetricDivisor  decimal.Decimal
	PackageThresholdKg decimal.Decimal
}

func DefaultConfig() Config {
	return Config{
		Currency:           types.DefaultCurrency,
		VolumetricDivisor:  decimal.NewFromInt(6000),
		PackageThresholdKg: decimal.RequireFromString("50.99"),
	}
}

// ChargeableWeight is max(actual, L×W×H / divisor). A non-positive divisor
// disables the volumetric component.
func ChargeableWeight(weight, length, width, height, divisor decimal.Decimal) decimal.Decimal {
	if !divisor.IsPositive() {
		return weight
	}
	volumetric := length.Mul(width).Mul(height).Div(divisor)
	return decimal.Max(weight, volumetric)
}
