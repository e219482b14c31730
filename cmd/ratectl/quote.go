package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"rateline/internal/logging"
	"rateline/internal/maps"
	"rateline/internal/modules/geo"
	"rateline/internal/modules/rating"
	"rateline/internal/modules/route"
	"rateline/internal/modules/ruletable"
)

type quoteFlags struct {
	rules        string
	straightLine bool
	timeout      time.Duration
	currency     string
}

func quoteCmd() *cobra.Command {
	var qf quoteFlags

	cmd := &cobra.Command{
		Use:   "quote",
		Short: "Price one shipment against a rule file",
	}
	cmd.PersistentFlags().StringVar(&qf.rules, "rules", "", "rule file (YAML)")
	cmd.PersistentFlags().BoolVar(&qf.straightLine, "straight-line", false, "use geodesic distance instead of Google Maps")
	cmd.PersistentFlags().DurationVar(&qf.timeout, "timeout", 5*time.Second, "distance lookup timeout")
	cmd.PersistentFlags().StringVar(&qf.currency, "currency", "KES", "quote currency")
	_ = cmd.MarkPersistentFlagRequired("rules")

	cmd.AddCommand(intracityCmd(&qf))
	cmd.AddCommand(interCountyCmd(&qf))
	cmd.AddCommand(fullLoadCmd(&qf))
	cmd.AddCommand(internationalCmd(&qf))
	return cmd
}

// parcel holds the flags shared by the zone and route products.
type parcel struct {
	sender, recipient             string
	weight, length, width, height string
}

func (p *parcel) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&p.sender, "sender", "", "sender coordinate as lat,lng")
	cmd.Flags().StringVar(&p.recipient, "recipient", "", "recipient coordinate as lat,lng")
	cmd.Flags().StringVar(&p.weight, "weight", "", "actual weight in kg")
	cmd.Flags().StringVar(&p.length, "length", "0", "length in cm")
	cmd.Flags().StringVar(&p.width, "width", "0", "width in cm")
	cmd.Flags().StringVar(&p.height, "height", "0", "height in cm")
}

func (p *parcel) dims() (weight, length, width, height decimal.Decimal, err error) {
	vals := []decimal.Decimal{}
	for _, f := range []struct{ name, v string }{
		{"weight", p.weight}, {"length", p.length}, {"width", p.width}, {"height", p.height},
	} {
		d, err := parseDecimal(f.name, f.v)
		if err != nil {
			return weight, length, width, height, err
		}
		vals = append(vals, d)
	}
	return vals[0], vals[1], vals[2], vals[3], nil
}

func intracityCmd(qf *quoteFlags) *cobra.Command {
	var p parcel

	cmd := &cobra.Command{
		Use:   "intracity",
		Short: "Quote a delivery inside one office zone",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			weight, length, width, height, err := p.dims()
			if err != nil {
				return err
			}
			return runQuote(cmd, qf, func(ctx context.Context, svc *rating.Service) (rating.Quote, error) {
				return svc.QuoteIntracity(ctx, rating.IntracityRequest{
					Sender: p.sender, Recipient: p.recipient,
					Weight: weight, Length: length, Width: width, Height: height,
				})
			})
		},
	}
	p.bind(cmd)
	return cmd
}

func interCountyCmd(qf *quoteFlags) *cobra.Command {
	var (
		p                parcel
		pickup, lastMile bool
	)

	cmd := &cobra.Command{
		Use:   "intercounty",
		Short: "Quote an office-to-office shipment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			weight, length, width, height, err := p.dims()
			if err != nil {
				return err
			}
			return runQuote(cmd, qf, func(ctx context.Context, svc *rating.Service) (rating.Quote, error) {
				return svc.QuoteInterCounty(ctx, rating.InterCountyRequest{
					Sender: p.sender, Recipient: p.recipient,
					Weight: weight, Length: length, Width: width, Height: height,
					RequiresPickup: pickup, RequiresLastMile: lastMile,
				})
			})
		},
	}
	p.bind(cmd)
	cmd.Flags().BoolVar(&pickup, "pickup", false, "collect from the sender")
	cmd.Flags().BoolVar(&lastMile, "last-mile", false, "deliver to the recipient's door")
	return cmd
}

func fullLoadCmd(qf *quoteFlags) *cobra.Command {
	var (
		origin, destination, destinationName, weight string
		vehicleID                                    int64
	)

	cmd := &cobra.Command{
		Use:   "fullload",
		Short: "Quote a dedicated vehicle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := parseDecimal("weight", weight)
			if err != nil {
				return err
			}
			return runQuote(cmd, qf, func(ctx context.Context, svc *rating.Service) (rating.Quote, error) {
				return svc.QuoteFullLoad(ctx, rating.FullLoadRequest{
					Origin: origin, Destination: destination, DestinationName: destinationName,
					Weight: w, VehicleID: vehicleID,
				})
			})
		},
	}
	cmd.Flags().StringVar(&origin, "origin", "", "origin coordinate as lat,lng")
	cmd.Flags().StringVar(&destination, "destination", "", "destination coordinate as lat,lng")
	cmd.Flags().StringVar(&destinationName, "destination-name", "", "destination place name, matched against surge locations")
	cmd.Flags().StringVar(&weight, "weight", "", "load weight in kg")
	cmd.Flags().Int64Var(&vehicleID, "vehicle", 0, "vehicle type id")
	return cmd
}

func internationalCmd(qf *quoteFlags) *cobra.Command {
	var (
		cityID int64
		weight string
	)

	cmd := &cobra.Command{
		Use:   "international",
		Short: "Quote an international shipment by destination city",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w, err := parseDecimal("weight", weight)
			if err != nil {
				return err
			}
			return runQuote(cmd, qf, func(ctx context.Context, svc *rating.Service) (rating.Quote, error) {
				return svc.QuoteInternational(ctx, rating.InternationalRequest{CityID: cityID, Weight: w})
			})
		},
	}
	cmd.Flags().Int64Var(&cityID, "city", 0, "destination city id")
	cmd.Flags().StringVar(&weight, "weight", "", "weight in kg")
	return cmd
}

func runQuote(cmd *cobra.Command, qf *quoteFlags, rate func(context.Context, *rating.Service) (rating.Quote, error)) error {
	snap, err := ruletable.LoadFile(qf.rules)
	if err != nil {
		return err
	}
	log := logging.New(cmd.ErrOrStderr(), "warn")
	if err := ruletable.Check(cmd.Context(), snap, false, log); err != nil {
		return err
	}

	var provider geo.DistanceProvider = geo.GeodesicProvider{}
	if !qf.straightLine {
		ds, err := maps.NewDistanceService(os.Getenv("GOOGLE_MAPS_API_KEY"))
		if err != nil {
			return fmt.Errorf("google maps (use --straight-line to work offline): %w", err)
		}
		provider = ds
	}

	engine := rating.NewEngine(
		geo.NewResolver(provider, qf.timeout),
		route.NewService(route.NewMemoryRegistry(snap.Routes)),
		rating.Config{Currency: qf.currency},
	)
	svc := rating.NewService(ruletable.NewStatic(snap), engine, log)

	q, err := rate(cmd.Context(), svc)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(q)
}

func parseDecimal(name, v string) (decimal.Decimal, error) {
	if v == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(v)
	if err != nil {
		return decimal.Zero, fmt.Errorf("--%s: %w", name, err)
	}
	return d, nil
}
