package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"location-resolver/internal/location"
	"location-resolver/internal/models"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var saveDetected bool

var record models.LocationRecord

// showCmd prints the stored location
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the stored location",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return printSnapshot(cmd.OutOrStdout(), a.resolver.Snapshot(), a.resolver.State())
		})
	},
}

// detectCmd resolves the device position into an address
var detectCmd = &cobra.Command{
	Use:   "detect",
	Short: "Resolve the device position into an address",
	Long: `Acquire the device position, reverse-geocode it and print the address.

With --save the address is also persisted as the user's location.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			rec, err := a.resolver.ResolveFromDevice(ctx)
			if err != nil {
				return err
			}
			if !saveDetected {
				return printJSON(cmd.OutOrStdout(), rec)
			}
			return persist(ctx, cmd.OutOrStdout(), a.resolver, rec)
		})
	},
}

// saveCmd persists a manually entered location
var saveCmd = &cobra.Command{
	Use:   "save",
	Short: "Persist a manually entered location",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			return persist(ctx, cmd.OutOrStdout(), a.resolver, record)
		})
	},
}

// watchCmd prints every change to the stored location until interrupted
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the location whenever it changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) error {
			sub := a.resolver.Subscribe()
			defer sub.Close()

			out := cmd.OutOrStdout()
			if err := printSnapshot(out, a.resolver.Snapshot(), a.resolver.State()); err != nil {
				return err
			}
			for {
				select {
				case <-ctx.Done():
					return nil
				case ev, ok := <-sub.C:
					if !ok {
						return nil
					}
					log.Debug().Str("origin", ev.Origin).Int64("version", ev.Version).Msg("location changed")
					if err := printSnapshot(out, a.resolver.Snapshot(), a.resolver.State()); err != nil {
						return err
					}
				}
			}
		})
	},
}

func init() {
	detectCmd.Flags().BoolVar(&saveDetected, "save", false, "Persist the detected address")

	f := saveCmd.Flags()
	f.StringVar(&record.DoorNo, "door", "", "Door number")
	f.StringVar(&record.Street, "street", "", "Street")
	f.StringVar(&record.Area, "area", "", "Area or locality")
	f.StringVar(&record.City, "city", "", "City")
	f.StringVar(&record.State, "state", "", "State")
	f.StringVar(&record.Pincode, "pincode", "", "Postal code")
	f.StringVar(&record.FormattedAddress, "address", "", "Full address as displayed")
	_ = saveCmd.MarkFlagRequired("city")
	_ = saveCmd.MarkFlagRequired("state")
	_ = saveCmd.MarkFlagRequired("pincode")
	_ = saveCmd.MarkFlagRequired("address")
}

func withApp(cmd *cobra.Command, run func(context.Context, *app) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.start(ctx); err != nil {
		return err
	}
	return run(ctx, a)
}

// persist saves rec and prints the stored snapshot. A failed profile write still counts
// as saved on this device, so it is reported without failing the command.
func persist(ctx context.Context, w io.Writer, r *location.Resolver, rec models.LocationRecord) error {
	snap, err := r.Persist(ctx, rec)
	if err != nil {
		if !errors.Is(err, location.ErrRemotePersistence) {
			return err
		}
		log.Warn().Err(errors.Unwrap(err)).Msg(err.Error())
	}
	return printSnapshot(w, snap, r.State())
}

type snapshotView struct {
	Location *models.LocationRecord `json:"location"`
	Version  int64                  `json:"version"`
	State    string                 `json:"state"`
}

func printSnapshot(w io.Writer, snap models.Snapshot, state location.State) error {
	view := snapshotView{Version: snap.Version, State: state.String()}
	if snap.Location.IsSet() {
		view.Location = &snap.Location
	}
	return printJSON(w, view)
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}
