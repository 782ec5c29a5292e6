package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"location-resolver/internal/auth"
	"location-resolver/internal/config"
	"location-resolver/internal/events"
	"location-resolver/internal/geocode"
	"location-resolver/internal/geolocation"
	"location-resolver/internal/location"
	"location-resolver/internal/logging"
	"location-resolver/internal/profile"
	"location-resolver/internal/store"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// app is the composition root of one CLI invocation.
type app struct {
	resolver *location.Resolver
	session  *auth.Session
	bus      *events.Bus
	closers  []func()
}

func newApp(cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadConfig(configDir)
	if err != nil {
		return nil, err
	}
	logging.Setup(cfg.LogLevel, cfg.LogPretty)

	a := &app{session: auth.NewSession(), bus: events.NewBus()}

	local, err := store.OpenSQLite(cfg.LocalStorePath)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, func() { _ = local.Close() })

	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	deps := location.Deps{
		Geolocator: a.geolocator(cmd, cfg),
		Addresses:  geocode.NewClient(cfg.ProxyBaseURL, httpClient),
		Local:      local,
		Bus:        a.bus,
		Identities: a.session,
	}

	if token != "" {
		id, err := auth.IdentityFromToken(token)
		if err != nil {
			a.Close()
			return nil, err
		}
		deps.Remote = profile.NewClient(cfg.ProfileBaseURL, a.currentToken, httpClient)
		a.session.SignIn(id)
	}

	a.resolver = location.New(deps)
	a.closers = append(a.closers, a.resolver.Close)
	return a, nil
}

func (a *app) geolocator(cmd *cobra.Command, cfg config.Config) geolocation.Geolocator {
	flags := cmd.Flags()
	if flags.Changed("lat") || flags.Changed("lng") {
		return geolocation.Fixed{Position: geolocation.Position{Lat: lat, Lng: lng, Accuracy: accuracy}}
	}
	if cfg.MQTTBroker == "" {
		return geolocation.Unsupported{}
	}

	client, err := geolocation.ConnectMQTT(cfg.MQTTBroker, cfg.MQTTClientID)
	if err != nil {
		log.Warn().Err(err).Msg("device position feed unavailable")
		return geolocation.Unsupported{}
	}
	a.closers = append(a.closers, func() { client.Disconnect(250) })

	geo := geolocation.NewMQTTGeolocator(client, cfg.MQTTTopic, cfg.HighAccuracyMeters)
	if err := geo.Start(); err != nil {
		log.Warn().Err(err).Msg("device position feed unavailable")
		return geolocation.Unsupported{}
	}
	a.closers = append(a.closers, geo.Stop)
	return geo
}

func (a *app) currentToken() string {
	if id := a.session.Current(); id != nil {
		return id.Token
	}
	return ""
}

// start loads the cache and, when signed in, waits for the first profile sync so
// commands see the reconciled location.
func (a *app) start(ctx context.Context) error {
	if err := a.resolver.Initialize(ctx); err != nil {
		return err
	}
	if a.session.Current() == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, syncWait)
	defer cancel()
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		switch a.resolver.State() {
		case location.RemoteSynced:
			return nil
		case location.RemoteSyncFailed:
			log.Warn().Err(a.resolver.LastError()).Msg("using the location cached on this device")
			return nil
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				log.Warn().Dur("waited", syncWait).Msg("profile sync still running, using the cached location")
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
