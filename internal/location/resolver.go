// Package location resolves, caches and synchronizes the user's delivery location across
// the device-local store, the remote profile store and every observer in the process.
package location

import (
	"context"
	"fmt"
	"sync"
	"time"

	"location-resolver/internal/auth"
	"location-resolver/internal/events"
	"location-resolver/internal/geocode"
	"location-resolver/internal/geolocation"
	"location-resolver/internal/models"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// AddressClient reaches the reverse-geocoding proxy.
type AddressClient interface {
	Reverse(ctx context.Context, lat, lng float64) (*geocode.Response, error)
}

// LocalStore is the synchronous device-local cache.
type LocalStore interface {
	Load() (models.Snapshot, bool, error)
	Save(models.Snapshot) error
}

// RemoteStore is the per-account profile store. Merge replaces the location slot as a
// whole unless the stored version is newer, keeping the rest of the profile.
type RemoteStore interface {
	Fetch(ctx context.Context, userID string) (*models.Snapshot, error)
	Merge(ctx context.Context, userID string, snap models.Snapshot) error
}

// IdentitySource reports who is signed in. Subscribe yields the current identity first.
type IdentitySource interface {
	Current() *auth.Identity
	Subscribe() (<-chan *auth.Identity, func())
}

// Deps are the collaborators of a Resolver. Geolocator, Remote and Identities may be nil.
type Deps struct {
	Geolocator geolocation.Geolocator
	Addresses  AddressClient
	Local      LocalStore
	Remote     RemoteStore
	Bus        *events.Bus
	Identities IdentitySource
}

// Resolver owns one view of the user's location.
type Resolver struct {
	id         string
	geo        geolocation.Geolocator
	addresses  AddressClient
	local      LocalStore
	remote     RemoteStore
	bus        *events.Bus
	identities IdentitySource
	now        func() time.Time
	tracer     trace.Tracer

	mu      sync.Mutex
	state   State
	current models.Snapshot
	lastErr error
	syncGen uint64

	cancel    context.CancelFunc
	sub       *events.Subscription
	stopAuth  func()
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// New creates a resolver. Call Initialize to load the cache and start synchronizing.
func New(d Deps) *Resolver {
	bus := d.Bus
	if bus == nil {
		bus = events.NewBus()
	}
	return &Resolver{
		id:         uuid.NewString(),
		geo:        d.Geolocator,
		addresses:  d.Addresses,
		local:      d.Local,
		remote:     d.Remote,
		bus:        bus,
		identities: d.Identities,
		now:        time.Now,
		tracer:     otel.Tracer("location-resolver/internal/location"),
	}
}

// Initialize loads the cached location without touching the network, then starts
// following the bus and the signed-in identity in the background. Calling it again is
// a no-op.
func (r *Resolver) Initialize(ctx context.Context) error {
	r.mu.Lock()
	if r.state != Uninitialized {
		r.mu.Unlock()
		return nil
	}

	snap, ok, err := r.local.Load()
	if err != nil {
		log.Warn().Err(err).Msg("location: ignoring unreadable local cache")
	}
	if ok && snap.Version >= r.current.Version {
		r.current = snap
	}
	r.state = LocalLoaded

	bgCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	r.cancel = cancel
	r.sub = r.bus.Subscribe()
	r.mu.Unlock()

	r.wg.Add(1)
	go r.followBus(r.sub)

	if r.identities != nil {
		ch, stop := r.identities.Subscribe()
		r.mu.Lock()
		r.stopAuth = stop
		r.mu.Unlock()

		r.wg.Add(1)
		go r.followIdentity(bgCtx, ch)
	}
	return nil
}

// Close stops background synchronization and waits for it to finish.
func (r *Resolver) Close() {
	r.closeOnce.Do(func() {
		r.mu.Lock()
		cancel, sub, stop := r.cancel, r.sub, r.stopAuth
		r.mu.Unlock()

		if cancel != nil {
			cancel()
		}
		if sub != nil {
			sub.Close()
		}
		if stop != nil {
			stop()
		}
		r.wg.Wait()
	})
}

// Current returns the location this resolver holds and whether one is known.
func (r *Resolver) Current() (models.LocationRecord, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current.Location, r.current.Location.IsSet()
}

// Snapshot returns the held location together with its version.
func (r *Resolver) Snapshot() models.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// State returns the synchronization state.
func (r *Resolver) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// LastError returns the most recent remote synchronization failure, if any.
func (r *Resolver) LastError() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastErr
}

// Subscribe returns a bus subscription that fires whenever any resolver rewrites the
// location. Close it when the observer goes away.
func (r *Resolver) Subscribe() *events.Subscription {
	return r.bus.Subscribe()
}

// Persist stores record everywhere it belongs. The in-memory and local copies are written
// before it returns. When a user is signed in the record is merged into their profile too;
// a failure there comes back as ErrRemotePersistence while the local write stands.
func (r *Resolver) Persist(ctx context.Context, record models.LocationRecord) (models.Snapshot, error) {
	ctx, span := r.tracer.Start(ctx, "location.Persist")
	defer span.End()

	if err := record.Validate(); err != nil {
		span.SetStatus(codes.Error, err.Error())
		return models.Snapshot{}, fmt.Errorf("location: %w", err)
	}

	var user *auth.Identity
	if r.identities != nil {
		user = r.identities.Current()
	}

	r.mu.Lock()
	snap := r.nextSnapshot(record)
	r.current = snap
	err := r.local.Save(snap)
	remote := user != nil && r.remote != nil && err == nil
	if remote && r.state != Uninitialized {
		r.state = RemoteSyncing
	}
	gen := r.syncGen
	r.mu.Unlock()

	span.SetAttributes(attribute.Int64("location.version", snap.Version))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "local write failed")
		return snap, fmt.Errorf("location: failed to write local store: %w", err)
	}

	r.bus.Publish(events.LocationChanged{Origin: r.id, Version: snap.Version})
	if !remote {
		return snap, nil
	}

	if err := r.remote.Merge(ctx, user.UserID, snap); err != nil {
		log.Error().Err(err).Str("user_id", user.UserID).Int64("version", snap.Version).
			Msg("location: remote profile write failed")
		rerr := newError(ErrRemotePersistence, msgRemotePersistence, err)
		r.setSyncResult(gen, RemoteSyncFailed, rerr)
		span.RecordError(err)
		span.SetStatus(codes.Error, rerr.Message)
		return snap, rerr
	}
	r.setSyncResult(gen, RemoteSynced, nil)
	return snap, nil
}

// nextSnapshot versions record for writing. Re-saving the held record keeps its version,
// so repeated saves are indistinguishable from one. Callers hold r.mu.
func (r *Resolver) nextSnapshot(record models.LocationRecord) models.Snapshot {
	if r.current.Version > 0 && r.current.Location.Equal(record) {
		return r.current
	}
	version := r.now().UnixMilli()
	if version <= r.current.Version {
		version = r.current.Version + 1
	}
	return models.Snapshot{Location: record, Version: version}
}

// setSyncResult records the outcome of a profile write started at generation gen. The
// outcome is dropped when the identity changed while the write was in flight.
func (r *Resolver) setSyncResult(gen uint64, state State, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.syncGen {
		return
	}
	if r.state != Uninitialized {
		r.state = state
	}
	r.lastErr = err
}

func (r *Resolver) followBus(sub *events.Subscription) {
	defer r.wg.Done()
	for ev := range sub.C {
		if ev.Origin == r.id {
			continue
		}
		r.reload()
	}
}

// reload adopts the local cache when another resolver wrote a newer snapshot.
func (r *Resolver) reload() {
	snap, ok, err := r.local.Load()
	if err != nil {
		log.Warn().Err(err).Msg("location: failed to reload local cache")
		return
	}
	if !ok {
		return
	}
	r.mu.Lock()
	if snap.Version > r.current.Version {
		r.current = snap
	}
	r.mu.Unlock()
}

func (r *Resolver) followIdentity(ctx context.Context, ch <-chan *auth.Identity) {
	defer r.wg.Done()
	for id := range ch {
		r.mu.Lock()
		r.syncGen++
		gen := r.syncGen
		if id == nil || r.remote == nil {
			r.state = LocalLoaded
			r.mu.Unlock()
			continue
		}
		r.state = RemoteSyncing
		r.mu.Unlock()

		// a later identity change must not wait behind a slow fetch
		r.wg.Add(1)
		go func(userID string) {
			defer r.wg.Done()
			r.syncRemote(ctx, userID, gen)
		}(id.UserID)
	}
}

// syncRemote reconciles the local snapshot with the profile of userID. The copy with the
// higher version wins: a newer remote copy is adopted, a newer local one is pushed up. An empty profile leaves the local copy alone. gen drops the
// results of a sync superseded by a later sign-in or sign-out.
func (r *Resolver) syncRemote(ctx context.Context, userID string, gen uint64) {
	ctx, span := r.tracer.Start(ctx, "location.syncRemote")
	defer span.End()

	remote, err := r.remote.Fetch(ctx, userID)

	r.mu.Lock()
	if gen != r.syncGen {
		r.mu.Unlock()
		return
	}
	if err != nil {
		r.state = RemoteSyncFailed
		r.lastErr = newError(ErrRemotePersistence, "Could not load the location saved to your account", err)
		r.mu.Unlock()
		log.Warn().Err(err).Str("user_id", userID).Msg("location: remote profile fetch failed")
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return
	}

	if remote == nil {
		r.state = RemoteSynced
		r.lastErr = nil
		r.mu.Unlock()
		return
	}

	if remote.Version == r.current.Version {
		// same write on both sides
		r.state = RemoteSynced
		r.lastErr = nil
		r.mu.Unlock()
		return
	}

	if remote.Version > r.current.Version {
		r.current = *remote
		if err := r.local.Save(*remote); err != nil {
			log.Warn().Err(err).Msg("location: failed to cache remote location")
		}
		r.state = RemoteSynced
		r.lastErr = nil
		r.mu.Unlock()

		span.SetAttributes(attribute.Int64("location.version", remote.Version))
		r.bus.Publish(events.LocationChanged{Origin: r.id, Version: remote.Version})
		return
	}

	push := r.current
	r.mu.Unlock()
	log.Debug().Int64("local_version", push.Version).Int64("remote_version", remote.Version).
		Msg("location: local copy is newer than remote, pushing")
	r.pushLocal(ctx, userID, push, gen)
}

func (r *Resolver) pushLocal(ctx context.Context, userID string, snap models.Snapshot, gen uint64) {
	err := r.remote.Merge(ctx, userID, snap)
	if err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("location: failed to push local location")
		err = newError(ErrRemotePersistence, msgRemotePersistence, err)
	}
	r.finishSync(gen, err)
}

func (r *Resolver) finishSync(gen uint64, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.syncGen {
		return
	}
	r.lastErr = err
	if err != nil {
		r.state = RemoteSyncFailed
		return
	}
	r.state = RemoteSynced
}
