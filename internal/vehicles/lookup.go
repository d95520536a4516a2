package vehicles

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/angelmondragon/autocenter-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/autocenter-backend/pkg/errors"
	"github.com/angelmondragon/autocenter-backend/pkg/logger"
	"github.com/angelmondragon/autocenter-backend/pkg/metrics"
	"github.com/angelmondragon/autocenter-backend/pkg/plates"
	"github.com/angelmondragon/autocenter-backend/pkg/redis"
	"go.uber.org/multierr"
	"golang.org/x/sync/singleflight"
)

const (
	layerMemory = "memory"
	layerShared = "shared"
)

// sharedCache is the cross-instance cache; *redis.Client satisfies it.
type sharedCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	VehicleLookupKey(plate string) string
}

// LookupService resolves plates through the memory cache, the shared cache
// and finally the configured providers.
type LookupService interface {
	Lookup(ctx context.Context, rawPlate string) (*LookupDTO, error)
}

// LookupParams wires the plate lookup service.
type LookupParams struct {
	Providers []plates.Provider
	Shared    sharedCache
	CacheTTL  time.Duration
	Metrics   *metrics.VehicleLookupMetrics
	Logger    *logger.Logger
}

type lookupService struct {
	providers []plates.Provider
	memory    *memoryCache
	shared    sharedCache
	ttl       time.Duration
	group     singleflight.Group
	metrics   *metrics.VehicleLookupMetrics
	logg      *logger.Logger
}

type lookupResult struct {
	vehicle plates.Vehicle
	cached  bool
}

// NewLookupService accepts an empty provider list; lookups then serve only
// cached plates and fail with a dependency error on a miss. Shared may be nil.
func NewLookupService(params LookupParams) (LookupService, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if len(params.Providers) == 0 {
		params.Logger.Warn(context.Background(), "no plate providers configured; vehicle lookup serves cache only")
	}
	return &lookupService{
		providers: params.Providers,
		memory:    newMemoryCache(params.CacheTTL),
		shared:    params.Shared,
		ttl:       params.CacheTTL,
		metrics:   params.Metrics,
		logg:      params.Logger,
	}, nil
}

// NewProviders builds the plate providers in the configured order, skipping
// those without credentials.
func NewProviders(cfg config.VehicleLookupConfig, logg *logger.Logger) []plates.Provider {
	var providers []plates.Provider
	for _, name := range cfg.ProviderOrder() {
		var (
			provider plates.Provider
			err      error
		)
		switch name {
		case plates.ProviderPlacaFipe:
			provider, err = plates.NewPlacaFipeClient(cfg.PlacaFipeToken,
				plates.WithBaseURL(cfg.PlacaFipeBaseURL), plates.WithTimeout(cfg.Timeout))
		case plates.ProviderAPIBrasil:
			provider, err = plates.NewAPIBrasilClient(cfg.APIBrasilToken, cfg.APIBrasilDevice,
				plates.WithBaseURL(cfg.APIBrasilBaseURL), plates.WithTimeout(cfg.Timeout))
		default:
			err = fmt.Errorf("unknown plate provider %q", name)
		}
		if err != nil {
			logg.Warn(logg.WithFields(context.Background(), map[string]any{
				"provider": name,
				"error":    err.Error(),
			}), "plate provider disabled")
			continue
		}
		providers = append(providers, provider)
	}
	return providers
}

func (s *lookupService) Lookup(ctx context.Context, rawPlate string) (*LookupDTO, error) {
	plate, err := plates.Normalize(rawPlate)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid plate").
			WithDetails(map[string]any{"plate": rawPlate})
	}

	if vehicle, ok := s.memory.get(plate); ok {
		s.metrics.CacheResult(layerMemory, true)
		return newLookupDTO(vehicle, true), nil
	}
	s.metrics.CacheResult(layerMemory, false)

	ch := s.group.DoChan(plate, func() (any, error) {
		return s.resolve(context.WithoutCancel(ctx), plate)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		result := res.Val.(lookupResult)
		return newLookupDTO(result.vehicle, result.cached), nil
	}
}

// resolve runs once per plate across concurrent callers.
func (s *lookupService) resolve(ctx context.Context, plate string) (lookupResult, error) {
	if vehicle, ok := s.readShared(ctx, plate); ok {
		s.memory.set(plate, vehicle)
		return lookupResult{vehicle: vehicle, cached: true}, nil
	}
	if len(s.providers) == 0 {
		return lookupResult{}, pkgerrors.New(pkgerrors.CodeDependency, "vehicle lookup unavailable")
	}

	var errs error
	notFound := 0
	for _, provider := range s.providers {
		start := time.Now()
		vehicle, err := provider.Lookup(ctx, plate)
		elapsed := time.Since(start)
		switch {
		case err == nil && vehicle != nil:
			s.metrics.ProviderAttempt(provider.Name(), metrics.OutcomeSuccess, elapsed)
			vehicle.Plate = plate
			s.memory.set(plate, *vehicle)
			s.writeShared(ctx, plate, *vehicle)
			return lookupResult{vehicle: *vehicle}, nil
		case err == nil || errors.Is(err, plates.ErrNotFound):
			notFound++
			s.metrics.ProviderAttempt(provider.Name(), metrics.OutcomeNotFound, elapsed)
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", provider.Name(), plates.ErrNotFound))
		default:
			s.metrics.ProviderAttempt(provider.Name(), metrics.OutcomeError, elapsed)
			logCtx := s.logg.WithFields(ctx, map[string]any{
				"provider":   provider.Name(),
				"plate":      plate,
				"elapsed_ms": elapsed.Milliseconds(),
			})
			s.logg.Warn(logCtx, "plate provider failed: "+err.Error())
			errs = multierr.Append(errs, err)
		}
	}

	if notFound == len(s.providers) {
		return lookupResult{}, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found for plate").
			WithDetails(map[string]any{"plate": plate})
	}
	s.logg.Error(s.logg.WithField(ctx, "plate", plate), "all plate providers failed", errs)
	return lookupResult{}, pkgerrors.Wrap(pkgerrors.CodeDependency, errs, "vehicle lookup unavailable")
}

func (s *lookupService) readShared(ctx context.Context, plate string) (plates.Vehicle, bool) {
	if s.shared == nil {
		return plates.Vehicle{}, false
	}
	raw, err := s.shared.Get(ctx, s.shared.VehicleLookupKey(plate))
	if err != nil {
		if !redis.IsMiss(err) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "shared plate cache read failed")
		}
		s.metrics.CacheResult(layerShared, false)
		return plates.Vehicle{}, false
	}
	var vehicle plates.Vehicle
	if err := json.Unmarshal([]byte(raw), &vehicle); err != nil {
		s.metrics.CacheResult(layerShared, false)
		return plates.Vehicle{}, false
	}
	s.metrics.CacheResult(layerShared, true)
	return vehicle, true
}

func (s *lookupService) writeShared(ctx context.Context, plate string, vehicle plates.Vehicle) {
	if s.shared == nil || s.ttl <= 0 {
		return
	}
	raw, err := json.Marshal(vehicle)
	if err != nil {
		return
	}
	if err := s.shared.Set(ctx, s.shared.VehicleLookupKey(plate), string(raw), s.ttl); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "shared plate cache write failed")
	}
}

func newLookupDTO(v plates.Vehicle, cached bool) *LookupDTO {
	return &LookupDTO{
		Plate:         v.Plate,
		Format:        plates.Format(v.Plate),
		Make:          v.Make,
		Model:         v.Model,
		Year:          v.Year,
		ModelYear:     v.ModelYear,
		Color:         v.Color,
		Fuel:          v.Fuel,
		ChassisSuffix: v.ChassisSuffix,
		City:          v.City,
		State:         v.State,
		Provider:      v.Provider,
		Cached:        cached,
	}
}
