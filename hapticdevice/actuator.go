package hapticdevice

import (
	"context"
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/haptic-sync/beatctl/hapticbeat"
	"github.com/haptic-sync/beatctl/haptictransport"
)

// MotorCount re-exports hapticbeat.MotorCount so callers of this package can
// size intensity arrays without importing hapticbeat themselves.
const MotorCount = hapticbeat.MotorCount

const (
	defaultBaseURL = "http://127.0.0.1:15881"

	pathRegister = "/api/register"
	pathPlay     = "/api/play"
	pathStopAll  = "/api/stop_all"
)

// Actuator is the opaque device driver capability set of spec section 4.2.
// Any implementation satisfies hapticbeat.Actuator directly;
// hapticstart.Initializer expects an Init method, which hapticcore supplies
// through a small adapter around Initialize.
type Actuator interface {
	Initialize(ctx context.Context) error
	Play(ctx context.Context, offset, durationMS int, intensities [MotorCount]byte, repeat int) error
	StopAll(ctx context.Context) error
	Close(ctx context.Context) error
}

type registerRequest struct {
	AppID   string `json:"app_id"`
	AppName string `json:"app_name"`
}

type playRequest struct {
	Offset      int              `json:"offset"`
	DurationMS  int              `json:"duration_ms"`
	Intensities [MotorCount]byte `json:"intensities"`
	Repeat      int              `json:"repeat"`
}

// HTTPActuator drives the bHaptics Player's local bridge over HTTP.
// Initialize is idempotent: subsequent calls after the first success are
// no-ops, per spec section 4.2.
type HTTPActuator struct {
	client  *haptictransport.Client
	baseURL string
	appID   string
	appName string
	logger  *zerolog.Logger

	mu          sync.Mutex
	initialized bool
	closed      bool
}

// NewHTTPActuator builds an HTTPActuator. appID/apiKey are sent as a
// Basic-auth token on every request (spec section 4.2's initialize
// arguments) and appID/appName are also sent in the register body;
// ratePerSecond/burst bound dispatch so a pathological BPM cannot flood
// the bridge.
func NewHTTPActuator(baseURL, appID, apiKey, appName string, ratePerSecond float64, burst int, logger *zerolog.Logger) *HTTPActuator {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	client := haptictransport.NewClient(
		haptictransport.WithAppName("beatctl-haptic-actuator"),
		haptictransport.WithBasicAuth(appID, apiKey),
		haptictransport.WithRateLimiter(haptictransport.NewTokenBucketRateLimiter(ratePerSecond, burst)),
		haptictransport.WithRetryStrategy(haptictransport.RetryOnServerError),
		haptictransport.WithLogger(logger),
	)

	return &HTTPActuator{
		client:  client,
		baseURL: baseURL,
		appID:   appID,
		appName: appName,
		logger:  logger,
	}
}

// Initialize registers the app with the bridge. Idempotent: once a call has
// succeeded, later calls return nil without dispatching another request.
func (a *HTTPActuator) Initialize(ctx context.Context) error {
	a.mu.Lock()
	if a.initialized {
		a.mu.Unlock()
		return nil
	}
	a.mu.Unlock()

	resp, err := a.client.DoJSON(ctx, http.MethodPost, a.baseURL+pathRegister, registerRequest{
		AppID:   a.appID,
		AppName: a.appName,
	})
	if err != nil {
		return errors.Wrap(err, "actuator initialize failed")
	}
	defer resp.Body.Close()

	a.mu.Lock()
	a.initialized = true
	a.mu.Unlock()

	return nil
}

// Play dispatches one beat to the bridge (spec section 4.2).
func (a *HTTPActuator) Play(ctx context.Context, offset, durationMS int, intensities [MotorCount]byte, repeat int) error {
	resp, err := a.client.DoJSON(ctx, http.MethodPost, a.baseURL+pathPlay, playRequest{
		Offset:      offset,
		DurationMS:  durationMS,
		Intensities: intensities,
		Repeat:      repeat,
	})
	if err != nil {
		return errors.Wrap(err, "actuator play failed")
	}
	defer resp.Body.Close()

	return nil
}

// StopAll halts any in-progress output on the bridge.
func (a *HTTPActuator) StopAll(ctx context.Context) error {
	resp, err := a.client.DoJSON(ctx, http.MethodPost, a.baseURL+pathStopAll, nil)
	if err != nil {
		return errors.Wrap(err, "actuator stop_all failed")
	}
	defer resp.Body.Close()

	return nil
}

// Close releases the actuator. Safe to call only after Initialize, per spec
// section 4.2; the bridge has no explicit teardown call, so this only
// marks the local handle closed. Initialize, Play and StopAll do not check
// that flag, so calls after Close are still dispatched.
func (a *HTTPActuator) Close(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.closed = true

	return nil
}
