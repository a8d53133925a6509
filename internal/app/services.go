package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/tommyrac/Dawn/internal/config"
	"github.com/tommyrac/Dawn/internal/log"
	"github.com/tommyrac/Dawn/internal/navigation"
	"github.com/tommyrac/Dawn/internal/pubsub"
	"github.com/tommyrac/Dawn/internal/tracing"
	"github.com/tommyrac/Dawn/internal/watcher"
)

// Services is built once at startup and handed to everything that publishes
// or subscribes. Close releases it.
type Services struct {
	Registry  *pubsub.Registry
	Navigator *navigation.Navigator

	configPath string
	tracing    *tracing.Provider

	mu      sync.Mutex
	config  config.Config
	subs    []*pubsub.Subscription
	watcher *watcher.Watcher
	cancel  context.CancelFunc
}

// ServiceOption configures NewServices.
type ServiceOption func(*serviceOptions)

type serviceOptions struct {
	navOpts []navigation.Option
}

// WithNavigatorOptions forwards options to the navigator.
func WithNavigatorOptions(opts ...navigation.Option) ServiceOption {
	return func(o *serviceOptions) {
		o.navOpts = append(o.navOpts, opts...)
	}
}

// NewServices wires the registry, navigator, default loggers and tracing.
// configPath may be empty when no config file backs cfg.
func NewServices(cfg config.Config, configPath string, opts ...ServiceOption) (*Services, error) {
	var o serviceOptions
	for _, opt := range opts {
		opt(&o)
	}

	provider, err := tracing.NewProvider(cfg.Tracing, tracing.DefaultServiceName)
	if err != nil {
		return nil, fmt.Errorf("starting tracing: %w", err)
	}

	var regOpts []pubsub.Option
	if provider.Enabled() {
		regOpts = append(regOpts, pubsub.WithTracer(provider.Tracer()))
	}
	reg := pubsub.NewRegistry(regOpts...)

	s := &Services{
		Registry:   reg,
		Navigator:  navigation.New(reg, cfg.Theme, o.navOpts...),
		configPath: configPath,
		tracing:    provider,
		config:     cfg,
	}

	loggers, err := navigation.RegisterLoggers(reg)
	if err != nil {
		_ = provider.Shutdown(context.Background())
		return nil, err
	}
	s.subs = append(s.subs, loggers...)

	settingsSub, err := s.Navigator.FollowSettings()
	if err != nil {
		s.unsubscribeAll()
		_ = provider.Shutdown(context.Background())
		return nil, fmt.Errorf("following settings: %w", err)
	}
	s.subs = append(s.subs, settingsSub)

	return s, nil
}

// Config returns the most recently loaded configuration.
func (s *Services) Config() config.Config {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.config
}

// ConfigPath returns the config file backing these services.
func (s *Services) ConfigPath() string {
	return s.configPath
}

// Reload re-reads the config file and publishes SettingsChanged.
// On error the previous configuration stays in effect.
func (s *Services) Reload(ctx context.Context) error {
	if s.configPath == "" {
		return errors.New("no config file to reload")
	}

	cfg, err := config.Load(s.configPath)
	if err != nil {
		log.ErrorErr(log.CatConfig, "Reload failed, keeping previous config", err, "path", s.configPath)
		return err
	}

	s.mu.Lock()
	s.config = cfg
	s.mu.Unlock()

	log.Info(log.CatConfig, "Config reloaded", "path", s.configPath)
	s.Registry.Publish(ctx, navigation.SettingsChanged{Settings: cfg.Theme})
	return nil
}

// WatchConfig reloads the config whenever its file changes, until Close.
// It does nothing when watching is disabled or there is no config file.
func (s *Services) WatchConfig(ctx context.Context) error {
	cfg := s.Config()
	if !cfg.Watch.Enabled || s.configPath == "" {
		return nil
	}

	w, err := watcher.New(watcher.Config{Path: s.configPath, DebounceDur: cfg.Watch.Debounce})
	if err != nil {
		return err
	}
	changes, err := w.Start()
	if err != nil {
		_ = w.Stop()
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.watcher = w
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-changes:
				_ = s.Reload(ctx)
			}
		}
	}()
	return nil
}

func (s *Services) unsubscribeAll() {
	for _, sub := range s.subs {
		sub.Unsubscribe()
	}
	s.subs = nil
}

// Close stops watching, removes the default subscribers and flushes traces.
func (s *Services) Close() error {
	s.mu.Lock()
	w, cancel := s.watcher, s.cancel
	s.watcher, s.cancel = nil, nil
	s.unsubscribeAll()
	s.mu.Unlock()

	var errs []error
	if cancel != nil {
		cancel()
	}
	if w != nil {
		if err := w.Stop(); err != nil {
			errs = append(errs, fmt.Errorf("stopping watcher: %w", err))
		}
	}
	if err := s.tracing.Shutdown(context.Background()); err != nil {
		errs = append(errs, fmt.Errorf("flushing traces: %w", err))
	}
	return errors.Join(errs...)
}
