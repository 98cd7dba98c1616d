package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/target/pos-console/config"
	"github.com/target/pos-console/internal/adapters/posapi"
	"github.com/target/pos-console/internal/observability/statsd"
	"github.com/target/pos-console/internal/service"
	"golang.org/x/sync/errgroup"
)

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config  *config.AppConfig
	Storage *Storage
	Logger  *slog.Logger
	// HTTPClient overrides the API client's transport, mainly for tests.
	HTTPClient *http.Client
	// Metrics receives API timings; nil discards them.
	Metrics statsd.Sink
}

// Services holds the wired console services. The session is the single
// owner of identity state; everything else reads it.
type Services struct {
	Client        *posapi.Client
	Resources     *posapi.ResourceClient
	Session       *service.Session
	Impersonation *service.Impersonation
	Selector      *service.StoreSelector
	Catalog       *service.Catalog

	storage *Storage
	logger  *slog.Logger
}

// BuildServices wires the API client, the session and the services that
// depend on it. Call Restore before issuing commands.
func BuildServices(deps ServiceDeps) (*Services, error) {
	if deps.Config == nil {
		return nil, errors.New("config is required")
	}
	if deps.Storage == nil || deps.Storage.Store == nil {
		return nil, errors.New("storage is required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	client, err := posapi.NewClient(posapi.Config{
		BaseURL:    deps.Config.API.URL,
		Timeout:    deps.Config.API.Timeout,
		UserAgent:  deps.Config.API.UserAgent,
		HTTPClient: deps.HTTPClient,
		Logger:     logger,
		Metrics:    deps.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}

	session, err := service.NewSession(service.SessionOptions{
		API:    client,
		Store:  deps.Storage.Store,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	// The client and the session reference each other: 401s end the
	// session, and the session supplies the bearer pair.
	client.SetUnauthorizedHandler(session.ForceLogout)
	resources := client.WithTokenSource(session.TokenSource())

	selector, err := service.NewStoreSelector(service.StoreSelectorOptions{
		Session:   session,
		Directory: resources,
		Logger:    logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create store selector: %w", err)
	}

	catalog, err := service.NewCatalog(service.CatalogOptions{
		Session:  session,
		Selector: selector,
		API:      resources,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create catalog: %w", err)
	}

	return &Services{
		Client:        client,
		Resources:     resources,
		Session:       session,
		Impersonation: service.NewImpersonation(session),
		Selector:      selector,
		Catalog:       catalog,
		storage:       deps.Storage,
		logger:        logger,
	}, nil
}

// Restore loads the persisted session and reconciles it with the server.
func (s *Services) Restore(ctx context.Context) (service.Status, error) {
	return s.Session.Restore(ctx)
}

// Run follows the shared store until ctx is done: foreign changes reload
// the session and every change refreshes the store selection. onChange, if
// set, sees each snapshot after the selection caught up.
func (s *Services) Run(ctx context.Context, onChange func(service.Snapshot)) error {
	changes := make(chan service.Snapshot, 1)
	unsubscribe := s.Session.OnChange(func(snap service.Snapshot) {
		// Listeners run inside transitions; hand off without blocking.
		for {
			select {
			case changes <- snap:
				return
			default:
			}
			select {
			case <-changes:
			default:
			}
		}
	})
	defer unsubscribe()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.Session.Watch(gctx); err != nil {
			return fmt.Errorf("watch session: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				return nil
			case snap := <-changes:
				s.follow(gctx, snap, onChange)
			}
		}
	})
	return g.Wait()
}

func (s *Services) follow(ctx context.Context, snap service.Snapshot, onChange func(service.Snapshot)) {
	if snap.Status == service.StatusAuthenticated {
		if _, err := s.Selector.Ensure(ctx); err != nil && !errors.Is(err, service.ErrStaleTransition) {
			s.logger.WarnContext(ctx, "refresh store selection", "error", err)
		}
	}
	if onChange != nil {
		onChange(snap)
	}
}

// Close stops background work and releases storage connections. It does not
// sign out.
func (s *Services) Close() error {
	return errors.Join(s.Session.Close(), s.storage.Close())
}
