package core

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	glog "github.com/goliatone/go-logger/glog"
)

// Service is the membership platform client: typed reads over the cached
// query surface, typed mutations over the request executor, with cache
// invalidation on every write.
type Service struct {
	config            Config
	logger            Logger
	loggerProvider    LoggerProvider
	metricsRecorder   MetricsRecorder
	errorFactory      ErrorFactory
	errorMapper       ErrorMapper
	requester         Requester
	fetcher           QueryFetcher
	sessionProvider   SessionProvider
	sessionStore      SessionStore
	persistenceClient any
	repositoryFactory any
	configProvider    ConfigProvider
	optionsResolver   OptionsResolver
}

func NewService(cfg Config, options ...Option) (*Service, error) {
	builder := defaultServiceBuilder(cfg)
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&builder)
	}

	provider, logger := glog.Resolve("memberapi", builder.loggerProvider, builder.logger)
	logger = glog.Ensure(logger)
	// an explicitly supplied logger wins over the provider-named one
	if builder.logger == nil && provider != nil {
		if named := provider.GetLogger("memberapi"); named != nil {
			logger = glog.Ensure(named)
		}
	}

	if builder.errorFactory == nil {
		builder.errorFactory = goerrors.New
	}
	if builder.metricsRecorder == nil {
		builder.metricsRecorder = NopMetricsRecorder{}
	}
	if builder.errorMapper == nil {
		builder.errorMapper = defaultErrorMapper
	}
	if builder.configProvider == nil {
		builder.configProvider = NewCfgxConfigProvider(nil)
	}
	if builder.optionsResolver == nil {
		builder.optionsResolver = GoOptionsResolver{}
	}

	defaults := DefaultConfig()
	loaded, err := builder.configProvider.Load(context.Background(), defaults)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}
	finalConfig, err := builder.optionsResolver.Resolve(defaults, loaded, builder.runtimeConfig)
	if err != nil {
		return nil, mapBuildError(builder.errorMapper, err)
	}

	if builder.sessionStore == nil && builder.repositoryFactory != nil {
		if storeFactory, ok := builder.repositoryFactory.(RepositoryStoreFactory); ok {
			provider, buildErr := storeFactory.BuildStores(builder.persistenceClient)
			if buildErr != nil {
				return nil, mapBuildError(builder.errorMapper, buildErr)
			}
			if provider != nil {
				builder.sessionStore = provider.SessionStore()
			}
		} else if provider, ok := builder.repositoryFactory.(StoreProvider); ok {
			builder.sessionStore = provider.SessionStore()
		}
	}

	if builder.requester == nil {
		return nil, mapBuildError(builder.errorMapper, fmt.Errorf("core: requester is required"))
	}
	if builder.fetcher == nil {
		return nil, mapBuildError(builder.errorMapper, fmt.Errorf("core: query fetcher is required"))
	}

	return &Service{
		config:            finalConfig,
		logger:            logger,
		loggerProvider:    provider,
		metricsRecorder:   builder.metricsRecorder,
		errorFactory:      builder.errorFactory,
		errorMapper:       builder.errorMapper,
		requester:         builder.requester,
		fetcher:           builder.fetcher,
		sessionProvider:   builder.sessionProvider,
		sessionStore:      builder.sessionStore,
		persistenceClient: builder.persistenceClient,
		repositoryFactory: builder.repositoryFactory,
		configProvider:    builder.configProvider,
		optionsResolver:   builder.optionsResolver,
	}, nil
}

func (s *Service) Config() Config {
	if s == nil {
		return Config{}
	}
	return s.config
}

func (s *Service) SessionStore() SessionStore {
	if s == nil {
		return nil
	}
	return s.sessionStore
}

func (s *Service) mapError(err error) error {
	if err == nil {
		return nil
	}
	if s == nil || s.errorMapper == nil {
		return serviceErrorMapper(err)
	}
	mapped := s.errorMapper(err)
	if mapped == nil {
		return serviceErrorMapper(err)
	}
	return mapped
}

func mapBuildError(mapper ErrorMapper, err error) error {
	if err == nil {
		return nil
	}
	if mapper == nil {
		return serviceErrorMapper(err)
	}
	if mapped := mapper(err); mapped != nil {
		return mapped
	}
	return serviceErrorMapper(err)
}
