package templates

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/utilmon-lab/varsel/pkg/domain/model/message"
	"github.com/utilmon-lab/varsel/pkg/domain/types"
	"github.com/utilmon-lab/varsel/pkg/utils/errutil"
)

// Service resolves the message configuration for a category. The underlying
// configuration is loaded once at process start and is read-only afterwards,
// so lookups need no locking.
type Service struct {
	configs map[types.Category]*message.Config
}

func New(configs []message.Config) (*Service, error) {
	m := make(map[types.Category]*message.Config, len(configs))
	for i := range configs {
		cfg := configs[i]
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		key := cfg.Category.Key()
		if _, ok := m[key]; ok {
			return nil, goerr.New("duplicate message config for category",
				goerr.TV(errutil.CategoryKey, cfg.Category))
		}
		m[key] = &cfg
	}
	return &Service{configs: m}, nil
}

// Empty returns a service with no configured categories, i.e. every
// category inactive.
func Empty() *Service {
	return &Service{configs: map[types.Category]*message.Config{}}
}

// Resolve returns the config for the category, nil when none is configured.
// Callers treat a missing config the same as an inactive one: no messages.
func (s *Service) Resolve(category types.Category) *message.Config {
	return s.configs[category.Key()]
}

// Active reports whether messaging is enabled for the category.
func (s *Service) Active(category types.Category) bool {
	cfg := s.Resolve(category)
	return cfg != nil && cfg.Active
}

// ActiveCategories returns the categories with messaging enabled.
func (s *Service) ActiveCategories() []types.Category {
	var active []types.Category
	for key, cfg := range s.configs {
		if cfg.Active {
			active = append(active, key)
		}
	}
	return active
}
