package usecase

import (
	"github.com/utilmon-lab/varsel/pkg/domain/interfaces"
	"github.com/utilmon-lab/varsel/pkg/service/notifier"
	"github.com/utilmon-lab/varsel/pkg/service/opsnotify"
	"github.com/utilmon-lab/varsel/pkg/service/templates"
)

type UseCases struct {
	// services and adapters
	repository interfaces.Repository
	gateway    interfaces.MessagingGateway
	templates  *templates.Service
	ops        interfaces.OpsNotifier

	dispatcher *notifier.Dispatcher
}

type Option func(*UseCases)

func WithRepository(repo interfaces.Repository) Option {
	return func(u *UseCases) {
		u.repository = repo
	}
}

func WithMessagingGateway(gateway interfaces.MessagingGateway) Option {
	return func(u *UseCases) {
		u.gateway = gateway
	}
}

func WithTemplates(svc *templates.Service) Option {
	return func(u *UseCases) {
		u.templates = svc
	}
}

func WithOpsNotifier(ops interfaces.OpsNotifier) Option {
	return func(u *UseCases) {
		u.ops = ops
	}
}

func New(opts ...Option) *UseCases {
	uc := &UseCases{}
	for _, opt := range opts {
		opt(uc)
	}

	if uc.templates == nil {
		uc.templates = templates.Empty()
	}
	if uc.ops == nil {
		uc.ops = opsnotify.NewConsole()
	}
	uc.dispatcher = notifier.New(uc.repository, uc.gateway, uc.templates, uc.ops)

	return uc
}
