package commands

import (
	"errors"
	"strings"

	staticcmd "github.com/goliatone/go-docsite/internal/commands/static"
	"github.com/goliatone/go-docsite/internal/di"
	command "github.com/goliatone/go-command"
)

// ErrNoHandlers is returned when the container exposes nothing to register.
var ErrNoHandlers = errors.New("no command handlers registered; ensure the generator is enabled")

// CommandRegistry records command handlers so hosts can expose them via CLI or cron.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// CommandDispatcher subscribes command handlers to a dispatcher implementation.
type CommandDispatcher interface {
	RegisterCommand(handler any) (CommandSubscription, error)
}

// CommandSubscription allows hosts to tear down dispatcher subscriptions.
type CommandSubscription interface {
	Unsubscribe()
}

// CronRegistrar registers command handlers with a cron scheduler.
type CronRegistrar func(command.HandlerConfig, any) error

// RegistrationOptions configures how handlers are registered during construction.
type RegistrationOptions struct {
	Registry      CommandRegistry
	Dispatcher    CommandDispatcher
	CronRegistrar CronRegistrar
	// RebuildCron overrides Config.Commands.RebuildCron. A scheduled build is
	// registered only when one of them is set and a cron registrar is present.
	RebuildCron string
}

// RegistrationResult captures the registered command handlers and any dispatcher subscriptions.
type RegistrationResult struct {
	Handlers      []any
	Subscriptions []CommandSubscription
}

// RegisterContainerCommands collects the static site handlers exposed by the
// container and registers them with the registry, dispatcher and cron
// integrations supplied in opts.
func RegisterContainerCommands(container *di.Container, opts RegistrationOptions) (*RegistrationResult, error) {
	result := &RegistrationResult{
		Handlers:      make([]any, 0),
		Subscriptions: make([]CommandSubscription, 0),
	}
	if container == nil {
		return result, nil
	}
	cfg := container.Config

	if opts.Registry != nil && opts.CronRegistrar != nil {
		if reg, ok := opts.Registry.(interface {
			SetCronRegister(func(command.HandlerConfig, any) error) *command.Registry
		}); ok && reg != nil {
			reg.SetCronRegister(opts.CronRegistrar)
		}
	}

	var errs error

	register := func(handler any) {
		if handler == nil {
			return
		}
		result.Handlers = append(result.Handlers, handler)

		if opts.Registry != nil {
			if err := opts.Registry.RegisterCommand(handler); err != nil {
				errs = errors.Join(errs, err)
			}
		}

		if opts.Dispatcher != nil {
			subscription, err := opts.Dispatcher.RegisterCommand(handler)
			if err != nil {
				errs = errors.Join(errs, err)
			} else if subscription != nil {
				result.Subscriptions = append(result.Subscriptions, subscription)
			}
		}

		if opts.CronRegistrar != nil {
			if cronCmd, ok := handler.(command.CronCommand); ok {
				if err := opts.CronRegistrar(cronCmd.CronOptions(), cronCmd.CronHandler()); err != nil {
					errs = errors.Join(errs, err)
				}
			}
		}
	}

	if cfg.Generator.Enabled {
		build := container.BuildSiteHandler()
		register(build)
		register(container.DiffSiteHandler())
		register(container.CleanSiteHandler())

		expression := strings.TrimSpace(opts.RebuildCron)
		if expression == "" {
			expression = strings.TrimSpace(cfg.Commands.RebuildCron)
		}
		if expression != "" && opts.CronRegistrar != nil {
			scheduled := staticcmd.NewScheduledBuildHandler(build, expression)
			result.Handlers = append(result.Handlers, scheduled)
			if err := opts.CronRegistrar(scheduled.CronOptions(), scheduled.CronHandler()); err != nil {
				errs = errors.Join(errs, err)
			}
		}
	}

	if len(result.Handlers) == 0 {
		return result, errors.Join(errs, ErrNoHandlers)
	}
	return result, errs
}
