package staticcmd

import (
	"context"
	"strings"

	command "github.com/goliatone/go-command"
)

// DefaultRebuildExpression is used when a scheduled build has no expression.
const DefaultRebuildExpression = "@hourly"

// ScheduledBuildHandler runs incremental builds on a cron schedule.
type ScheduledBuildHandler struct {
	build      *BuildSiteHandler
	cronConfig command.HandlerConfig
}

// NewScheduledBuildHandler binds build to expression.
func NewScheduledBuildHandler(build *BuildSiteHandler, expression string) *ScheduledBuildHandler {
	expression = strings.TrimSpace(expression)
	if expression == "" {
		expression = DefaultRebuildExpression
	}
	return &ScheduledBuildHandler{
		build:      build,
		cronConfig: command.HandlerConfig{Expression: expression},
	}
}

// Execute satisfies command.Commander[BuildSiteCommand].
func (h *ScheduledBuildHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.build.Execute(ctx, msg)
}

// CronHandler satisfies command.CronCommand.
func (h *ScheduledBuildHandler) CronHandler() func() error {
	return func() error {
		return h.Execute(context.Background(), BuildSiteCommand{})
	}
}

// CronOptions satisfies command.CronCommand.
func (h *ScheduledBuildHandler) CronOptions() command.HandlerConfig {
	return h.cronConfig
}
