package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/GlebRadaev/coinreport/internal/aggregator"
	"github.com/GlebRadaev/coinreport/internal/config"
	"github.com/GlebRadaev/coinreport/internal/domain"
	"github.com/GlebRadaev/coinreport/internal/journal"
	"github.com/GlebRadaev/coinreport/internal/notify"
	"github.com/GlebRadaev/coinreport/internal/report"
	"github.com/GlebRadaev/coinreport/internal/rewards"
	"github.com/GlebRadaev/coinreport/pkg/clients"
	"github.com/GlebRadaev/coinreport/pkg/logger"
)

// ErrorTitle is used for the notification sent when a run fails unexpectedly.
const ErrorTitle = "脚本异常"

const defaultLogLvl = "info"

type Application struct {
	cfg      *config.Config
	creds    []domain.Credential
	journal  *journal.Journal
	agg      *aggregator.Service
	renderer *report.Renderer
	notifier notify.Notifier

	stdout io.Writer
	now    func() time.Time
}

func New() *Application {
	return &Application{
		stdout: os.Stdout,
		now:    time.Now,
	}
}

// Start loads configuration and wires every component. It fails with
// config.ErrNoCredentials before any request is made when nothing usable is configured.
func (a *Application) Start(ctx context.Context) error {
	cfg := config.New()

	if err := initLogger(cfg); err != nil {
		return fmt.Errorf("can't init logger: %w", err)
	}

	return a.init(cfg, clients.NewHTTPClient(), notify.FromConfig(cfg))
}

// initLogger falls back to info on an unsupported level so a typo in LOG_LVL does not
// stop the run.
func initLogger(cfg *config.Config) error {
	err := logger.InitLogger(cfg)
	if err == nil {
		return nil
	}

	requested := cfg.LogLvl
	cfg.LogLvl = defaultLogLvl
	if err := logger.InitLogger(cfg); err != nil {
		return err
	}
	zap.L().Warn("unsupported log level, using info", zap.String("requested", requested), zap.Error(err))
	return nil
}

func (a *Application) init(cfg *config.Config, client clients.HTTPClientI, notifier notify.Notifier) error {
	a.cfg = cfg
	a.journal = journal.New(a.stdout)

	raw, err := cfg.Credentials()
	if err != nil {
		a.journal.Log(journal.Error, "【错误】", "未配置有效Cookie，环境变量ksck格式：cookie1&cookie2")
		return fmt.Errorf("can't load credentials: %w", err)
	}
	a.creds = make([]domain.Credential, len(raw))
	for i, c := range raw {
		a.creds[i] = domain.Credential(c)
	}

	a.agg = aggregator.New(cfg, rewards.New(cfg, client))
	a.renderer = report.New("")
	a.notifier = notifier

	zap.L().Info("application ready", zap.Int("accounts", len(a.creds)), zap.Int("workers", cfg.Workers))
	return nil
}

// Run performs one pass over all accounts and sends the report. Per-account failures and
// notification failures never abort it; an unexpected failure sends the journal instead.
func (a *Application) Run(ctx context.Context) (results []domain.AccountResult) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("run aborted", zap.Any("panic", r))
			a.fail(ctx, fmt.Errorf("%v", r))
		}
	}()

	a.journal.Started(a.now(), len(a.creds))

	results = a.agg.Run(ctx, a.creds, a.journal.Account)

	a.journal.Finished(len(results))

	body, err := a.renderer.Render(a.agg.Today(), results)
	if err != nil {
		a.fail(ctx, err)
		return results
	}

	notify.Deliver(ctx, a.notifier, a.cfg.Title, body)
	return results
}

func (a *Application) fail(ctx context.Context, err error) {
	a.journal.Failed(err)
	notify.Deliver(ctx, a.notifier, ErrorTitle, a.journal.String())
}
