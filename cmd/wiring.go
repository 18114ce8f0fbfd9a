package cmd

import (
	"context"
	"fmt"
	"log/slog"

	appdist "drive-share/application/distribution"
	appnotif "drive-share/application/notification"
	"drive-share/domain/notification"
	"drive-share/domain/product"
	"drive-share/infrastructure/config"
	"drive-share/infrastructure/drive"
	"drive-share/infrastructure/gmail"
	"drive-share/infrastructure/metrics"
	"drive-share/infrastructure/resilience"
)

// productStack bundles the collaborators every drive command needs
type productStack struct {
	properties *config.PropertyFile
	settings   *product.Settings
	factory    *drive.Factory
	executor   *resilience.Executor
	recorder   *metrics.Recorder
	logger     *slog.Logger
}

func newProductStack(cfg *config.Config, log *slog.Logger) (*productStack, error) {
	props, err := config.LoadProperties(cfg.PropertiesFile)
	if err != nil {
		return nil, err
	}
	settings := product.NewSettings(props)

	policy := resilience.DefaultConfig()
	policy.Attempts = cfg.Retry.Attempts
	policy.BreakerEnabled = cfg.Retry.BreakerEnabled

	return &productStack{
		properties: props,
		settings:   settings,
		factory:    drive.NewFactory(settings, drive.WithApplicationName(cfg.Drive.ApplicationName)),
		executor:   resilience.NewExecutor(policy, log),
		recorder:   metrics.NewRecorder(),
		logger:     log,
	}, nil
}

// notifier builds the share email service on top of sender
func (s *productStack) notifier(sender notification.EmailSender) *appnotif.Service {
	return appnotif.NewService(sender, s.settings,
		appnotif.WithExecutor(s.executor),
		appnotif.WithObserver(s.recorder),
		appnotif.WithLogger(s.logger),
	)
}

// uploadService builds the upload workflow. notifier may be nil for
// commands that never send email.
func (s *productStack) uploadService(collaborator string, notifier notification.ShareNotifier) *appdist.UploadService {
	return appdist.NewUploadService(s.factory, s.settings, notifier,
		appdist.WithSweeper(appdist.NewSweeper(s.logger)),
		appdist.WithFolderResolver(appdist.NewFolderResolver(collaborator, s.logger)),
		appdist.WithExecutor(s.executor),
		appdist.WithObserver(s.recorder),
		appdist.WithLogger(s.logger),
	)
}

// flushMetrics writes the run's metrics when a textfile is configured
func (s *productStack) flushMetrics(path string) {
	if err := s.recorder.WriteTextfile(path); err != nil {
		s.logger.Warn("metrics_write_failed", "path", path, "error", err)
	}
}

func newGmailSender(ctx context.Context, cfg *config.Config) (*gmail.Client, error) {
	client, err := gmail.NewClientWithOAuth(ctx, gmail.OAuthConfig{
		CredentialsFile: cfg.Email.CredentialsFile,
		TokenFile:       cfg.Email.TokenFile,
		From: notification.Recipient{
			Name:    cfg.Email.FromName,
			Address: cfg.Email.FromAddress,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gmail client: %w", err)
	}
	return client, nil
}
