package notify

import (
	"context"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-scheduler/internal/config"
)

// NewEmailSender picks the provider named by EMAIL_PROVIDER and falls back to
// the stub when that provider is not configured.
func NewEmailSender(ctx context.Context, cfg *config.Config, logger *zap.Logger) EmailSender {
	switch cfg.EmailProvider {
	case "sendgrid":
		if s := NewSendGridSender(SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		}, logger); s != nil {
			return s
		}
		logger.Warn("sendgrid selected without SENDGRID_API_KEY, using stub sender")

	case "ses":
		opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.AWSRegion)}
		if cfg.AWSAccessKeyID != "" {
			opts = append(opts, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
			))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
		if err == nil {
			return NewSESSender(sesv2.NewFromConfig(awsCfg), SESConfig{
				FromEmail:        cfg.EmailFrom,
				FromName:         cfg.EmailFromName,
				ConfigurationSet: cfg.SESConfigurationSet,
			}, logger)
		}
		logger.Warn("failed to load aws config for SES, using stub sender", zap.Error(err))
	}

	return NewStubEmailSender(logger)
}
