package mainconfig

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "github.com/wolfman30/flight-intent/internal/config"
	"github.com/wolfman30/flight-intent/internal/extraction"
	"github.com/wolfman30/flight-intent/internal/llm"
	"github.com/wolfman30/flight-intent/internal/nlp"
	"github.com/wolfman30/flight-intent/pkg/logging"
)

// LoadAWSConfig centralizes AWS SDK initialization so every binary shares the
// same LocalStack/production wiring.
func LoadAWSConfig(ctx context.Context, cfg *appconfig.Config) (aws.Config, error) {
	loaders := []func(*config.LoadOptions) error{config.WithRegion(cfg.AWSRegion)}
	if strings.TrimSpace(cfg.AWSAccessKeyID) != "" && strings.TrimSpace(cfg.AWSSecretAccessKey) != "" {
		loaders = append(loaders, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, loaders...)
	if err != nil {
		return aws.Config{}, err
	}

	if endpoint := cfg.AWSEndpointOverride; endpoint != "" {
		awsCfg.EndpointResolverWithOptions = aws.EndpointResolverWithOptionsFunc(
			func(service, region string, _ ...interface{}) (aws.Endpoint, error) {
				switch service {
				case s3.ServiceID, bedrockruntime.ServiceID:
					return aws.Endpoint{
						URL:           endpoint,
						PartitionID:   "aws",
						SigningRegion: cfg.AWSRegion,
					}, nil
				default:
					return aws.Endpoint{}, &aws.EndpointNotFoundError{}
				}
			},
		)
	}

	return awsCfg, nil
}

// NewS3Client builds the archive bucket client. LocalStack needs path-style
// addressing.
func NewS3Client(awsCfg aws.Config, cfg *appconfig.Config) *s3.Client {
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.AWSEndpointOverride != ""
	})
}

// NewLLMClient builds the passenger-count client from LLM_PROVIDER and
// LLM_FALLBACK_PROVIDER. It returns a nil client when the provider is "none".
// The returned cleanup func is always safe to call.
func NewLLMClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (llm.Client, func(), error) {
	var closers []func()
	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}

	primary, closePrimary, err := newProvider(ctx, cfg, cfg.LLMProvider)
	if err != nil {
		return nil, cleanup, fmt.Errorf("llm provider %q: %w", cfg.LLMProvider, err)
	}
	if primary == nil {
		return nil, cleanup, nil
	}
	closers = append(closers, closePrimary)

	client := primary
	if fb := cfg.LLMFallbackProvider; fb != "" && fb != "none" && fb != cfg.LLMProvider {
		fallback, closeFallback, err := newProvider(ctx, cfg, fb)
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("llm fallback provider %q: %w", fb, err)
		}
		if fallback != nil {
			closers = append(closers, closeFallback)
			client = llm.NewFallbackClient(primary, fallback, logger)
		}
	}

	logger.Info("llm passenger strategy enabled",
		"provider", cfg.LLMProvider,
		"fallback", cfg.LLMFallbackProvider,
		"cache_size", cfg.PassengerCacheSize,
	)
	return llm.NewCachedClient(client, cfg.PassengerCacheSize, cfg.PassengerCacheTTL), cleanup, nil
}

func newProvider(ctx context.Context, cfg *appconfig.Config, name string) (llm.Client, func(), error) {
	noop := func() {}
	switch name {
	case "", "none":
		return nil, noop, nil
	case "groq":
		c, err := llm.NewGroqClient(cfg.GroqAPIKey, cfg.GroqBaseURL, cfg.LLMModel)
		if err != nil {
			return nil, noop, err
		}
		return c, noop, nil
	case "gemini":
		c, err := llm.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModelID)
		if err != nil {
			return nil, noop, err
		}
		return c, func() { _ = c.Close() }, nil
	case "bedrock":
		if strings.TrimSpace(cfg.BedrockModelID) == "" {
			return nil, noop, errors.New("BEDROCK_MODEL_ID is required")
		}
		awsCfg, err := LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, noop, fmt.Errorf("load aws config: %w", err)
		}
		return llm.NewBedrockClient(bedrockruntime.NewFromConfig(awsCfg), cfg.BedrockModelID), noop, nil
	default:
		return nil, noop, errors.New("unknown provider")
	}
}

// NewExtractor assembles the slot extractor the binaries share.
func NewExtractor(cfg *appconfig.Config, logger *logging.Logger, client llm.Client, opts ...extraction.Option) *extraction.Extractor {
	base := []extraction.Option{extraction.WithLogger(logger)}
	if cfg.UseNER {
		base = append(base, extraction.WithEntityRecognizer(nlp.NewProseRecognizer(logger)))
	}
	if client != nil {
		// Each provider was built with its own model id.
		base = append(base, extraction.WithLLM(client, "", cfg.LLMTimeout))
	}
	return extraction.New(append(base, opts...)...)
}
