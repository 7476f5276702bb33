package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/m-mizutani/gollem/llm/openai"
	"github.com/secmon-lab/smartminutes/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"

	// DefaultGeminiModel is used when --llm-model is not given
	DefaultGeminiModel = "gemini-2.5-flash"
)

// LLM holds configuration for the LLM client used by AI features
type LLM struct {
	provider  string
	projectID string
	location  string
	apiKey    string
	model     string
}

// Flags returns CLI flags for LLM configuration
func (x *LLM) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "llm-provider",
			Usage:       "LLM provider (gemini, openai, claude)",
			Value:       ProviderGemini,
			Category:    "LLM",
			Sources:     cli.EnvVars("SMARTMINUTES_LLM_PROVIDER"),
			Destination: &x.provider,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini on Vertex AI; authenticates with Application Default Credentials (--llm-api-key is not used)",
			Category:    "LLM",
			Sources:     cli.EnvVars("SMARTMINUTES_GEMINI_PROJECT"),
			Destination: &x.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini API",
			Value:       "us-central1",
			Category:    "LLM",
			Sources:     cli.EnvVars("SMARTMINUTES_GEMINI_LOCATION"),
			Destination: &x.location,
		},
		&cli.StringFlag{
			Name:        "llm-api-key",
			Usage:       "API key for the openai or claude provider",
			Category:    "LLM",
			Sources:     cli.EnvVars("SMARTMINUTES_LLM_API_KEY"),
			Destination: &x.apiKey,
		},
		&cli.StringFlag{
			Name:        "llm-model",
			Usage:       "Model name (provider default if empty)",
			Category:    "LLM",
			Sources:     cli.EnvVars("SMARTMINUTES_LLM_MODEL"),
			Destination: &x.model,
		},
	}
}

// LogAttrs returns log attributes for the LLM configuration
func (x *LLM) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("provider", x.provider),
		slog.String("project_id", x.projectID),
		slog.String("location", x.location),
		slog.Bool("api_key_set", x.apiKey != ""),
		slog.String("model", x.model),
	}
}

// Configure creates the LLM client for the selected provider. It returns
// nil when the provider's credential is not set; AI features are then
// disabled while storage keeps working.
func (x *LLM) Configure(ctx context.Context) (gollem.LLMClient, error) {
	switch x.provider {
	case "", ProviderGemini:
		if x.projectID == "" {
			if x.apiKey != "" {
				logging.Default().Warn("gemini provider ignores --llm-api-key; set --gemini-project and Application Default Credentials to enable AI features")
			}
			return nil, nil
		}
		model := x.model
		if model == "" {
			model = DefaultGeminiModel
		}
		client, err := gemini.New(ctx, x.projectID, x.location, gemini.WithModel(model))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Gemini client")
		}
		return client, nil

	case ProviderOpenAI:
		if x.apiKey == "" {
			return nil, nil
		}
		var opts []openai.Option
		if x.model != "" {
			opts = append(opts, openai.WithModel(x.model))
		}
		client, err := openai.New(ctx, x.apiKey, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create OpenAI client")
		}
		return client, nil

	case ProviderClaude:
		if x.apiKey == "" {
			return nil, nil
		}
		var opts []claude.Option
		if x.model != "" {
			opts = append(opts, claude.WithModel(x.model))
		}
		client, err := claude.New(ctx, x.apiKey, opts...)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create Claude client")
		}
		return client, nil

	default:
		return nil, goerr.Wrap(ErrInvalidProvider, "unknown LLM provider", goerr.V(ProviderKey, x.provider))
	}
}
