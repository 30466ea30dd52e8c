package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ccollicutt/chatlens/pkg/analyzer"
	"github.com/ccollicutt/chatlens/pkg/chat"
	"github.com/ccollicutt/chatlens/pkg/sentiment"
	"github.com/ccollicutt/chatlens/pkg/stopwords"
)

// Load reads and validates a configuration file.
func Load(_ context.Context, path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadOrDefault loads path, or validates the defaults when path is empty.
func LoadOrDefault(ctx context.Context, path string) (*Config, error) {
	if path != "" {
		return Load(ctx, path)
	}

	cfg := DefaultConfig()
	cfg.applyEnvironmentOverrides()
	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Validate checks a configuration for errors, compiles grammars and loads
// the stop-word and lexicon files.
func Validate(cfg *Config) error {
	grammars := make([]*chat.Grammar, 0, len(cfg.Grammars)+4)
	for i := range cfg.Grammars {
		g, err := validateGrammar(&cfg.Grammars[i])
		if err != nil {
			return fmt.Errorf("grammars[%d] (%s): %w", i, cfg.Grammars[i].Name, err)
		}
		grammars = append(grammars, g)
	}
	cfg.compiledGrammars = append(grammars, chat.DefaultGrammars()...)

	if cfg.TopParticipants < 0 {
		return errors.New("top_participants: must not be negative")
	}
	if cfg.TopParticipants == 0 {
		cfg.TopParticipants = analyzer.DefaultTopParticipants
	}
	if cfg.TopWords < 0 {
		return errors.New("top_words: must not be negative")
	}
	if cfg.TopWords == 0 {
		cfg.TopWords = analyzer.DefaultTopWords
	}

	for i, p := range cfg.MediaPlaceholders {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("media_placeholders[%d]: must not be empty", i)
		}
	}

	cfg.stopWords = stopwords.New(cfg.StopWords...)
	if cfg.StopWordsFile != "" {
		fromFile, err := stopwords.Load(cfg.StopWordsFile)
		if err != nil {
			return fmt.Errorf("stop_words_file: %w", err)
		}
		cfg.stopWords = cfg.stopWords.Merge(fromFile)
	}

	cfg.lexicon = nil
	if cfg.Sentiment.LexiconFile != "" {
		lex, err := sentiment.LoadLexicon(cfg.Sentiment.LexiconFile)
		if err != nil {
			return fmt.Errorf("sentiment.lexicon_file: %w", err)
		}
		cfg.lexicon = lex
	}

	// Webhooks are optional, but validate if present
	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func validateGrammar(gc *GrammarConfig) (*chat.Grammar, error) {
	g, err := chat.NewGrammar(gc.Name, gc.Pattern, gc.Layouts, gc.Trim)
	if err != nil {
		return nil, err
	}
	if g.Pattern.NumSubexp() > 1 {
		return nil, errors.New("pattern must have at most one capture group for the timestamp")
	}
	return g, nil
}

func validateWebhook(wh *WebhookConfig) error {
	if wh.URL == "" {
		return errors.New("url is required")
	}

	// Validate URL format
	u, err := url.Parse(wh.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	if u.Host == "" {
		return errors.New("url must have a host")
	}

	// Expand environment variables in token
	wh.Token = expandEnvVar(wh.Token)

	switch wh.Trigger {
	case "":
		wh.Trigger = WebhookTriggerAlways
	case WebhookTriggerAlways, WebhookTriggerOnNullTimestamps, WebhookTriggerNever:
	default:
		return fmt.Errorf("invalid trigger %q (must be always, on_null_timestamps, or never)", wh.Trigger)
	}

	if wh.Timeout <= 0 {
		wh.Timeout = DefaultWebhookTimeout
	}

	return nil
}

// expandEnvVar expands environment variables in the format ${VAR} or $VAR.
func expandEnvVar(s string) string {
	if s == "" {
		return s
	}

	// Handle ${VAR} format
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return os.Getenv(s[2 : len(s)-1])
	}

	// Handle $VAR format (no braces)
	if strings.HasPrefix(s, "$") && !strings.HasPrefix(s, "${") {
		return os.Getenv(s[1:])
	}

	return s
}

// ParserOptions returns the chat parser options for this configuration.
func (c *Config) ParserOptions(logger *zap.Logger) []chat.Option {
	return []chat.Option{
		chat.WithGrammars(c.compiledGrammars...),
		chat.WithStrict(c.Strict),
		chat.WithLogger(logger),
	}
}

// AnalyzerOptions returns the analyzer options for this configuration.
func (c *Config) AnalyzerOptions(logger *zap.Logger) []analyzer.Option {
	opts := []analyzer.Option{
		analyzer.WithStopWords(c.stopWords),
		analyzer.WithMediaPlaceholders(c.MediaPlaceholders...),
		analyzer.WithTopParticipants(c.TopParticipants),
		analyzer.WithTopWords(c.TopWords),
		analyzer.WithLogger(logger),
	}
	if c.lexicon != nil {
		opts = append(opts, analyzer.WithScorer(sentiment.NewAnalyzer(sentiment.WithLexicon(c.lexicon))))
	}
	return opts
}
