// Package config provides configuration loading and validation for chatlens.
package config

import (
	"time"

	"github.com/ccollicutt/chatlens/pkg/chat"
	"github.com/ccollicutt/chatlens/pkg/sentiment"
	"github.com/ccollicutt/chatlens/pkg/stopwords"
)

// Config is the root analysis configuration loaded from YAML.
type Config struct {
	// Grammars are extra timestamp grammars, tried before the built-in ones.
	Grammars []GrammarConfig `yaml:"grammars,omitempty"`

	// Strict fails the parse on the first unparseable timestamp instead of
	// keeping the row with a null timestamp.
	Strict bool `yaml:"strict"`

	// MediaPlaceholders replaces the built-in media placeholder bodies.
	MediaPlaceholders []string `yaml:"media_placeholders,omitempty"`

	// StopWordsFile is a whitespace-delimited stop-word list.
	StopWordsFile string `yaml:"stop_words_file,omitempty"`

	// StopWords are added to the words read from StopWordsFile.
	StopWords []string `yaml:"stop_words,omitempty"`

	// TopParticipants limits the busiest participants list.
	TopParticipants int `yaml:"top_participants"`

	// TopWords limits the vocabulary frequency table.
	TopWords int `yaml:"top_words"`

	Sentiment SentimentConfig `yaml:"sentiment"`
	Webhooks  []WebhookConfig `yaml:"webhooks,omitempty"`

	// Populated during validation.
	compiledGrammars []*chat.Grammar
	stopWords        stopwords.Set
	lexicon          sentiment.Lexicon
}

// CompiledGrammars returns the configured grammars followed by the built-ins.
func (c *Config) CompiledGrammars() []*chat.Grammar {
	return c.compiledGrammars
}

// StopWordSet returns the merged stop-word set.
func (c *Config) StopWordSet() stopwords.Set {
	return c.stopWords
}

// Lexicon returns the sentiment lexicon loaded from Sentiment.LexiconFile,
// or nil to use the built-in one.
func (c *Config) Lexicon() sentiment.Lexicon {
	return c.lexicon
}

// GrammarConfig describes a timestamp grammar for an export flavour.
type GrammarConfig struct {
	Name string `yaml:"name"`

	// Pattern is a regex matching one message delimiter. If it has a capture
	// group, group 1 is the timestamp.
	Pattern string `yaml:"pattern"`

	// Layouts are Go time layouts tried in order.
	// See https://pkg.go.dev/time#pkg-constants for format.
	Layouts []string `yaml:"layouts"`

	// Trim is a cutset stripped from the captured timestamp, e.g. "[]".
	Trim string `yaml:"trim,omitempty"`
}

// SentimentConfig configures the sentiment scorer.
type SentimentConfig struct {
	// LexiconFile is a tab-separated token/valence file replacing the
	// built-in lexicon.
	LexiconFile string `yaml:"lexicon_file,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerAlways fires after every analysis (default).
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerOnNullTimestamps fires only when some timestamps could not be parsed.
	WebhookTriggerOnNullTimestamps WebhookTrigger = "on_null_timestamps"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a dashboard endpoint that receives reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "always" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
