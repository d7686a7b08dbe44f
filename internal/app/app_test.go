package app

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ReviewTriage/internal/config"
	"ReviewTriage/internal/domain"
	"ReviewTriage/internal/infrastructure/llm"
	"ReviewTriage/internal/infrastructure/notify"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestProfiles(t *testing.T) {
	got := Profiles([]config.SourceConfig{
		{Name: "Twitter", Scanner: config.ScannerTwitter, Query: "devrev", Label: "Twitter tweet", Noun: "tweet", MaxCount: 50, DetectAI: true},
		{Name: "ios", Scanner: config.ScannerAppStore, AppID: "123", Query: "ignored", Noun: "review"},
	})

	require.Len(t, got, 2)
	assert.Equal(t, "twitter", got[0].Name)
	assert.Equal(t, "devrev", got[0].DomainContext)
	assert.True(t, got[0].DetectAI)
	assert.Equal(t, 50, got[0].MaxCount)
	assert.Equal(t, "123", got[1].DomainContext)
}

func TestTicketDefaultsDropsUnknownCategories(t *testing.T) {
	got := TicketDefaults(config.TicketConfig{
		Owner:    "DEVU-1",
		Part:     "PROD-1",
		WorkType: "ticket",
		Tags: map[string]string{
			"bug":             "TAG-1",
			"Feature_Request": "TAG-2",
			"praise":          "TAG-3",
			"question":        "",
		},
	})

	assert.Equal(t, map[domain.Category]string{
		domain.CategoryBug:            "TAG-1",
		domain.CategoryFeatureRequest: "TAG-2",
	}, got.Tags)
	assert.Equal(t, "DEVU-1", got.Owner)
}

func TestNewOracleProviders(t *testing.T) {
	ctx := context.Background()

	none, err := newOracle(ctx, config.LLMConfig{Provider: "openai"})
	require.NoError(t, err)
	assert.Nil(t, none)

	openai, err := newOracle(ctx, config.LLMConfig{Provider: "openai", APIKey: "k", Endpoint: "http://x", Model: "m"})
	require.NoError(t, err)
	assert.IsType(t, &llm.ChatGPTClient{}, openai)

	gemini, err := newOracle(ctx, config.LLMConfig{Provider: "Gemini", APIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &llm.GeminiClient{}, gemini)

	_, err = newOracle(ctx, config.LLMConfig{Provider: "bard", APIKey: "k"})
	assert.Error(t, err)
}

type nopNotifier struct{}

func (nopNotifier) Post(context.Context, domain.Message) (string, error) { return "1", nil }

func TestProgressChannel(t *testing.T) {
	logger := discard()

	assert.Nil(t, progressChannel(nil, nil, logger))
	assert.Equal(t, nopNotifier{}, progressChannel(nopNotifier{}, nil, logger))
	assert.Equal(t, nopNotifier{}, progressChannel(nil, nopNotifier{}, logger))
	assert.IsType(t, &notify.FanOut{}, progressChannel(nopNotifier{}, nopNotifier{}, logger))
}

func TestNewWithoutCredentials(t *testing.T) {
	cfg := config.LoadFile("")
	cfg.LLM.APIKey = ""
	cfg.DevRev.Token = ""
	cfg.Telegram.BotToken = ""

	application, err := New(context.Background(), cfg, discard())
	require.NoError(t, err)

	sources := application.Sources()
	require.Len(t, sources, 1)
	assert.Equal(t, "playstore", sources[0].Name)

	report, err := application.Run(context.Background(), "PlayStore", "help")
	require.NoError(t, err)
	assert.True(t, report.Help)

	_, err = application.Run(context.Background(), "unknown", "")
	assert.Error(t, err)
	assert.Error(t, application.Watch(context.Background(), "unknown", ""))
}
