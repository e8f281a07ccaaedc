package main

import (
	"context"
	"errors"
	"fmt"

	orchestration "github.com/koscakluka/ema-assist/core"
	"github.com/koscakluka/ema-assist/core/catalog"
	"github.com/koscakluka/ema-assist/core/records"
	"github.com/koscakluka/ema-assist/core/session"
	"github.com/koscakluka/ema-assist/core/store"
	"github.com/koscakluka/ema-assist/core/store/fraudcases"
	"github.com/koscakluka/ema-assist/core/store/jsonlog"
	"github.com/koscakluka/ema-assist/core/store/snapshot"
	"github.com/koscakluka/ema-assist/core/texttospeech"
	"github.com/koscakluka/ema-assist/core/texttospeech/deepgram"
	"github.com/koscakluka/ema-assist/core/world"
	"github.com/koscakluka/ema-assist/internal/config"
	"github.com/koscakluka/ema-assist/internal/logger"
)

const module = "main"

// runtime is everything a running orchestrator holds open.
type runtime struct {
	orchestrator *orchestration.Orchestrator
	pool         *store.Pool
	cases        *fraudcases.GormStore
}

func (r *runtime) Close() error {
	r.orchestrator.Close()
	r.pool.Close()
	return r.cases.Close()
}

func openFraudCases(ctx context.Context, cfg *config.Config, log logger.ILogger) (*fraudcases.GormStore, error) {
	cases, err := fraudcases.NewGormStore(cfg.Fraud.Driver, cfg.Fraud.DSN)
	if err != nil {
		return nil, err
	}
	if cfg.Fraud.Seed {
		seeded, err := cases.Seed(ctx, fraudcases.SampleCases())
		if err != nil {
			_ = cases.Close()
			return nil, fmt.Errorf("failed to seed fraud cases: %w", err)
		}
		log.Info(module, "seeded fraud cases", map[string]any{"count": seeded})
	}
	return cases, nil
}

func newTextToSpeech(cfg *config.Config, log logger.ILogger) (orchestration.TextToSpeech, error) {
	encodingInfo, err := cfg.EncodingInfo()
	if err != nil {
		return nil, err
	}
	client, err := deepgram.NewTextToSpeechClient(cfg.Speech.DeepgramAPIKey,
		deepgram.WithDefaultOptions(texttospeech.WithEncodingInfo(encodingInfo)),
	)
	if errors.Is(err, deepgram.ErrMissingAPIKey) {
		log.Warn(module, "no deepgram api key, utterances are only transcribed", nil)
		return texttospeech.NewTranscript(), nil
	} else if err != nil {
		return nil, err
	}
	return client, nil
}

func newRuntime(ctx context.Context, cfg *config.Config, log logger.ILogger) (*runtime, error) {
	voices, err := cfg.VoiceMap()
	if err != nil {
		return nil, err
	}
	textToSpeech, err := newTextToSpeech(cfg, log)
	if err != nil {
		return nil, err
	}
	cases, err := openFraudCases(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	pool := store.NewPool(store.WithWorkers(cfg.Store.Workers), store.WithTimeout(cfg.Store.Timeout))
	stores := session.Stores{
		DrinkOrders:   jsonlog.New[records.DrinkOrder](cfg.Store.DrinkOrders),
		GroceryOrders: jsonlog.New[records.GroceryOrder](cfg.Store.GroceryOrders),
		Leads:         jsonlog.New[records.Lead](cfg.Store.Leads),
		Cases:         cases,
		GameSave:      snapshot.New[world.State](cfg.Store.GameSave),
	}

	orchestrator := orchestration.NewOrchestrator(
		orchestration.WithCatalog(catalog.Load(ctx, cfg.CatalogPaths())),
		orchestration.WithStores(stores),
		orchestration.WithPool(pool),
		orchestration.WithVoices(voices),
		orchestration.WithTextToSpeechClient(textToSpeech),
		orchestration.WithConversationTTL(cfg.Conversation.TTL),
		orchestration.WithEventHandler(logger.EventHandler(log)),
	)
	return &runtime{orchestrator: orchestrator, pool: pool, cases: cases}, nil
}
