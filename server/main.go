package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/meikuraledutech/botflow"
	"github.com/meikuraledutech/botflow/config"
	"github.com/meikuraledutech/botflow/engine"
	"github.com/meikuraledutech/botflow/memstore"
	"github.com/meikuraledutech/botflow/pdftext"
	"github.com/meikuraledutech/botflow/postgres"
)

func main() {
	_ = godotenv.Load()

	cfgPath := os.Getenv("BOTFLOW_CONFIG")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Workflows live in postgres when DATABASE_URL is set, in memory
	// otherwise.
	var store botflow.Store = memstore.New()
	var pg *postgres.PGStore
	if dbURL := config.MustResolveSecret("DATABASE_URL"); dbURL != "" {
		pool, err := pgxpool.New(context.Background(), dbURL)
		if err != nil {
			log.Fatalf("connect: %v", err)
		}
		defer pool.Close()
		pg = postgres.New(pool)
		store = pg
	}

	ttsEndpoint := cfg.TTS.Endpoint
	if ttsEndpoint == "" {
		// The text2speech bot calls back into this server's proxy.
		ttsEndpoint = fmt.Sprintf("http://localhost:%d/api/tts", cfg.Port())
	}
	deps := &engine.Deps{
		HTTP: &http.Client{Timeout: cfg.CallTimeout()},
		Chat: engine.ChatConfig{
			Endpoint:  cfg.Chat.Endpoint,
			Model:     cfg.Chat.Model,
			APIKey:    config.MustResolveSecret("OPENAI_API_KEY"),
			MaxTokens: cfg.Chat.MaxTokens,
		},
		Image: engine.ImageConfig{BaseURL: cfg.Image.BaseURL},
		TTS: engine.TTSConfig{
			Endpoint:     ttsEndpoint,
			Model:        cfg.TTS.Model,
			Voice:        cfg.TTS.Voice,
			OutputFormat: cfg.TTS.OutputFormat,
			Speed:        cfg.TTS.Speed,
			SampleRate:   cfg.TTS.SampleRate,
			Language:     cfg.TTS.Language,
		},
		PDF: pdftext.New(),
	}
	runner := engine.NewRunner(deps)

	secrets := ttsSecrets{
		Key:    config.MustResolveSecret("PLAYHT_KEY"),
		UserID: config.MustResolveSecret("PLAYHT_USERID"),
	}

	app := newApp(store, pg, runner, cfg, secrets)
	log.Fatal(app.Listen(fmt.Sprintf(":%d", cfg.Port())))
}
