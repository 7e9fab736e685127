package main

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"github.com/meikuraledutech/botflow"
	"github.com/meikuraledutech/botflow/config"
	"github.com/meikuraledutech/botflow/engine"
	"github.com/meikuraledutech/botflow/postgres"
)

// ttsSecrets are the upstream credentials the proxy attaches so the
// browser never sees them.
type ttsSecrets struct {
	Key    string
	UserID string
}

func newApp(store botflow.Store, pg *postgres.PGStore, runner *engine.Runner, cfg *config.Config, secrets ttsSecrets) *fiber.App {
	app := fiber.New()
	upstream := &http.Client{Timeout: cfg.CallTimeout()}

	// ── Schema (postgres only) ────────────────────────────────────────
	app.Post("/schema", func(c fiber.Ctx) error {
		if pg == nil {
			return c.Status(409).JSON(fiber.Map{"error": "no database configured"})
		}
		if err := pg.CreateSchema(c.Context()); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "schema created"})
	})

	app.Delete("/schema", func(c fiber.Ctx) error {
		if pg == nil {
			return c.Status(409).JSON(fiber.Map{"error": "no database configured"})
		}
		if err := pg.DropSchema(c.Context()); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(fiber.Map{"message": "schema dropped"})
	})

	// ── Workflows ─────────────────────────────────────────────────────
	app.Put("/workflows/:name", func(c fiber.Ctx) error {
		doc, err := botflow.FromDocument(c.Body())
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		for _, n := range doc.Nodes {
			if n.Type != botflow.NodeBot {
				continue
			}
			if err := botflow.ValidateConfig(n.Data.BotID, n.Data.Config); err != nil {
				return c.Status(400).JSON(fiber.Map{"error": err.Error()})
			}
		}
		if err := store.SaveWorkflow(c.Context(), c.Params("name"), doc); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(204)
	})

	app.Get("/workflows/:name", func(c fiber.Ctx) error {
		doc, err := store.LoadWorkflow(c.Context(), c.Params("name"))
		if errors.Is(err, botflow.ErrWorkflowNotFound) {
			return c.Status(404).JSON(fiber.Map{"error": "workflow not found"})
		}
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(doc)
	})

	app.Delete("/workflows/:name", func(c fiber.Ctx) error {
		if err := store.DeleteWorkflow(c.Context(), c.Params("name")); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.SendStatus(204)
	})

	app.Get("/workflows", func(c fiber.Ctx) error {
		names, err := store.ListWorkflows(c.Context())
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(names)
	})

	// ── Execution ─────────────────────────────────────────────────────
	app.Post("/run", func(c fiber.Ctx) error {
		doc, err := botflow.FromDocument(c.Body())
		if err != nil {
			return c.Status(400).JSON(fiber.Map{"error": err.Error()})
		}
		// Each request runs over its own graph; concurrent runs never
		// share state.
		g := doc.Graph()
		if _, err := runner.Run(c.Context(), g); err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(botflow.ToDocument(g))
	})

	// ── TTS proxy ─────────────────────────────────────────────────────
	app.Post("/api/tts", func(c fiber.Ctx) error {
		req, err := http.NewRequestWithContext(c.Context(), http.MethodPost,
			cfg.TTSUpstream(), bytes.NewReader(c.Body()))
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		req.Header.Set("AUTHORIZATION", secrets.Key)
		req.Header.Set("X-USER-ID", secrets.UserID)
		req.Header.Set("Content-Type", "application/json")

		resp, err := upstream.Do(req)
		if err != nil {
			log.Printf("tts proxy: %v", err)
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": err.Error()})
		}
		c.Set("Content-Type", "application/json")
		return c.Status(resp.StatusCode).Send(body)
	})

	app.Get("/api/hello", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "Hello from the proxy server!"})
	})

	return app
}
