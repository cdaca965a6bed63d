package handler

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"trendcheck-go/internal/service"
	"trendcheck-go/pkg/logger"
)

// Controller exposes keyword generation and scoring over HTTP.
type Controller struct {
	generator service.GeneratorService
	scoring   service.ScoringService
	log       *logger.Logger
}

func NewController(generator service.GeneratorService, scoring service.ScoringService) *Controller {
	return &Controller{
		generator: generator,
		scoring:   scoring,
		log:       logger.GetLogger().Component("http"),
	}
}

// Register mounts all routes on the app.
func (c *Controller) Register(app *fiber.App) {
	app.Get("/health", c.health)

	api := app.Group("/api/v1/keywords")
	api.Post("/generate", c.generate)
	api.Post("/score", c.score)
	api.Post("/analyze", c.analyze)
}

func (c *Controller) health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

type generateRequest struct {
	Keyword string `json:"keyword"`
}

func (c *Controller) generate(ctx *fiber.Ctx) error {
	var req generateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Keyword == "" {
		return fiber.NewError(fiber.StatusBadRequest, "keyword is required")
	}

	permutations := c.generator.Generate(req.Keyword)
	c.log.WithFields(map[string]interface{}{
		"keyword": req.Keyword,
		"count":   len(permutations),
	}).Debug("Generated keyword permutations")

	return ctx.JSON(fiber.Map{
		"keyword":      req.Keyword,
		"count":        len(permutations),
		"permutations": permutations,
	})
}

type scoreRequest struct {
	Keywords []string `json:"keywords"`
}

func (c *Controller) score(ctx *fiber.Ctx) error {
	var req scoreRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if len(req.Keywords) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "keywords are required")
	}

	results := c.scoring.ScoreKeywords(req.Keywords)
	return ctx.JSON(fiber.Map{
		"count":   len(results),
		"results": results,
	})
}

type analyzeRequest struct {
	Keyword string `json:"keyword"`
}

func (c *Controller) analyze(ctx *fiber.Ctx) error {
	var req analyzeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Keyword == "" {
		return fiber.NewError(fiber.StatusBadRequest, "keyword is required")
	}

	return ctx.JSON(c.scoring.AnalyzeKeyword(req.Keyword))
}
