// Package api implements the calculator's REST API.
package api

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"golang.org/x/sync/errgroup"

	"github.com/lemonberrylabs/shuntcalc/pkg/config"
	"github.com/lemonberrylabs/shuntcalc/pkg/keypad"
	"github.com/lemonberrylabs/shuntcalc/pkg/shunt"
)

// Server is the HTTP API server.
type Server struct {
	app *fiber.App
	cfg config.Config
}

// Option configures a Server.
type Option func(*fiber.App)

// WithAccessLog enables per-request access logging.
func WithAccessLog() Option {
	return func(app *fiber.App) {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${status} ${method} ${path} ${latency}\n",
		}))
	}
}

// New creates a new API server.
func New(cfg config.Config, opts ...Option) *Server {
	srv := &Server{cfg: cfg}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})
	app.Use(recover.New())
	for _, opt := range opts {
		opt(app)
	}

	app.Get("/healthz", srv.health)
	app.Post("/v1/solve", srv.solve)
	app.Post("/v1/solve\\:batch", srv.solveBatch)
	app.Post("/v1/postfix", srv.postfix)
	app.Post("/v1/tokens", srv.tokens)
	app.Post("/v1/keypad", srv.press)

	srv.app = app
	return srv
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app (useful for testing and for mounting
// the web UI).
func (s *Server) App() *fiber.App {
	return s.app
}

type expressionRequest struct {
	Expression string `json:"expression"`
}

type batchRequest struct {
	Expressions []string `json:"expressions"`
}

type keypadRequest struct {
	Display string `json:"display"`
	Key     string `json:"key"`
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

func (s *Server) solve(c *fiber.Ctx) error {
	expr, rerr := s.readExpression(c)
	if rerr != nil {
		return rerr.write(c)
	}

	v, err := shunt.Solve(expr)
	if err != nil {
		return evalError(c, err)
	}
	return c.JSON(resultBody(expr, v))
}

func (s *Server) postfix(c *fiber.Ctx) error {
	expr, rerr := s.readExpression(c)
	if rerr != nil {
		return rerr.write(c)
	}

	tokens, err := shunt.ShuntString(expr)
	if err != nil {
		return evalError(c, err)
	}
	lexemes := make([]string, len(tokens))
	for i, tok := range tokens {
		lexemes[i] = tok.String()
	}
	return c.JSON(fiber.Map{
		"expression": expr,
		"postfix":    lexemes,
	})
}

func (s *Server) tokens(c *fiber.Ctx) error {
	expr, rerr := s.readExpression(c)
	if rerr != nil {
		return rerr.write(c)
	}

	scanned := shunt.Scan(expr)
	items := make([]fiber.Map, len(scanned))
	for i, tok := range scanned {
		items[i] = fiber.Map{
			"kind": tok.Kind.String(),
			"text": tok.Text,
			"pos":  tok.Pos,
		}
	}
	return c.JSON(fiber.Map{"tokens": items})
}

func (s *Server) solveBatch(c *fiber.Ctx) error {
	var req batchRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidArgument(fmt.Sprintf("invalid request body: %v", err)).write(c)
	}
	if len(req.Expressions) == 0 {
		return invalidArgument("expressions is required").write(c)
	}
	if len(req.Expressions) > s.cfg.BatchLimit {
		return invalidArgument(fmt.Sprintf("batch exceeds maximum of %d expressions", s.cfg.BatchLimit)).write(c)
	}
	for i, expr := range req.Expressions {
		if len(expr) > s.cfg.MaxExpressionLength {
			return invalidArgument(fmt.Sprintf("expression %d exceeds maximum length of %d characters", i, s.cfg.MaxExpressionLength)).write(c)
		}
	}

	results := make([]fiber.Map, len(req.Expressions))
	g, ctx := errgroup.WithContext(c.UserContext())
	g.SetLimit(s.cfg.Workers)
	for i, expr := range req.Expressions {
		expr = keypad.Normalize(expr)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = solveOne(expr)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"results": results})
}

func solveOne(expr string) fiber.Map {
	v, err := shunt.Solve(expr)
	if err != nil {
		return fiber.Map{
			"expression": expr,
			"error":      errorBody(err),
		}
	}
	return resultBody(expr, v)
}

func (s *Server) press(c *fiber.Ctx) error {
	var req keypadRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidArgument(fmt.Sprintf("invalid request body: %v", err)).write(c)
	}
	if req.Key == "" {
		return invalidArgument("key is required").write(c)
	}
	if len(req.Display) > s.cfg.MaxExpressionLength {
		return invalidArgument(fmt.Sprintf("display exceeds maximum length of %d characters", s.cfg.MaxExpressionLength)).write(c)
	}

	next := keypad.Display{Text: req.Display}.Press(keypad.Key(req.Key))
	return c.JSON(fiber.Map{"display": next.Text})
}

// readExpression parses and bounds the expression of a request body.
func (s *Server) readExpression(c *fiber.Ctx) (string, *requestError) {
	var req expressionRequest
	if err := c.BodyParser(&req); err != nil {
		return "", invalidArgument(fmt.Sprintf("invalid request body: %v", err))
	}
	if len(req.Expression) > s.cfg.MaxExpressionLength {
		return "", invalidArgument(fmt.Sprintf("expression exceeds maximum length of %d characters", s.cfg.MaxExpressionLength))
	}
	return keypad.Normalize(req.Expression), nil
}
