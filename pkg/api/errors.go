package api

import (
	"math"

	"github.com/gofiber/fiber/v2"

	"github.com/lemonberrylabs/shuntcalc/pkg/keypad"
	"github.com/lemonberrylabs/shuntcalc/pkg/shunt"
)

// requestError is a rejected request, reported before any evaluation.
type requestError struct {
	code    int
	status  string
	message string
}

func invalidArgument(msg string) *requestError {
	return &requestError{code: fiber.StatusBadRequest, status: "INVALID_ARGUMENT", message: msg}
}

func (e *requestError) write(c *fiber.Ctx) error {
	return c.Status(e.code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    e.code,
			"message": e.message,
			"status":  e.status,
		},
	})
}

// statusFor maps an evaluation error to an HTTP code and status string.
// Bad input is the caller's problem; InternalError is ours.
func statusFor(err error) (int, string) {
	kind, ok := shunt.KindOf(err)
	if !ok || kind == shunt.InternalError {
		return fiber.StatusInternalServerError, "INTERNAL"
	}
	if kind == shunt.DivideByZero {
		return fiber.StatusUnprocessableEntity, "OUT_OF_RANGE"
	}
	return fiber.StatusUnprocessableEntity, "INVALID_ARGUMENT"
}

func errorBody(err error) fiber.Map {
	code, status := statusFor(err)
	body := fiber.Map{
		"code":    code,
		"message": err.Error(),
		"status":  status,
	}
	if kind, ok := shunt.KindOf(err); ok {
		body["kind"] = kind.String()
	}
	return body
}

func evalError(c *fiber.Ctx, err error) error {
	code, _ := statusFor(err)
	return c.Status(code).JSON(fiber.Map{"error": errorBody(err)})
}

// resultBody renders a successful evaluation. JSON has no NaN or infinities,
// so "result" is only present for finite values; "display" always is.
func resultBody(expr string, v float64) fiber.Map {
	body := fiber.Map{
		"expression": expr,
		"display":    keypad.FormatResult(v),
	}
	if !math.IsNaN(v) && !math.IsInf(v, 0) {
		body["result"] = v
	}
	return body
}
