package api

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/lemonberrylabs/shuntcalc/pkg/config"
	"github.com/lemonberrylabs/shuntcalc/pkg/shunt"
)

func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Default()
	cfg.MaxExpressionLength = 32
	cfg.BatchLimit = 4
	return New(cfg).App()
}

func post(t *testing.T, app *fiber.App, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func errorField(t *testing.T, out map[string]interface{}, key string) interface{} {
	t.Helper()
	e, ok := out["error"].(map[string]interface{})
	require.True(t, ok, "expected error envelope, got %v", out)
	return e[key]
}

func TestHealth(t *testing.T) {
	app := setupTestApp(t)
	resp, err := app.Test(httptest.NewRequest("GET", "/healthz", nil), -1)
	require.NoError(t, err)
	require.Equal(t, 200, resp.StatusCode)
}

func TestSolve(t *testing.T) {
	app := setupTestApp(t)

	tests := []struct {
		expr    string
		want    float64
		display string
	}{
		{"2+3", 5, "5"},
		{"2+3*4", 14, "14"},
		{"(2+3)*4", 20, "20"},
		{"2^3^2", 64, "64"},
		{"~5+3", -2, "-2"},
		{string(shunt.NegGlyph) + "5+3", -2, "-2"},
		{"7 / 2", 3.5, "3.5"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			code, out := post(t, app, "/v1/solve", fiber.Map{"expression": tt.expr})
			require.Equal(t, 200, code, "body: %v", out)
			require.Equal(t, tt.want, out["result"])
			require.Equal(t, tt.display, out["display"])
		})
	}
}

func TestSolveNaNHasNoResult(t *testing.T) {
	app := setupTestApp(t)
	code, out := post(t, app, "/v1/solve", fiber.Map{"expression": "~8^0.5"})
	require.Equal(t, 200, code)
	require.Equal(t, "NaN", out["display"])
	_, present := out["result"]
	require.False(t, present)
}

func TestSolveErrors(t *testing.T) {
	app := setupTestApp(t)

	tests := []struct {
		expr   string
		code   int
		kind   string
		status string
	}{
		{"5/0", 422, "DivideByZero", "OUT_OF_RANGE"},
		{"(1+2", 422, "InequalParenthesis", "INVALID_ARGUMENT"},
		{"", 422, "MissingNumber", "INVALID_ARGUMENT"},
		{"1+", 422, "OperatorMissingNumbers", "INVALID_ARGUMENT"},
	}
	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			code, out := post(t, app, "/v1/solve", fiber.Map{"expression": tt.expr})
			require.Equal(t, tt.code, code)
			require.Equal(t, tt.kind, errorField(t, out, "kind"))
			require.Equal(t, tt.status, errorField(t, out, "status"))
		})
	}
}

func TestSolveRejectsLongExpression(t *testing.T) {
	app := setupTestApp(t)
	code, out := post(t, app, "/v1/solve", fiber.Map{"expression": strings.Repeat("1+", 20) + "1"})
	require.Equal(t, 400, code)
	require.Equal(t, "INVALID_ARGUMENT", errorField(t, out, "status"))
}

func TestSolveRejectsMalformedBody(t *testing.T) {
	app := setupTestApp(t)
	req := httptest.NewRequest("POST", "/v1/solve", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, 400, resp.StatusCode)
}

func TestPostfix(t *testing.T) {
	app := setupTestApp(t)
	code, out := post(t, app, "/v1/postfix", fiber.Map{"expression": "2+3*4"})
	require.Equal(t, 200, code)
	require.Equal(t, []interface{}{"2", "3", "4", "*", "+"}, out["postfix"])

	code, out = post(t, app, "/v1/postfix", fiber.Map{"expression": "(1"})
	require.Equal(t, 422, code)
	require.Equal(t, "InequalParenthesis", errorField(t, out, "kind"))
}

func TestTokens(t *testing.T) {
	app := setupTestApp(t)
	code, out := post(t, app, "/v1/tokens", fiber.Map{"expression": "1 +2.5"})
	require.Equal(t, 200, code)

	tokens, ok := out["tokens"].([]interface{})
	require.True(t, ok)
	require.Len(t, tokens, 4)

	kinds := make([]string, len(tokens))
	for i, tok := range tokens {
		kinds[i] = tok.(map[string]interface{})["kind"].(string)
	}
	require.Equal(t, []string{"INT", "INVALID", "ADD", "NUMBER"}, kinds)
}

func TestSolveBatch(t *testing.T) {
	app := setupTestApp(t)
	code, out := post(t, app, "/v1/solve:batch", fiber.Map{
		"expressions": []string{"1+1", "5/0", "2^10", "~1"},
	})
	require.Equal(t, 200, code, "body: %v", out)

	results, ok := out["results"].([]interface{})
	require.True(t, ok)
	require.Len(t, results, 4)

	first := results[0].(map[string]interface{})
	require.Equal(t, float64(2), first["result"])

	second := results[1].(map[string]interface{})
	require.Equal(t, "DivideByZero", second["error"].(map[string]interface{})["kind"])

	third := results[2].(map[string]interface{})
	require.Equal(t, float64(1024), third["result"])

	fourth := results[3].(map[string]interface{})
	require.Equal(t, float64(-1), fourth["result"])
}

func TestSolveBatchSingleWorker(t *testing.T) {
	cfg := config.Default()
	cfg.Workers = 1
	app := New(cfg).App()

	exprs := []string{"3*3", "1-4", "(1", "2^5"}
	code, out := post(t, app, "/v1/solve:batch", fiber.Map{"expressions": exprs})
	require.Equal(t, 200, code, "body: %v", out)

	results, ok := out["results"].([]interface{})
	require.True(t, ok)
	require.Len(t, results, len(exprs))
	for i, r := range results {
		require.Equal(t, exprs[i], r.(map[string]interface{})["expression"])
	}
	require.Equal(t, float64(-3), results[1].(map[string]interface{})["result"])
	require.Equal(t, float64(32), results[3].(map[string]interface{})["result"])
}

func TestSolveBatchLimits(t *testing.T) {
	app := setupTestApp(t)

	code, _ := post(t, app, "/v1/solve:batch", fiber.Map{"expressions": []string{}})
	require.Equal(t, 400, code)

	code, _ = post(t, app, "/v1/solve:batch", fiber.Map{
		"expressions": []string{"1", "2", "3", "4", "5"},
	})
	require.Equal(t, 400, code)
}

func TestKeypad(t *testing.T) {
	app := setupTestApp(t)

	display := ""
	for _, key := range []string{"(-)", "5", "+", "3", "="} {
		code, out := post(t, app, "/v1/keypad", fiber.Map{"display": display, "key": key})
		require.Equal(t, 200, code)
		display = out["display"].(string)
	}
	require.Equal(t, string(shunt.NegGlyph)+"2", display)

	code, out := post(t, app, "/v1/keypad", fiber.Map{"display": display, "key": "="})
	require.Equal(t, 200, code)
	require.Equal(t, string(shunt.NegGlyph)+"2", out["display"])

	code, out = post(t, app, "/v1/keypad", fiber.Map{"display": "1/0", "key": "="})
	require.Equal(t, 200, code)
	require.Equal(t, "ERROR", out["display"])

	code, _ = post(t, app, "/v1/keypad", fiber.Map{"display": "1"})
	require.Equal(t, 400, code)
}
