package integration

import (
	"bytes"
	"encoding/json"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"testing"

	"github.com/lemonberrylabs/shuntcalc/pkg/api"
	grpcapi "github.com/lemonberrylabs/shuntcalc/pkg/api/grpc"
	"github.com/lemonberrylabs/shuntcalc/pkg/config"
	"github.com/lemonberrylabs/shuntcalc/web"
)

// servers holds the addresses of a calculator under test.
type servers struct {
	httpURL  string
	grpcAddr string
}

// startServers starts the HTTP API, web UI and gRPC API in-process on
// ephemeral ports. SHUNTCALC_URL and SHUNTCALC_GRPC_ADDR point the tests at an
// already running instance instead.
func startServers(t *testing.T) servers {
	t.Helper()

	if u := os.Getenv("SHUNTCALC_URL"); u != "" {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			u = "http://" + u
		}
		return servers{httpURL: strings.TrimRight(u, "/"), grpcAddr: os.Getenv("SHUNTCALC_GRPC_ADDR")}
	}

	cfg := config.Default()
	cfg.Host = "127.0.0.1"

	httpLis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	server := api.New(cfg)
	web.New(cfg.MaxExpressionLength).Register(server.App())
	go server.App().Listener(httpLis)

	grpcLis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	grpcServer := grpcapi.New(cfg)
	go grpcServer.ServeListener(grpcLis)

	t.Cleanup(func() {
		grpcServer.Stop()
		_ = server.Shutdown()
	})

	return servers{
		httpURL:  "http://" + httpLis.Addr().String(),
		grpcAddr: grpcLis.Addr().String(),
	}
}

// postJSON sends body as JSON and decodes the JSON response.
func postJSON(t *testing.T, url string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	data, _ := json.Marshal(body)

	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("decode %s response %q: %v", url, raw, err)
	}
	return resp.StatusCode, out
}

// errorKind extracts error.kind from an error envelope.
func errorKind(out map[string]interface{}) string {
	e, ok := out["error"].(map[string]interface{})
	if !ok {
		return ""
	}
	kind, _ := e["kind"].(string)
	return kind
}
