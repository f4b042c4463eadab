package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/evgeniy-krivenko/notes-api/pkg/logger/slogx"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}

func run() error {
	apiURL := flag.String("api", "http://127.0.0.1:3001", "notes api base url")
	grpcAddr := flag.String("grpc", "127.0.0.1:50051", "grpc health address")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*60)
	defer cancel()

	if err := slogx.InitGlobal(
		os.Stdout,
		"info",
		true,
	); err != nil {
		return fmt.Errorf("init logger: %v", err)
	}

	if err := checkHealth(ctx, *grpcAddr); err != nil {
		return err
	}

	c := &apiClient{base: *apiURL, http: &http.Client{Timeout: 5 * time.Second}}

	username := "smoke-" + uuid.NewString()[:8]
	if err := c.do(ctx, http.MethodPost, "/api/users", map[string]string{
		"username": username,
		"name":     "Smoke Test",
		"password": "salainen",
	}, http.StatusCreated, nil); err != nil {
		return fmt.Errorf("register: %v", err)
	}

	var login struct {
		Token string `json:"token"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/login", map[string]string{
		"username": username,
		"password": "salainen",
	}, http.StatusOK, &login); err != nil {
		return fmt.Errorf("login: %v", err)
	}
	c.token = login.Token

	slogx.Info(ctx, "logged in", slog.String("username", username))

	for _, phrase := range notePhrases() {
		var note struct {
			ID string `json:"id"`
		}

		err := c.do(ctx, http.MethodPost, "/api/notes", map[string]any{
			"content":   phrase,
			"important": len(phrase) > 10,
		}, http.StatusCreated, &note)
		if err != nil {
			slogx.Warn(ctx, "note rejected", slog.String("content", phrase), slogx.Err(err))
			continue
		}

		slogx.Info(ctx, "note created", slogx.NoteID(note.ID))
	}

	var users []struct {
		Username string   `json:"username"`
		Notes    []string `json:"notes"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, http.StatusOK, &users); err != nil {
		return fmt.Errorf("list users: %v", err)
	}

	for _, u := range users {
		if u.Username == username {
			slogx.Info(ctx, "smoke user notes", slog.Int("count", len(u.Notes)))
		}
	}

	return nil
}

func checkHealth(ctx context.Context, addr string) error {
	conn, err := grpc.NewClient(
		addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return fmt.Errorf("new client conn: %v", err)
	}
	defer conn.Close()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{Service: "notes-api"})
	if err != nil {
		return fmt.Errorf("health check: %v", err)
	}

	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("server is %s", resp.GetStatus())
	}

	slogx.Info(ctx, "server is serving")

	return nil
}

type apiClient struct {
	base  string
	token string
	http  *http.Client
}

type apiError struct {
	Status int
	Body   string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

func (c *apiClient) do(ctx context.Context, method, path string, in any, want int, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %v", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return fmt.Errorf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		b, _ := io.ReadAll(resp.Body)
		return &apiError{Status: resp.StatusCode, Body: string(bytes.TrimSpace(b))}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %v", err)
	}

	return nil
}
