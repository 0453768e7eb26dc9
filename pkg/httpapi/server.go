// Package httpapi exposes the routing core over an OpenAI-compatible
// chat completions endpoint, with Server-Sent Events streaming and
// Prometheus instrumentation.
package httpapi

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/localmodel/gateway/pkg/config"
	"github.com/localmodel/gateway/pkg/gateway"
	"github.com/localmodel/gateway/pkg/inference/core"
	"github.com/localmodel/gateway/pkg/internal/utils"
	"github.com/localmodel/gateway/pkg/logging"
)

// Server is the gateway's HTTP surface.
type Server struct {
	log     logging.Logger
	cfg     config.GatewayConfig
	router  *core.Router
	metrics *Metrics
	mux     *http.ServeMux
}

// NewServer wires a Server around router, ready to be handed to
// http.ListenAndServe.
func NewServer(log logging.Logger, cfg config.GatewayConfig, router *core.Router) *Server {
	s := &Server{log: log, cfg: cfg, router: router, metrics: NewMetrics()}
	s.mux = http.NewServeMux()
	s.mux.HandleFunc("/v1/chat/completions", s.handleChatCompletions)
	s.mux.HandleFunc("/healthz", s.handleHealthz)
	s.mux.Handle("/metrics", promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{}))
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// chatCompletionRequest is the request body for /v1/chat/completions,
// intentionally limited to the fields this gateway actually honors.
type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float32       `json:"temperature"`
	TopP        float32       `json:"top_p"`
	TopK        int           `json:"top_k"`
	Stop        []string      `json:"stop"`
	Stream      bool          `json:"stream"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Created int64        `json:"created"`
	Model   string       `json:"model"`
	Choices []chatChoice `json:"choices"`
}

type chatChoice struct {
	Index        int          `json:"index"`
	Message      *chatMessage `json:"message,omitempty"`
	Delta        *chatMessage `json:"delta,omitempty"`
	FinishReason string       `json:"finish_reason,omitempty"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleChatCompletions(w http.ResponseWriter, r *http.Request) {
	requestID := uuid.NewString()
	log := s.log.WithField("request_id", requestID)

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req chatCompletionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}
	if req.Model == "" {
		http.Error(w, "model is required", http.StatusBadRequest)
		return
	}

	prompt := renderPrompt(req.Messages)
	spec := gateway.SpecFromRequest(s.cfg, req.Model, req.Model, s.cfg.DefaultCtxLen)

	started := time.Now()
	model, err := s.router.Load(r.Context(), spec)
	if err != nil {
		log.WithError(err).Errorf("failed to load model %q", utils.SanitizeForLog(req.Model))
		s.metrics.observeRequest("unknown", "load_error", time.Since(started).Seconds())
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	defer model.Close()

	opts := core.GenOptions{
		MaxTokens:     req.MaxTokens,
		Temperature:   req.Temperature,
		TopP:          req.TopP,
		TopK:          req.TopK,
		RepeatPenalty: 1.1,
		StopTokens:    req.Stop,
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = 512
	}

	backend := core.Select(spec).String()
	if req.Stream {
		s.streamChatCompletion(r.Context(), w, log, backend, requestID, req.Model, model, prompt, opts, started)
		return
	}
	s.respondChatCompletion(r.Context(), w, log, backend, requestID, req.Model, model, prompt, opts, started)
}

func (s *Server) respondChatCompletion(ctx context.Context, w http.ResponseWriter, log logging.Logger, backend, requestID, model string, handle core.LoadedModel, prompt string, opts core.GenOptions, started time.Time) {
	text, err := handle.Generate(ctx, prompt, opts, nil)
	outcome := "ok"
	if err != nil {
		outcome = "generate_error"
	}
	s.metrics.observeRequest(backend, outcome, time.Since(started).Seconds())
	if err != nil {
		log.WithError(err).Error("generation failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	resp := chatCompletionResponse{
		ID:      requestID,
		Object:  "chat.completion",
		Created: started.Unix(),
		Model:   model,
		Choices: []chatChoice{{
			Index:        0,
			Message:      &chatMessage{Role: "assistant", Content: text},
			FinishReason: "stop",
		}},
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) streamChatCompletion(ctx context.Context, w http.ResponseWriter, log logging.Logger, backend, requestID, model string, handle core.LoadedModel, prompt string, opts core.GenOptions, started time.Time) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	bw := bufio.NewWriter(w)
	onToken := func(delta string) {
		chunk := chatCompletionResponse{
			ID:      requestID,
			Object:  "chat.completion.chunk",
			Created: started.Unix(),
			Model:   model,
			Choices: []chatChoice{{Index: 0, Delta: &chatMessage{Content: delta}}},
		}
		data, _ := json.Marshal(chunk)
		fmt.Fprintf(bw, "data: %s\n\n", data)
		bw.Flush()
		flusher.Flush()
	}

	_, err := handle.Generate(ctx, prompt, opts, onToken)
	outcome := "ok"
	if err != nil {
		outcome = "generate_error"
		log.WithError(err).Error("streaming generation failed")
	}
	s.metrics.observeRequest(backend, outcome, time.Since(started).Seconds())

	fmt.Fprint(bw, "data: [DONE]\n\n")
	bw.Flush()
	flusher.Flush()
}

func renderPrompt(messages []chatMessage) string {
	var prompt string
	for _, m := range messages {
		prompt += m.Role + ": " + m.Content + "\n"
	}
	return prompt
}
