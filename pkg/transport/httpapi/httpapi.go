// Package httpapi serves the conversion tools as a JSON-over-HTTP API.
//
// Routes:
//
//	GET  /healthz          liveness and build version
//	GET  /v1/tools         tool discovery
//	GET  /v1/tools/{name}  one tool descriptor
//	POST /v1/tools/{name}  call a tool; the body is the argument bag
//
// Calls answer 200 with {"success": true, "result": {...}} or an error
// envelope {"success": false, "error": {"code", "message"}}.
package httpapi

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/svgmcp/pkg/buildinfo"
	"github.com/matzehuels/svgmcp/pkg/errors"
	"github.com/matzehuels/svgmcp/pkg/tools"
)

// MaxBodyBytes bounds the size of a tool call body.
const MaxBodyBytes = 32 << 20

// ErrorBody is the error member of a failed call's envelope.
type ErrorBody struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

type handler struct {
	dispatcher *tools.Dispatcher
	logger     *log.Logger
}

// NewRouter returns the API routes backed by d.
func NewRouter(d *tools.Dispatcher, logger *log.Logger) http.Handler {
	if logger == nil {
		logger = log.Default()
	}
	h := &handler{dispatcher: d, logger: logger}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", h.health)
	r.Route("/v1/tools", func(r chi.Router) {
		r.Get("/", h.listTools)
		r.Get("/{name}", h.getTool)
		r.Post("/{name}", h.callTool)
	})
	return r
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	info := buildinfo.Get()
	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "ok",
		"version":    info.Version,
		"commit":     info.Commit,
		"go_version": info.GoVersion,
	})
}

func (h *handler) listTools(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, tools.List())
}

func (h *handler) getTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	desc, ok := tools.Lookup(name)
	if !ok {
		h.writeError(w, r, errors.New(errors.ErrCodeMethodNotFound, "unknown tool: %s", name))
		return
	}
	writeJSON(w, http.StatusOK, desc)
}

func (h *handler) callTool(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	args, err := decodeArgs(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resp, err := h.dispatcher.Call(r.Context(), name, args)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// decodeArgs reads a JSON object body. An empty body yields nil args, which
// the dispatcher reports as missing arguments.
func decodeArgs(body io.Reader) (tools.Args, error) {
	dec := json.NewDecoder(body)
	dec.UseNumber()

	var args tools.Args
	if err := dec.Decode(&args); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return nil, errors.New(errors.ErrCodeInvalidParams, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return nil, errors.Wrap(errors.ErrCodeInvalidParams, err, "arguments must be a JSON object")
	}
	return args, nil
}

func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := StatusFor(code)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", "request_id", GetRequestID(r.Context()), "error", err)
	}
	writeJSON(w, status, errorEnvelope{
		Error: ErrorBody{Code: code, Message: errors.UserMessage(err)},
	})
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeInvalidParams:
		return http.StatusBadRequest
	case errors.ErrCodeMethodNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Serve runs an HTTP server for h on addr until ctx is cancelled, then
// shuts it down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("http api listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
