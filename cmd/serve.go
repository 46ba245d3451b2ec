package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/epa-ghana/airview-cli/internal/clean"
	"github.com/epa-ghana/airview-cli/internal/export"
	"github.com/epa-ghana/airview-cli/internal/ingest"
)

var servePort int

// maxUploadBytes caps a single sensor export upload.
const maxUploadBytes = 64 << 20

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the report server for file uploads",
	Long: `Serves the analysis pipeline over HTTP: POST a sensor export to
/analyze/{source} and receive the report tables back, as a JSON envelope or
as a single CSV table with ?format=csv&report=<name>.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.RealIP)
		r.Use(requestLogger)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", handleHealth)
		r.Get("/sources", handleSources)
		r.Post("/analyze/{source}", handleAnalyze)

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownServer(srv)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// shutdownServer drains in-flight requests before closing. The signal
// context is already cancelled by the time it fires, so the drain gets
// its own deadline.
func shutdownServer(srv *http.Server) {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Warn("serve: shutdown", zap.Error(err))
	}
}

// requestLogger logs one line per request with status and duration.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		zap.L().Info("serve: request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func handleSources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, registry.All())
}

func handleAnalyze(w http.ResponseWriter, r *http.Request) {
	srcCfg, ok := registry.Get(chi.URLParam(r, "source"))
	if !ok {
		writeError(w, http.StatusNotFound, "unknown source")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "multipart field 'file' is required")
		return
	}
	defer file.Close()

	table, err := parseUpload(file, header.Filename)
	if err != nil {
		zap.L().Warn("serve: upload rejected",
			zap.String("file", header.Filename),
			zap.Error(err),
		)
		writeError(w, http.StatusBadRequest, "could not parse upload")
		return
	}

	label := strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename))
	report, err := analyzeTable(table, label, srcCfg, registry.Breakpoints)
	if err != nil {
		var missing *clean.MissingColumnsError
		if errors.As(err, &missing) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
				"error":           "missing required columns",
				"missing_columns": missing.Columns,
			})
			return
		}
		zap.L().Warn("serve: analysis failed",
			zap.String("file", header.Filename),
			zap.Error(err),
		)
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	if r.URL.Query().Get("format") == "csv" {
		streamCSV(w, r, report)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// streamCSV writes one chosen report table as a CSV attachment.
func streamCSV(w http.ResponseWriter, r *http.Request, report *export.Report) {
	name := r.URL.Query().Get("report")
	if name == "aggregates" {
		if level := r.URL.Query().Get("level"); level != "" {
			name = "aggregates_" + level
		}
	}
	table, ok := report.Table(name)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown report table")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", table.Name+".csv"))
	if err := table.Encode(w); err != nil {
		zap.L().Warn("serve: stream csv", zap.Error(err))
	}
}

func parseUpload(file io.Reader, filename string) (*ingest.Table, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		raw, err := io.ReadAll(file)
		if err != nil {
			return nil, eris.Wrap(err, "serve: read upload")
		}
		return ingest.ParseXLSX(raw)
	default:
		return ingest.ParseCSV(file)
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
