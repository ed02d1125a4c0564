package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/examtools/examdump-cli/internal/output"
	"github.com/examtools/examdump-cli/web"
)

var (
	servePort int
	serveData string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the question review web UI",
	Long:  "Serves the extracted question set and a local search and review page. The questions.json is re-read on each request, so re-running extract updates the page on refresh.",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		dataPath := serveData
		if dataPath == "" {
			dataPath = filepath.Join(cfg.Paths.OutputDir, "questions.json")
		}

		r := chi.NewRouter()
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"}) //nolint:errcheck
		})

		r.Get("/api/questions", func(w http.ResponseWriter, _ *http.Request) {
			doc, err := output.LoadDocument(dataPath)
			if err != nil {
				if os.IsNotExist(eris.Cause(err)) {
					http.Error(w, `{"error":"no question set found; run extract first"}`, http.StatusNotFound)
					return
				}
				zap.L().Error("load question set", zap.Error(err))
				http.Error(w, `{"error":"failed to load question set"}`, http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(doc); err != nil {
				zap.L().Error("encode question set", zap.Error(err))
			}
		})

		static, err := fs.Sub(web.Assets, "static")
		if err != nil {
			return eris.Wrap(err, "serve: static assets")
		}
		r.Handle("/*", http.FileServer(http.FS(static)))

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx) //nolint:errcheck
		}()

		zap.L().Info("starting server",
			zap.Int("port", port),
			zap.String("data", dataPath),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	serveCmd.Flags().StringVar(&serveData, "data", "", "path to questions.json (default <output_dir>/questions.json)")
	rootCmd.AddCommand(serveCmd)
}
