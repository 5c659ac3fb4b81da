package app

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/Ahmet872/amazon-review-sales-predictor/artifact"
	"github.com/Ahmet872/amazon-review-sales-predictor/export"
	"github.com/Ahmet872/amazon-review-sales-predictor/internal/api"
)

var (
	serveAddr  string
	serveStore string
	serveSQL   string
	serveDebug bool

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions over HTTP",
		Long: `Load the artifacts once and serve the prediction pipeline over HTTP.

Endpoints:
  POST /v1/predict    rank the records in the request body
  GET  /v1/runs       recent run IDs (needs --store)
  GET  /v1/runs/:id   a stored run (needs --store)
  GET  /v1/stats      feature distribution and brand fallback counts
  GET  /healthz       liveness and loaded artifacts`,
		Example: `  salesrank serve --addr :8080 --store redis`,
		Args:    cobra.NoArgs,
		RunE:    runServe,
	}
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: LISTEN_ADDR)")
	serveCmd.Flags().StringVar(&serveStore, "store", "memory", "run store (memory, redis, or empty to disable)")
	serveCmd.Flags().StringVar(&serveSQL, "sql", "", "also save runs to a database (sqlite path or postgres:// DSN)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "run gin in debug mode")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !serveDebug {
		gin.SetMode(gin.ReleaseMode)
	}

	b, err := artifact.Load(ctx, settings.ModelPath, settings.VocabPath)
	if err != nil {
		return err
	}

	opts := []api.Option{api.WithTopN(settings.TopN)}
	st, err := openStore(serveStore, settings)
	if err != nil {
		return err
	}
	var writers export.MultiWriter
	if st != nil {
		defer st.Close()
		opts = append(opts, api.WithStore(st))
		writers = append(writers, &export.StoreWriter{Store: st})
	}
	if serveSQL != "" {
		w, err := export.OpenSQL(ctx, serveSQL)
		if err != nil {
			return err
		}
		writers = append(writers, w)
	}
	if len(writers) > 0 {
		defer writers.Close()
		opts = append(opts, api.WithWriter(writers))
	}

	addr := settings.ListenAddr
	if serveAddr != "" {
		addr = serveAddr
	}
	return api.NewServer(b, opts...).Run(ctx, addr)
}
