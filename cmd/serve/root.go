package serve

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/VictoriaMetrics/metrics"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tkvdb/tkv/cmd/util"
	"github.com/tkvdb/tkv/lib/kv"
)

var (
	ServeCmd = &cobra.Command{
		Use:     "serve",
		Short:   "Expose a tkv store over HTTP",
		Long:    `Expose a tkv store over HTTP. The configuration can be set via command line flags or environment variables. The format of the environment variables is TKV_<flag> (e.g. TKV_ENDPOINT=0.0.0.0:9090)`,
		PreRunE: processConfig,
		RunE:    run,
	}
)

func init() {
	// initialize viper
	cobra.OnInitialize(util.InitConfig)

	// add flags
	util.SetupStoreFlags(ServeCmd)

	key := "endpoint"
	ServeCmd.PersistentFlags().String(key, "0.0.0.0:8080", util.WrapString("The address on which the API will listen"))

	key = "log-level"
	ServeCmd.PersistentFlags().String(key, "info", util.WrapString("LogLevel is the level at which logs will be output (debug, info, warn, error)"))
}

// processConfig binds the flags and configures the logger
func processConfig(cmd *cobra.Command, _ []string) error {
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log-level"))); err != nil {
		return fmt.Errorf("invalid log level %q: %w", viper.GetString("log-level"), err)
	}

	slog.SetDefault(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.TimeOnly,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	})))

	return nil
}

// run opens the store and serves it until the process is terminated
func run(_ *cobra.Command, _ []string) error {
	store, err := kv.Open(util.GetStoreOptions())
	if err != nil {
		return err
	}
	defer store.Close()

	endpoint := viper.GetString("endpoint")
	slog.Info("starting HTTP server", "endpoint", endpoint)

	return http.ListenAndServe(endpoint, newHandler(store))
}

// --------------------------------------------------------------------------
// HTTP Handler
// --------------------------------------------------------------------------

func newHandler(store kv.IStore) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /kv/{key}", instrumented("get", func(w http.ResponseWriter, r *http.Request) {
		value, found, err := store.Strings().Get(r.PathValue("key"))
		if err != nil {
			httpError(w, r, err)
			return
		}
		if !found {
			http.Error(w, "key not found", http.StatusNotFound)
			return
		}
		_, _ = io.WriteString(w, value)
	}))

	mux.HandleFunc("PUT /kv/{key}", instrumented("set", func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		defer r.Body.Close()
		if err != nil {
			http.Error(w, "failed to read request body", http.StatusInternalServerError)
			return
		}
		if err := store.Strings().Set(r.PathValue("key"), string(body)); err != nil {
			httpError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	mux.HandleFunc("DELETE /kv/{key}", instrumented("delete", func(w http.ResponseWriter, r *http.Request) {
		if err := store.Strings().Delete(r.PathValue("key")); err != nil {
			httpError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	mux.HandleFunc("GET /kv", instrumented("entries", func(w http.ResponseWriter, r *http.Request) {
		entries := map[string]string{}
		err := store.Strings().ForEach(func(key, value string) error {
			entries[key] = value
			return nil
		})
		if err != nil {
			httpError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(entries)
	}))

	mux.HandleFunc("GET /size", instrumented("size", func(w http.ResponseWriter, r *http.Request) {
		size, err := store.Strings().Size()
		if err != nil {
			httpError(w, r, err)
			return
		}
		_, _ = fmt.Fprintf(w, "%d\n", size)
	}))

	mux.HandleFunc("GET /metrics", func(w http.ResponseWriter, r *http.Request) {
		metrics.WritePrometheus(w, true)
	})

	return mux
}

// instrumented counts requests per operation and logs them at debug level
func instrumented(op string, next http.HandlerFunc) http.HandlerFunc {
	counter := metrics.GetOrCreateCounter(fmt.Sprintf(`tkv_http_requests_total{op=%q}`, op))
	return func(w http.ResponseWriter, r *http.Request) {
		counter.Inc()
		start := time.Now()
		next(w, r)
		slog.Debug("handled request", "op", op, "path", r.URL.Path, "duration", time.Since(start))
	}
}

// httpError maps store errors to HTTP responses
func httpError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("store operation failed", "path", r.URL.Path, "err", err)
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
