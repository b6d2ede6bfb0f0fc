package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/cobra"
	"text2phenotype.com/postagger/api"
	"text2phenotype.com/postagger/lexicon"
	"text2phenotype.com/postagger/logger"
	"text2phenotype.com/postagger/pipeline"
	"text2phenotype.com/postagger/redis"
	"text2phenotype.com/postagger/types"
	"text2phenotype.com/postagger/worker"
)

type Config struct {
	ConfigPath   string `envconfig:"TAGGER_CONFIG_PATH" required:"true"`
	ModelDir     string `envconfig:"TAGGER_MODEL_DIR" default:"."`
	RestAPIPort  string `envconfig:"TAGGER_REST_API_PORT" default:"10000"`
	MaxBodyBytes int64  `envconfig:"TAGGER_REST_API_MAX_BODY_BYTES" default:"10485760"`
}

const workerRestartDelay = 5 * time.Second

var mainLogger = logger.NewLogger("Main")

func main() {
	logger.SetupLogging()

	ctx, stop := signalContext()
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		mainLogger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "postagger",
		Short:         "Part-of-speech tagging with fused model scores",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newTagCommand(), newServeCommand(), newWorkCommand(), newLexiconCommand())
	return root
}

func newTagCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tag [FILE|-]",
		Short: "Tag one sentence per line from FILE or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, closeStore, err := loadDriver()
			if err != nil {
				return err
			}
			defer closeStore()

			in := io.Reader(os.Stdin)
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			sentences, err := pipeline.ReadSentences(in)
			if err != nil {
				return fmt.Errorf("failed to read sentences: %w", err)
			}
			results := driver.Process(cmd.Context(), sentences)
			for _, res := range results {
				if res.Err != nil {
					mainLogger.Err(res.Err).Int("sentence", res.Index).Msg("Sentence was not tagged")
				}
			}
			return pipeline.WriteTagged(cmd.OutOrStdout(), results, driver.Config().OutputTagProbs)
		},
	}
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the tagging pipeline over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := readEnvironment()
			if err != nil {
				return err
			}
			driver, closeStore, err := loadDriver()
			if err != nil {
				return err
			}
			defer closeStore()

			apiRequest := &api.Request{
				Pipeline:     pipeline.NewTaggingPipeline(driver),
				MaxBodyBytes: config.MaxBodyBytes,
			}
			mux := http.NewServeMux()
			mux.HandleFunc("/", apiRequest.ProcessData)
			server := &http.Server{Addr: fmt.Sprintf(":%s", config.RestAPIPort), Handler: mux}

			go func() {
				<-cmd.Context().Done()
				_ = server.Shutdown(context.Background())
			}()
			mainLogger.Info().Msgf("REST API on %s", server.Addr)
			if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		},
	}
}

func newWorkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "work",
		Short: "Consume tagging jobs from RMQ",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			driver, closeStore, err := loadDriver()
			if err != nil {
				return err
			}
			defer closeStore()
			ppln := pipeline.NewTaggingPipeline(driver)

			mainLogger.Info().Msg("Start tagging worker")
			for {
				rmqWorker, err := worker.New(ppln)
				if err != nil {
					return fmt.Errorf("could not initialize RMQ worker: %w", err)
				}
				err = rmqWorker.StartWorker(cmd.Context())
				if cmd.Context().Err() != nil {
					return nil
				}
				mainLogger.Err(err).Msgf("Worker returned with error. Launching new in %v", workerRestartDelay)
				time.Sleep(workerRestartDelay)
			}
		},
	}
}

func newLexiconCommand() *cobra.Command {
	lexiconCmd := &cobra.Command{
		Use:   "lexicon",
		Short: "Manage the word/tag lexicon",
	}
	lexiconCmd.AddCommand(&cobra.Command{
		Use:   "load FILE",
		Short: "Add the word/TAG counts of a tagged corpus to the lexicon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := readEnvironment()
			if err != nil {
				return err
			}
			cfg, err := types.LoadConfiguration(config.ConfigPath)
			if err != nil {
				return err
			}
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			entries, err := lexicon.ReadTaggedCorpus(f)
			if err != nil {
				return err
			}

			store, err := redis.NewClient(redis.LexiconDB)
			if err != nil {
				return err
			}
			defer store.Close()
			return lexicon.NewOracle(cfg.Lexicon.KeyPrefix, store).Load(cmd.Context(), entries)
		},
	})
	return lexiconCmd
}

func readEnvironment() (Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return config, fmt.Errorf("failed to read environment: %w", err)
	}
	return config, nil
}

// loadDriver loads the configuration and every model. Nothing is tagged when
// a model cannot be loaded.
func loadDriver() (*pipeline.Driver, func(), error) {
	noop := func() {}
	config, err := readEnvironment()
	if err != nil {
		return nil, noop, err
	}
	cfg, err := types.LoadConfiguration(config.ConfigPath)
	if err != nil {
		return nil, noop, fmt.Errorf("failed to load configuration: %w", err)
	}

	var store lexicon.Store
	closeStore := noop
	if cfg.EnableSecondarySource {
		client, err := redis.NewClient(redis.LexiconDB)
		if err != nil {
			mainLogger.Warn().Err(err).Msg("Lexicon store is not configured, continuing without it")
		} else {
			store = client
			closeStore = func() { _ = client.Close() }
		}
	}

	sources, err := pipeline.LoadSources(cfg, config.ModelDir, store)
	if err != nil {
		closeStore()
		if errors.Is(err, types.ErrModelUnavailable) {
			mainLogger.Error().Err(err).Msg("Model is unavailable, nothing will be tagged")
		}
		return nil, noop, err
	}
	driver, err := pipeline.NewDriver(cfg, sources)
	if err != nil {
		closeStore()
		return nil, noop, err
	}
	mainLogger.Info().
		Int("primary_sources", len(sources.Primary)).
		Int("secondary_sources", len(sources.Secondary)).
		Int("workers", cfg.Workers).
		Msg("Tagger loaded")
	return driver, closeStore, nil
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
