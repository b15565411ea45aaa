package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/natefinch/lumberjack"
	"github.com/urfave/cli/v2"

	"github.com/revelaction/annotator/config"
	"github.com/revelaction/annotator/engine"
	"github.com/revelaction/annotator/engine/corenlp"
)

// UI contains the input and output streams for the application.
// Used for injecting buffers during testing.
type UI struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

func main() {
	ui := UI{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}

	if err := loadDotEnv(".env"); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := newApp(ui, defaultLoader)
	if err := a.cli().RunContext(ctx, os.Args); err != nil {
		fprintErr(ui.Err, err)
		os.Exit(1)
	}
}

func fprintErr(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "annotator: %v\n", err)
}

// loadDotEnv loads environment variables from path. A missing file is not an
// error; variables already set are not overridden.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// LoaderFunc builds the engine loader from the engine configuration.
type LoaderFunc func(cfg config.EngineConfig) engine.Loader

func defaultLoader(cfg config.EngineConfig) engine.Loader {
	return corenlp.NewLoader(cfg.URL, cfg.Timeout)
}

// app holds the state shared by the commands, set up in the Before hook.
type app struct {
	ui        UI
	newLoader LoaderFunc

	cfg     *config.Config
	logger  *slog.Logger
	logFile *lumberjack.Logger
	pool    *Pool
}

func newApp(ui UI, l LoaderFunc) *app {
	return &app{ui: ui, newLoader: l, pool: &Pool{}}
}

func (a *app) cli() *cli.App {
	return &cli.App{
		Name:                 "annotator",
		Usage:                "annotate text with a CoreNLP server and store the annotated sentences",
		Version:              BuildTag,
		Writer:               a.ui.Out,
		ErrWriter:            a.ui.Err,
		Reader:               a.ui.In,
		EnableBashCompletion: true,
		Flags:                a.globalFlags(),
		Before:               a.setup,
		After: func(c *cli.Context) error {
			if a.logFile != nil {
				_ = a.logFile.Close()
			}
			return a.pool.Close()
		},
		Commands: []*cli.Command{
			a.annotateCommand(),
			a.importCommand(),
			a.docCommand(),
			a.sentenceCommand(),
			a.lemmaCommand(),
			a.statCommand(),
			a.replCommand(),
			a.exportCommand(),
			a.versionCommand(),
		},
	}
}

func (a *app) globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "config",
			Aliases: []string{"c"},
			Usage:   "Path to the YAML configuration file",
			EnvVars: []string{"ANNOTATOR_CONFIG"},
			Value:   "annotator.yaml",
		},
		&cli.StringFlag{
			Name:    "engine-url",
			Aliases: []string{"u"},
			Usage:   "URL of the CoreNLP server",
			EnvVars: []string{"ANNOTATOR_ENGINE_URL"},
		},
		&cli.StringFlag{
			Name:    "pos-model",
			Usage:   "Part-of-speech model path, as seen by the CoreNLP server",
			EnvVars: []string{"ANNOTATOR_POS_MODEL"},
		},
		&cli.StringFlag{
			Name:    "ner-model",
			Usage:   "Named-entity model path, as seen by the CoreNLP server",
			EnvVars: []string{"ANNOTATOR_NER_MODEL"},
		},
		&cli.StringFlag{
			Name:    "doc-path",
			Aliases: []string{"d"},
			Usage:   "Path to docs directory or SQLite file",
			EnvVars: []string{"ANNOTATOR_DOC_PATH"},
		},
		&cli.StringFlag{
			Name:    "log-level",
			Usage:   "Log level: debug, info, warn or error",
			EnvVars: []string{"ANNOTATOR_LOG_LEVEL"},
		},
	}
}

// setup loads the configuration file and applies the global flags on top.
func (a *app) setup(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}

	if c.IsSet("engine-url") {
		cfg.Engine.URL = c.String("engine-url")
	}
	if c.IsSet("pos-model") {
		cfg.Engine.POSModel = c.String("pos-model")
	}
	if c.IsSet("ner-model") {
		cfg.Engine.NERModel = c.String("ner-model")
	}
	if c.IsSet("doc-path") {
		cfg.Storage.DocPath = c.String("doc-path")
	}
	if c.IsSet("log-level") {
		cfg.Logging.Level = c.String("log-level")
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := config.ParseLevel(cfg.Logging.Level)
	a.logger = slog.New(slog.NewTextHandler(a.logWriter(cfg.Logging), &slog.HandlerOptions{Level: level}))
	a.cfg = cfg
	return nil
}

// logWriter returns stderr, teed to a rotating file when one is configured.
func (a *app) logWriter(lc config.LoggingConfig) io.Writer {
	if lc.File == "" {
		return a.ui.Err
	}

	a.logFile = &lumberjack.Logger{
		Filename:   lc.File,
		MaxSize:    lc.MaxSizeMB, // megabytes
		MaxBackups: 5,
		MaxAge:     28, // days
	}
	return io.MultiWriter(a.ui.Err, a.logFile)
}
