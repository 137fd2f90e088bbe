package main

import (
	"errors"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"surface-inspector/config"
	app "surface-inspector/internal/application"
	"surface-inspector/internal/container"
	"surface-inspector/internal/infrastructure/imageio"
	"surface-inspector/internal/infrastructure/report"
	"surface-inspector/internal/infrastructure/storage"
	"surface-inspector/internal/infrastructure/vision"
)

const (
	flagImage         = "image"
	flagOutput        = "output"
	flagConfig        = "config"
	flagFormat        = "format"
	flagLogLevel      = "log-level"
	flagWorkers       = "workers"
	flagPadding       = "padding"
	flagCrop          = "crop"
	flagOffset        = "offset"
	flagThreshold     = "threshold"
	flagFailOnDefects = "fail-on-defects"

	// сессия единственного запуска из командной строки
	cliSession = 1
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	inspector := &cli.App{
		Name:      "surface-inspector",
		Usage:     "find dark and bright defects on a grayscale surface image",
		ArgsUsage: "[image]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: flagImage, Aliases: []string{"i"}, Value: cfg.ImagePath, Usage: "image to inspect"},
			&cli.StringFlag{Name: flagOutput, Aliases: []string{"o"}, Value: cfg.OutputPath, Usage: "where to save the annotated image"},
			&cli.StringFlag{Name: flagConfig, Aliases: []string{"c"}, Value: cfg.DetectionPath, Usage: "detection parameters, YAML"},
			&cli.StringFlag{Name: flagFormat, Value: cfg.ReportFormat, Usage: "report format: table or json"},
			&cli.StringFlag{Name: flagLogLevel, Value: cfg.LogLevel, Usage: "trace, debug, info, warn or error"},
			&cli.IntFlag{Name: flagWorkers, Value: cfg.Workers, Usage: "tile workers, 0 uses every CPU"},
			&cli.IntFlag{Name: flagPadding, Value: cfg.Padding, Usage: "padding of defect boxes on the annotated image"},
			&cli.StringFlag{Name: flagCrop, Usage: "inspect only x,y,w,h"},
			&cli.StringFlag{Name: flagOffset, Usage: "global offset x,y of the inspected area, defaults to the crop origin"},
			&cli.Float64Flag{Name: flagThreshold, Usage: "binarization threshold 0..255, overrides the config"},
			&cli.BoolFlag{Name: flagFailOnDefects, Usage: "exit with code 2 when defects are found"},
		},
		Action: func(c *cli.Context) error {
			return run(c, cfg)
		},
	}

	if err := inspector.Run(os.Args); err != nil {
		log.Fatal().Err(err).Msg("Inspection failed")
	}
}

func run(c *cli.Context, cfg *config.Config) error {
	logger, err := newLogger(c.String(flagLogLevel))
	if err != nil {
		return err
	}

	path := c.String(flagImage)
	if path == "" {
		path = c.Args().First()
	}
	if path == "" {
		return errors.New("image path is required: pass --image or INSPECT_IMAGE")
	}

	detection, err := config.LoadDetection(c.String(flagConfig))
	if err != nil {
		return err
	}
	if c.IsSet(flagWorkers) || cfg.Workers != 0 {
		detection = detection.WithWorkers(c.Int(flagWorkers))
	}

	opts, err := inspectionOptions(c)
	if err != nil {
		return err
	}

	reporter, err := report.New(c.String(flagFormat))
	if err != nil {
		return err
	}

	codec := imageio.NewCodec()
	appContainer := container.New(
		storage.NewMemorySessionRepository(),
		vision.NewGoCVDetector(),
		codec,
		detection,
		c.Int(flagPadding),
		logger,
	)

	ctx := logger.WithContext(c.Context)
	out, err := appContainer.InspectionService.InspectFile(ctx, cliSession, path, opts)
	if err != nil {
		return err
	}

	if err := reporter.Report(c.App.Writer, out.Result); err != nil {
		return err
	}

	if dst := c.String(flagOutput); dst != "" && out.Annotated != nil {
		if err := codec.Save(out.Annotated, dst); err != nil {
			return err
		}
		logger.Info().Str("path", dst).Msg("annotated image saved")
	}

	if c.Bool(flagFailOnDefects) && out.Result.HasDefects {
		return cli.Exit("defects found", 2)
	}
	return nil
}

func inspectionOptions(c *cli.Context) (app.InspectionOptions, error) {
	var opts app.InspectionOptions
	if s := c.String(flagCrop); s != "" {
		crop, err := config.ParseRect(s)
		if err != nil {
			return opts, err
		}
		opts.Crop = &crop
	}
	if s := c.String(flagOffset); s != "" {
		offset, err := config.ParsePoint(s)
		if err != nil {
			return opts, err
		}
		opts.Offset = &offset
	}
	if c.IsSet(flagThreshold) {
		threshold := c.Float64(flagThreshold)
		opts.Threshold = &threshold
	}
	return opts, nil
}

func newLogger(level string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), err
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(lvl).
		With().Timestamp().
		Logger(), nil
}
