package cmd

import (
	"log/slog"
	"time"

	"github.com/Raincor5/kitchen-system/internal/config"
	"github.com/Raincor5/kitchen-system/internal/detector"
	"github.com/Raincor5/kitchen-system/internal/geometry"
	"github.com/Raincor5/kitchen-system/internal/pipeline"
	"github.com/Raincor5/kitchen-system/internal/printer"
	"github.com/Raincor5/kitchen-system/internal/recognizer"
	"github.com/Raincor5/kitchen-system/internal/vocab"
)

// pipelineConfigFrom maps application configuration onto stage configs.
func pipelineConfigFrom(cfg *config.Config) pipeline.Config {
	g := cfg.Pipeline.Geometry
	return pipeline.Config{
		Detector: detector.Config{
			Endpoint: cfg.Pipeline.Detector.Endpoint,
			APIKey:   cfg.Pipeline.Detector.APIKey,
			Project:  cfg.Pipeline.Detector.Project,
			Version:  cfg.Pipeline.Detector.Version,
			Timeout:  time.Duration(cfg.Pipeline.Detector.TimeoutSec) * time.Second,
			TempDir:  cfg.Pipeline.Detector.TempDir,
		},
		Geometry: geometry.Config{
			LowerHue:           g.LowerHue,
			UpperHue:           g.UpperHue,
			MinSaturation:      g.MinSaturation,
			MinValue:           g.MinValue,
			BlurRadius:         g.BlurRadius,
			EdgeThreshold:      uint8(g.EdgeThreshold),
			HoughVoteThreshold: g.HoughVoteThreshold,
			HoughMinLineLength: g.HoughMinLineLength,
			HoughMaxLineGap:    g.HoughMaxLineGap,
			MaxSkewDegrees:     g.MaxSkewDegrees,
		},
		Recognizer: recognizer.Config{
			Engine:         cfg.Pipeline.Recognizer.Engine,
			Language:       cfg.Pipeline.Recognizer.Language,
			TessdataPrefix: cfg.Pipeline.Recognizer.TessdataPrefix,
		},
	}
}

func buildPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline.Pipeline, error) {
	return pipeline.NewBuilder().
		WithConfig(pipelineConfigFrom(cfg)).
		WithLogger(logger).
		Build()
}

func buildPrinter(cfg *config.Config, logger *slog.Logger) *printer.Client {
	return printer.NewClient(printer.Config{
		AgentURL: cfg.Printer.AgentURL,
		Enabled:  cfg.Printer.Enabled,
		Timeout:  time.Duration(cfg.Printer.TimeoutSec) * time.Second,
	}, logger)
}

func buildVocab(cfg *config.Config, logger *slog.Logger) vocab.Provider {
	return vocab.NewFromConfig(vocab.Config{
		BaseURL: cfg.Vocab.BaseURL,
		Timeout: time.Duration(cfg.Vocab.TimeoutSec) * time.Second,
	}, logger)
}
