// Command nameplate builds printable tag solids and writes them as STL files.
//
// Usage:
//
//	nameplate [-config nameplate.yaml] [-serial 17756,17757] [-count N] [-out dir]
package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/soypat/nameplate/glyph"
	"github.com/soypat/nameplate/glyph/sfntfont"
	"github.com/soypat/nameplate/internal/config"
	"github.com/soypat/nameplate/internal/logger"
	"github.com/soypat/nameplate/render"
	"github.com/soypat/nameplate/tag"
)

func main() {
	if err := run(os.Args[1:], os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "nameplate: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stderr io.Writer) error {
	cfg, err := config.Load(args, stderr)
	if err != nil {
		return err
	}
	if err := logger.InitWithFileConfig(cfg.Logging.Level, logFileConfig(cfg.Logging.LogFile), stderr); err != nil {
		return err
	}
	defer logger.Sync()

	if cfg.SavePath != "" {
		logger.Info("writing config", zap.String("path", cfg.SavePath))
		return cfg.SaveTo(cfg.SavePath)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	logger.Sugar.Debugf("config: %+v", cfg)

	fonts, err := sfntfont.New()
	if err != nil {
		return err
	}
	for id, path := range cfg.Fonts {
		if err := fonts.RegisterFile(id, path); err != nil {
			return err
		}
		logger.Debug("font registered", zap.String("id", id), zap.String("path", path))
	}
	seed := cfg.Batch.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	b := &tag.Builder{
		Provider: glyph.NewCache(fonts),
		Rand:     rand.New(rand.NewSource(seed)),
		Logger:   logger.Log,
	}
	start := time.Now()
	tags, err := b.BuildBatch(cfg.Tag, cfg.Serials(), cfg.Batch.Workers)
	if err != nil {
		return err
	}
	sink := render.STLSink{Dir: cfg.Output.Dir}
	for _, tg := range tags {
		name := cfg.Output.Prefix + tg.Serial
		if err := sink.Place(name, tg.Solid, render.Millimeters, tg.Materials); err != nil {
			return err
		}
		logger.Info("tag written", zap.String("path", sink.Path(name)), zap.Int("faces", tg.Solid.NumFaces()))
	}
	logger.Info("done", zap.Int("tags", len(tags)), zap.Duration("elapsed", time.Since(start)))
	return nil
}

func logFileConfig(path string) logger.FileConfig {
	if path == "" {
		return logger.FileConfig{}
	}
	return logger.DefaultFileConfig(path)
}
