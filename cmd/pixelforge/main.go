// Command pixelforge is a layered pixel-art sprite editor.
package main

import (
	"flag"
	"log"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/ha1tch/pixelforge/internal/config"
	"github.com/ha1tch/pixelforge/internal/editor"
)

func main() {
	configFile := flag.String("config", "", "TOML settings file")
	size := flag.Int("size", 0, "grid size: 16, 32 or 64 (default from config)")
	open := flag.String("open", "", "project file to open and save to (default untitled.json)")
	exportSize := flag.Int("export-size", 64, "edge length of exported PNGs")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	var err error
	var l *zap.Logger
	if *verbose {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	zap.ReplaceGlobals(l)
	defer l.Sync() //nolint:errcheck

	cfg := config.Default()
	if *configFile != "" {
		cfg, err = config.Load(*configFile)
		if err != nil {
			l.Fatal("load config", zap.String("path", *configFile), zap.Error(err))
		}
		l.Info("loaded config", zap.String("path", *configFile), zap.Int("grid", cfg.GridSize))
	}
	if *size != 0 {
		cfg.GridSize = *size
	}
	if err := cfg.Validate(); err != nil {
		l.Fatal("config", zap.Error(err))
	}

	path := *open
	if path == "" {
		path = "untitled.json"
	}

	sess, err := editor.New(cfg.GridSize,
		editor.WithLogger(l.Named("editor")),
		editor.WithMaxLayers(cfg.MaxLayers),
		editor.WithHistoryLimit(cfg.HistoryLimit))
	if err != nil {
		l.Fatal("new session", zap.Error(err))
	}
	if *open != "" {
		if _, statErr := os.Stat(path); statErr == nil {
			if err := sess.Load(path); err != nil {
				l.Fatal("open project", zap.String("path", path), zap.Error(err))
			}
		}
	}

	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(800, 700, "Pixel Forge")
	defer rl.CloseWindow()
	rl.SetExitKey(0)
	rl.SetTargetFPS(60)

	app, err := NewApp(sess, cfg, path, *exportSize, l)
	if err != nil {
		l.Fatal("init", zap.Error(err))
	}
	defer app.Close()
	rl.SetWindowSize(int(app.width), int(app.height))

	for !rl.WindowShouldClose() {
		app.Update()
		app.Draw()
	}
}
