// Command animator assembles PNG frames into an animated GIF, with a live
// preview window.
//
// Usage:
//
//	animator [-out anim.gif] [-duration 100ms] [-headless] frame1.png frame2.png ...
package main

import (
	"flag"
	"log"

	rl "github.com/gen2brain/raylib-go/raylib"
	"go.uber.org/zap"

	"github.com/ha1tch/pixelforge/internal/animate"
	"github.com/ha1tch/pixelforge/internal/config"
)

func main() {
	configFile := flag.String("config", "", "TOML settings file")
	out := flag.String("out", "animation.gif", "GIF file to write")
	duration := flag.Duration("duration", 0, "frame duration (default from config, 100ms)")
	headless := flag.Bool("headless", false, "write the GIF and exit without opening a window")
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

	cfg, err := config.Load(*configFile)
	if err != nil {
		l.Fatal("load config", zap.String("path", *configFile), zap.Error(err))
	}

	seq := animate.NewSequence(flag.Args()...)
	d := cfg.FrameDuration()
	if *duration != 0 {
		d = *duration
	}
	if err := seq.SetFrameDuration(d); err != nil {
		l.Fatal("frame duration", zap.Error(err))
	}

	if *headless {
		if err := seq.Save(*out); err != nil {
			l.Fatal("write gif", zap.String("path", *out), zap.Error(err))
		}
		l.Info("wrote gif", zap.String("path", *out),
			zap.Int("frames", seq.Len()), zap.Duration("delay", seq.FrameDuration()))
		return
	}

	rl.SetTraceLogLevel(rl.LogWarning)
	rl.InitWindow(screenWidth, screenHeight, "Pixel Forge Animator")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	app := NewApp(seq, *out, l)
	defer app.Close()
	app.reload()

	for !rl.WindowShouldClose() {
		app.Update()
		app.Draw()
	}
}
