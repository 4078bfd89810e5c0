// Command meshgen builds the shapes listed in a recipe file and exports them
// as OBJ, glTF, GLB or STL.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"mesh-generator/internal/config"
	"mesh-generator/internal/logger"
	"mesh-generator/internal/recipe"
)

func main() {
	flags := config.RegisterFlags(flag.CommandLine)
	watch := flag.Bool("watch", false, "Rebuild whenever the recipe file changes")
	initPath := flag.String("init", "", "Write the default recipe to this path (.yaml or .toml) and exit")
	flag.Parse()

	if *initPath != "" {
		if err := config.Default().SaveTo(*initPath); err != nil {
			fmt.Fprintf(os.Stderr, "Init error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s\n", *initPath)
		return
	}

	cfg, err := config.Load(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Debug("config loaded", zap.String("path", config.Path(flags)), zap.Int("shapes", len(cfg.Shapes)))

	if _, err := recipe.Run(ctx, cfg); err != nil {
		logger.Error("build failed", zap.Error(err))
		if !*watch {
			logger.Sync()
			os.Exit(1)
		}
	}

	if *watch {
		if err := watchRecipe(ctx, flags); err != nil {
			logger.Error("watch failed", zap.Error(err))
			logger.Sync()
			os.Exit(1)
		}
	}
}
