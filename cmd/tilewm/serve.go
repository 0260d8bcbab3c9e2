package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Gaurav-Gosain/tilewm/internal/app"
	"github.com/Gaurav-Gosain/tilewm/internal/control"
	"github.com/Gaurav-Gosain/tilewm/internal/rules"
	"github.com/Gaurav-Gosain/tilewm/internal/scene"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var (
		flags     tilingFlags
		scenePath string
		savePath  string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the tiling daemon",
		Long: `Run the tiling daemon over a scene file

The daemon loads the desktop described by the scene, tiles it and then
waits for commands from "tilewm enable", "tilewm grid-mode" and friends.
Commands arrive through files in $XDG_RUNTIME_DIR; the daemon publishes
its mode and workspace there too. Saving the scene file re-reads it and
retiles.`,
		Example: `  # Serve a scene in grid mode
  tilewm serve --scene desktop.toml --mode grid

  # Write the final layout back on exit
  tilewm serve --scene desktop.toml --save out.toml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), flags, scenePath, savePath)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&scenePath, "scene", "", "Scene file describing outputs and windows")
	cmd.Flags().StringVar(&savePath, "save", "", "Write the desktop to this scene file on exit")
	_ = cmd.MarkFlagRequired("scene")
	return cmd
}

func runServe(ctx context.Context, flags tilingFlags, scenePath, savePath string) error {
	cfg, err := loadConfig(flags.overrides())
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg.Logging.Level, "tilewm")
	if err != nil {
		return err
	}

	f, err := scene.Load(scenePath)
	if err != nil {
		return err
	}
	desktop := scene.NewRegistry(f, cfg.Decoration)
	resolver, err := rules.New(cfg.WindowRules, desktop)
	if err != nil {
		return err
	}

	paths, err := control.RuntimePaths()
	if err != nil {
		return err
	}

	var srv *app.Server
	daemon := control.NewDaemon(control.DaemonConfig{
		Paths:   paths,
		Handler: func(c control.Command) error { return srv.Apply(c) },
		Logger:  logger.WithPrefix("control"),
	})
	srv = app.New(desktop, resolver, app.Options{
		Config: cfg,
		Logger: logger,
		OnChange: func(st app.State) {
			if err := daemon.Publish(st.Mode().String(), st.Workspace); err != nil {
				logger.Warn("Failed to publish status", "err", err)
			}
		},
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			logger.Info("Shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := daemon.Start(ctx); err != nil {
		return err
	}
	if err := srv.LoadScene(f); err != nil {
		cancel()
		daemon.Wait()
		_ = daemon.Close()
		return err
	}
	logger.Info("Tiling daemon started",
		"scene", scenePath,
		"mode", srv.Mode(),
		"workspace", srv.State().Workspace,
		"views", len(f.Views),
	)

	if err := watchScene(ctx, scenePath, srv, logger); err != nil {
		logger.Warn("Scene reload disabled", "err", err)
	}

	daemon.Wait()
	closeErr := daemon.Close()

	if savePath != "" {
		if err := desktop.Snapshot(srv.State().Workspace).Save(savePath); err != nil {
			return err
		}
		logger.Info("Saved scene", "path", savePath)
	}
	return closeErr
}

// watchScene reloads the scene whenever its file is written. Editors that
// replace the file on save produce a Create, so the directory is watched
// instead of the file.
func watchScene(ctx context.Context, path string, srv *app.Server, logger *log.Logger) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(abs), err)
	}

	go func() {
		defer func() { _ = watcher.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Name != abs || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
					continue
				}
				f, err := scene.Load(abs)
				if err != nil {
					logger.Warn("Ignoring scene change", "err", err)
					continue
				}
				if err := srv.LoadScene(f); err != nil {
					logger.Error("Failed to reload scene", "err", err)
					continue
				}
				logger.Info("Scene reloaded", "views", len(f.Views))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("Scene watcher error", "err", err)
			}
		}
	}()
	return nil
}
