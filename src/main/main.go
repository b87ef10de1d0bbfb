package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ringtone-picker/src/config"
	"ringtone-picker/src/eventloop"
	"ringtone-picker/src/events"
	"ringtone-picker/src/hotkey"
	"ringtone-picker/src/logutil"
	"ringtone-picker/src/picker"
	"ringtone-picker/src/picker/fynepicker"
	"ringtone-picker/src/prompt"
	"ringtone-picker/src/resource"
	"ringtone-picker/src/runtimeinit"
	"ringtone-picker/src/selection"
	"ringtone-picker/src/singleinstance"
	"ringtone-picker/src/tray"
)

type mainOptions struct {
	change     bool
	configPath string
	hotkey     string
}

func main() {
	opts := &mainOptions{}
	cmd := newRootCmd(opts)
	cmd.SetArgs(normalizeLegacyArgs(os.Args)[1:])
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd(opts *mainOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ringtone-picker",
		Short:         "Pick an MP3 ringtone for this session",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(*opts)
		},
	}
	cmd.Flags().BoolVar(&opts.change, "change", false, "Ask the running instance to re-open the ringtone prompt")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to a .env style config file")
	cmd.Flags().StringVar(&opts.hotkey, "hotkey", "", "Global hotkey for changing the ringtone ('none' disables)")
	return cmd
}

// normalizeLegacyArgs maps single-dash long flags (-change) to cobra's --change.
func normalizeLegacyArgs(args []string) []string {
	out := make([]string, len(args))
	copy(out, args)
	for i := 1; i < len(out); i++ {
		arg := out[i]
		if strings.HasPrefix(arg, "-") && !strings.HasPrefix(arg, "--") && len(arg) > 2 {
			out[i] = "-" + arg
		}
	}
	return out
}

// delegateToResident hands the launch over to a running instance. True means
// this process should exit.
func delegateToResident(ctx context.Context, logger *zap.Logger, client singleinstance.Client, cmd singleinstance.Command) bool {
	delegated, err := client.Send(ctx, cmd)
	if err != nil {
		logger.Warn("delegation failed, starting standalone", zap.Error(err))
		return false
	}
	if delegated {
		logger.Info("delegated to resident", zap.String("command", string(cmd)))
	}
	return delegated
}

func run(opts mainOptions) error {
	cfg, logger, err := runtimeinit.Bootstrap(runtimeinit.Options{
		LoadOptions:  config.LoadOptions{EnvPathOverride: opts.configPath, HotkeyOverride: opts.hotkey},
		SetupLogging: logutil.Setup,
	})
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	command := singleinstance.CommandShow
	if opts.change {
		command = singleinstance.CommandChange
	}
	delegateCtx, cancelDelegate := context.WithTimeout(context.Background(), 2*time.Second)
	delegated := delegateToResident(delegateCtx, logger, singleinstance.NewClient(), command)
	cancelDelegate()
	if delegated {
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := app.NewWithID(config.AppID)
	a.SetIcon(tray.Icon)
	w := a.NewWindow(cfg.WindowTitle)
	w.Resize(fyne.NewSize(420, 200))

	store := resource.NewStore(cfg.MaxFileSize())
	ctrl := selection.New(selection.Options{
		Acquire:   func() (picker.Capability, error) { return fynepicker.New(w), nil },
		Resources: store,
		Events:    events.NewZapSink(logger),
	})
	view := prompt.New(w, ctrl)
	w.SetContent(view.Content())

	showWindow := func() {
		w.Show()
		w.RequestFocus()
	}
	tray.Install(a, tray.Config{
		Title:    cfg.WindowTitle,
		OnShow:   showWindow,
		OnChange: ctrl.RequestChange,
		Logger:   logger.Named("tray"),
	})

	srv := singleinstance.NewServer(logger)
	if err := srv.Start(ctx); err != nil {
		// still usable, just without delegation
		logger.Warn("single-instance server unavailable", zap.Error(err))
		srv = nil
	}
	loop := eventloop.New(eventloop.Options{
		Server:  srv,
		Actions: ctrl,
		Post:    fyne.Do,
		Show:    showWindow,
		Logger:  logger,
	})

	if cfg.HotkeyEnabled() {
		stop, err := hotkey.Listen(cfg.Hotkey, logger, loop.HotkeyPressed)
		if err != nil {
			logger.Warn("hotkey unavailable", zap.String("hotkey", cfg.Hotkey), zap.Error(err))
		} else {
			defer stop()
			logger.Info("hotkey registered", zap.String("hotkey", cfg.Hotkey))
		}
	}

	go func() {
		if err := loop.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Warn("event loop stopped", zap.Error(err))
		}
	}()

	// Handle SIGINT/SIGTERM
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		select {
		case <-ch:
			fyne.Do(a.Quit)
		case <-ctx.Done():
		}
	}()

	a.Lifecycle().SetOnStopped(func() {
		cancel()
		view.Close()
		ctrl.Close()
		store.ReleaseAll()
		if srv != nil {
			_ = srv.Close()
		}
	})

	ctrl.Init()
	w.SetMaster()
	w.ShowAndRun()
	return nil
}
