package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"ringtone-picker/src/config"
	"ringtone-picker/src/events"
	"ringtone-picker/src/logutil"
	"ringtone-picker/src/picker"
	"ringtone-picker/src/resource"
	"ringtone-picker/src/selection"
)

var errNotLoaded = errors.New("file could not be loaded as a ringtone")

type cliOptions struct {
	filePath   string
	jsonOutput bool
	verbose    bool
	maxSizeMB  int
	configPath string
}

type streams struct {
	in  io.Reader
	out io.Writer
}

func main() {
	if err := runWithArgs(normalizeLegacyArgs(os.Args), streams{in: os.Stdin, out: os.Stdout}); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runWithArgs(args []string, s streams) error {
	if len(args) == 0 {
		args = []string{"ringtone-cli"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts, s)
	cmd.SetArgs(args[1:])
	return cmd.Execute()
}

func newRootCmd(opts *cliOptions, s streams) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "ringtone-cli",
		Short:         "Check whether an MP3 file loads as a session ringtone",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithOptions(*opts, s)
		},
	}

	cmd.Flags().StringVar(&opts.filePath, "file", "", "Path to MP3 file (use '-' for stdin)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output results as JSON")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output to stderr")
	cmd.Flags().IntVar(&opts.maxSizeMB, "max-size-mb", 0, "Size limit in MB (overrides MAX_FILE_SIZE_MB)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "Path to a .env style config file")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

type Report struct {
	Source        string `json:"source"`
	Name          string `json:"name,omitempty"`
	MIMEType      string `json:"mime_type,omitempty"`
	Size          int    `json:"size_bytes"`
	URI           string `json:"uri,omitempty"`
	Ready         bool   `json:"ready"`
	PromptVisible bool   `json:"prompt_visible"`
	Error         string `json:"error,omitempty"`
	Timestamp     string `json:"timestamp"`
}

func runWithOptions(opts cliOptions, s streams) error {
	logger, err := logutil.Console(opts.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.LoadWithOptions(config.LoadOptions{EnvPathOverride: opts.configPath})
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	maxSize := cfg.MaxFileSize()
	if opts.maxSizeMB > 0 {
		maxSize = int64(opts.maxSizeMB) * 1024 * 1024
	}

	rec := &events.Recorder{}
	store := resource.NewStore(maxSize)
	ctrl := selection.New(selection.Options{
		Acquire: func() (picker.Capability, error) {
			return picker.NewPathCapability(opts.filePath, s.in), nil
		},
		Resources: store,
		Events:    tee{rec, events.NewZapSink(logger)},
	})
	ctrl.Init()
	ctrl.TriggerSelection()
	st := ctrl.State()

	report := buildReport(opts.filePath, st, rec)
	if err := outputReport(s.out, report, opts.jsonOutput); err != nil {
		return err
	}
	ctrl.Close()

	if !report.Ready {
		if report.Error != "" {
			return fmt.Errorf("%w: %s", errNotLoaded, report.Error)
		}
		return errNotLoaded
	}
	return nil
}

// tee fans one event out to several sinks.
type tee []events.Sink

func (t tee) Emit(ev events.Event) {
	for _, s := range t {
		s.Emit(ev)
	}
}

func buildReport(source string, st selection.State, rec *events.Recorder) Report {
	r := Report{
		Source:        source,
		Ready:         st.Ready,
		PromptVisible: st.PromptVisible,
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
	}
	if h := st.Resource; h != nil {
		r.Name = h.Name()
		r.MIMEType = h.MIMEType()
		r.Size = h.Size()
		r.URI = h.URI()
		return r
	}
	for _, ev := range rec.Events() {
		switch ev.Kind {
		case events.DerivationFailed, events.PickerError:
			if ev.Err != nil {
				r.Error = ev.Err.Error()
			}
		case events.PickerCancelled:
			r.Error = "not an MP3 file"
		}
	}
	return r
}

func outputReport(w io.Writer, r Report, jsonOutput bool) error {
	if jsonOutput {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(r); err != nil {
			return fmt.Errorf("failed to encode JSON output: %w", err)
		}
		return nil
	}
	if !r.Ready {
		_, err := fmt.Fprintf(w, "not loaded\t%s\n", r.Source)
		return err
	}
	_, err := fmt.Fprintf(w, "loaded\t%s\t%s\t%d bytes\t%s\n", r.Name, r.MIMEType, r.Size, r.URI)
	return err
}

func normalizeLegacyArgs(args []string) []string {
	if len(args) == 0 {
		return args
	}

	normalized := make([]string, len(args))
	copy(normalized, args)

	for i := 1; i < len(normalized); i++ {
		arg := normalized[i]
		for _, name := range []string{"file", "json", "verbose", "max-size-mb", "config"} {
			if arg == "-"+name || strings.HasPrefix(arg, "-"+name+"=") {
				normalized[i] = "-" + arg
				break
			}
		}
	}

	return normalized
}
