package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jessevdk/go-flags"

	"github.com/CrestNiraj12/terminalgallery/app"
	"github.com/CrestNiraj12/terminalgallery/infra/config"
	"github.com/CrestNiraj12/terminalgallery/infra/gallery"
	"github.com/CrestNiraj12/terminalgallery/infra/history"
	"github.com/CrestNiraj12/terminalgallery/infra/logging"
	"github.com/CrestNiraj12/terminalgallery/tui"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

type cliMode int

const (
	cliRun cliMode = iota
	cliVersion
	cliHelp
	cliHistory
	cliInvalid
)

type options struct {
	Version bool   `short:"v" long:"version" description:"Print version information and exit"`
	Config  string `short:"c" long:"config" value-name:"PATH" description:"YAML config file"`
	History int    `long:"history" value-name:"N" description:"List the N most recent uploads and exit"`
	Debug   bool   `long:"debug" description:"Write debug logs"`
}

func parseCLIArgs(args []string) (options, cliMode, string) {
	var opts options
	parser := flags.NewParser(&opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "terminalgallery"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		var ferr *flags.Error
		if errors.As(err, &ferr) && ferr.Type == flags.ErrHelp {
			return opts, cliHelp, ferr.Message
		}
		return opts, cliInvalid, err.Error()
	}
	if len(rest) > 0 {
		return opts, cliInvalid, fmt.Sprintf("unexpected argument: %s", strings.Join(rest, " "))
	}

	switch {
	case opts.Version:
		return opts, cliVersion, ""
	case opts.History < 0:
		return opts, cliInvalid, "--history must be a positive number"
	case opts.History > 0:
		return opts, cliHistory, ""
	}
	return opts, cliRun, ""
}

func usage() string {
	return "Usage: terminalgallery [-v|--version] [-c|--config PATH] [--history N] [--debug]"
}

func resolveVersionInfo(v, c, d, moduleVersion string, settings map[string]string) (string, string, string) {
	if v == "dev" {
		mv := strings.TrimSpace(moduleVersion)
		if mv != "" && mv != "(devel)" {
			v = mv
		}
	}
	if c == "none" {
		rev := strings.TrimSpace(settings["vcs.revision"])
		if rev != "" {
			if len(rev) > 12 {
				rev = rev[:12]
			}
			c = rev
		}
	}
	if d == "unknown" {
		t := strings.TrimSpace(settings["vcs.time"])
		if t != "" {
			d = t
		}
	}
	return v, c, d
}

func buildSettingsMap(in []debug.BuildSetting) map[string]string {
	out := make(map[string]string, len(in))
	for _, s := range in {
		out[s.Key] = s.Value
	}
	return out
}

func resolvedRuntimeVersionInfo(v, c, d string) (string, string, string) {
	info, ok := debug.ReadBuildInfo()
	if !ok || info == nil {
		return v, c, d
	}
	return resolveVersionInfo(v, c, d, info.Main.Version, buildSettingsMap(info.Settings))
}

// printHistory writes the n most recent uploads as a table.
func printHistory(ctx context.Context, w io.Writer, hist app.UploadHistory, n int) error {
	uploads, err := hist.Recent(ctx, n)
	if err != nil {
		return err
	}
	if len(uploads) == 0 {
		_, err := fmt.Fprintln(w, "No uploads recorded yet.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "UPLOADED\tFILE\tDESCRIPTION\tURL")
	for _, u := range uploads {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			u.UploadedAt.Local().Format("2006-01-02 15:04"), u.FileName, u.Description, u.GalleryURL)
	}
	return tw.Flush()
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	opts, mode, msg := parseCLIArgs(args)
	switch mode {
	case cliVersion:
		v, c, d := resolvedRuntimeVersionInfo(version, commit, date)
		fmt.Printf("terminalgallery %s\ncommit: %s\nbuilt: %s\n", v, c, d)
		return 0
	case cliHelp:
		fmt.Println(msg)
		return 0
	case cliInvalid:
		fmt.Fprintf(os.Stderr, "%s\n%s\n", msg, usage())
		return 2
	}

	// 1. Load config from file and environment.
	cfg, err := config.Load(opts.Config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		return 1
	}
	if opts.Debug {
		cfg.Debug = true
	}

	if err := logging.Init(cfg.DataDir, cfg.Debug); err != nil {
		fmt.Fprintf(os.Stderr, "logging: %v\n", err)
	}
	defer logging.Close()

	ctx := context.Background()

	// 2. Open the local upload journal.
	journal, err := history.Open(ctx, cfg.HistoryPath())
	if err != nil {
		if mode == cliHistory {
			fmt.Fprintf(os.Stderr, "history: %v\n", err)
			return 1
		}
		logging.Warn("upload journal unavailable", "err", err)
	}
	defer journal.Close()

	if mode == cliHistory {
		if err := printHistory(ctx, os.Stdout, journal, opts.History); err != nil {
			fmt.Fprintf(os.Stderr, "history: %v\n", err)
			return 1
		}
		return 0
	}

	// 3. Build services (concrete types satisfy app.* interfaces).
	client := gallery.NewClient(cfg.APIURL, cfg.Timeout, cfg.FetchInterval)
	deps := tui.Deps{
		Gallery:   gallery.NewListingService(client, cfg.ListPath),
		Upload:    gallery.NewUploadService(client, cfg.UploadPath),
		PageSize:  cfg.PageSize,
		Uploader:  cfg.Uploader,
		StatePath: cfg.UIStatePath(),
	}
	if journal != nil {
		deps.History = journal
	}

	uiState, err := config.LoadUIState(cfg.UIStatePath())
	if err != nil {
		logging.Warn("ignoring ui state", "err", err)
	}
	deps.HideThumbnails = uiState.HideThumbnails

	v, _, _ := resolvedRuntimeVersionInfo(version, commit, date)
	logging.Info("starting", "version", v, "api", cfg.APIURL, "page_size", cfg.PageSize)

	// 4. Run.
	p := tea.NewProgram(tui.NewApp(deps), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "terminalgallery: %v\n", err)
		return 1
	}
	return 0
}
