package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/artpar/mockdeck/internal/app"
	"github.com/artpar/mockdeck/internal/config"
	"github.com/artpar/mockdeck/internal/filter"
	"github.com/artpar/mockdeck/internal/logging"
	"github.com/artpar/mockdeck/internal/sidebar"
	"github.com/artpar/mockdeck/internal/tui/components"
	"github.com/artpar/mockdeck/internal/tui/keys"
	"github.com/artpar/mockdeck/internal/tui/views"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

// GlobalOptions holds the flags shared by every command.
type GlobalOptions struct {
	ConfigPath string
	DataDir    string
	Backend    string
}

// NewRootCommand creates the root command.
func NewRootCommand(version string) *cobra.Command {
	opts := &GlobalOptions{}
	var script string

	cmd := &cobra.Command{
		Use:          "mockdeck",
		Short:        "mockdeck - a terminal sidebar for HTTP mocks",
		Long:         "mockdeck organizes HTTP mocks into groups with multi-select, drag and drop and filtering.",
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), opts, script)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "Config file (default <data-dir>/config.toml)")
	flags.StringVarP(&opts.DataDir, "data-dir", "d", "", "Data directory (default ~/.mockdeck)")
	flags.StringVar(&opts.Backend, "backend", "", "Storage backend: sqlite or yaml")
	cmd.Flags().StringVar(&script, "script", "", "JavaScript filter expression, e.g. 'mock.status >= 500'")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewMoveCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))

	return cmd
}

// LoadConfig reads the config file and applies flag overrides.
func (o *GlobalOptions) LoadConfig() (config.Config, error) {
	dataDir := o.DataDir
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}
	path := o.ConfigPath
	if path == "" {
		path = filepath.Join(dataDir, config.FileName)
	}

	cfg, err := config.Load(path, config.Default(dataDir))
	if err != nil {
		return config.Config{}, err
	}
	if o.DataDir != "" {
		cfg.Storage.Path = o.DataDir
	}
	if o.Backend != "" {
		cfg.Storage.Backend = config.Backend(o.Backend)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// consoleApp opens the app for a subcommand, logging to the command's stderr.
func (o *GlobalOptions) consoleApp(cmd *cobra.Command) (*app.App, error) {
	cfg, err := o.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewConsole(cmd.ErrOrStderr(), cfg.Logging.Level)
	if err != nil {
		return nil, err
	}
	return app.New(ctxOf(cmd), app.WithConfig(cfg), app.WithLogger(logger))
}

func ctxOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// tuiModel wraps the MainView for bubbletea
type tuiModel struct {
	view *views.MainView
}

func (m tuiModel) Init() tea.Cmd {
	return m.view.Init()
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	updated, cmd := m.view.Update(msg)
	m.view = updated.(*views.MainView)
	return m, cmd
}

func (m tuiModel) View() string {
	return m.view.View()
}

// newTUIModel wires the sidebar host, its refresh queue and the panes.
func newTUIModel(a *app.App, script string) (tuiModel, *sidebar.Host, error) {
	cfg := a.Config()

	sidebarOpts := []components.SidebarOption{
		components.WithKeyMap(keys.FromConfig(cfg.Keys)),
		components.WithSidebarLogger(a.Logger()),
		components.WithPreset(cfg.Sidebar.Filter),
	}
	if script != "" {
		compiled, err := filter.Compile(script)
		if err != nil {
			return tuiModel{}, nil, fmt.Errorf("--script: %w", err)
		}
		sidebarOpts = append(sidebarOpts, components.WithScript(compiled))
	}

	queue := sidebar.NewQueue()
	host, err := a.NewHost(sidebar.WithScheduler(queue))
	if err != nil {
		return tuiModel{}, nil, err
	}
	host.Activate()

	sb := components.NewMockSidebar(host, a.API(), sidebarOpts...)
	view := views.NewMainView(sb, components.NewMockDetail(),
		views.WithQueue(queue),
		views.WithSidebarWidth(cfg.Sidebar.Width),
		views.WithLogger(a.Logger()),
	)
	return tuiModel{view: view}, host, nil
}

// runTUI starts the TUI application
func runTUI(ctx context.Context, opts *GlobalOptions, script string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := opts.LoadConfig()
	if err != nil {
		return err
	}

	logFile, err := logging.OpenFile(cfg.Storage.Path, cfg.Logging.Level)
	if err != nil {
		return err
	}
	defer logFile.Close()

	a, err := app.New(ctx, app.WithConfig(cfg), app.WithLogger(logFile.Logger))
	if err != nil {
		return err
	}
	defer a.Close()

	model, host, err := newTUIModel(a, script)
	if err != nil {
		return err
	}
	defer host.Close()

	logFile.Info("starting tui", "data_dir", cfg.Storage.Path, "backend", cfg.Storage.Backend)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		logFile.Error("tui exited", "err", err)
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
