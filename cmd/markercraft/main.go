package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ivlev/markercraft/internal/catalog"
	"github.com/ivlev/markercraft/internal/config"
	"github.com/ivlev/markercraft/internal/engine"
	"github.com/ivlev/markercraft/internal/guidance"
	"github.com/ivlev/markercraft/internal/host"
	"github.com/ivlev/markercraft/internal/logging"
	"github.com/ivlev/markercraft/internal/manifest"
	"github.com/ivlev/markercraft/internal/retrofit"
	"github.com/ivlev/markercraft/internal/system"
	"github.com/ivlev/markercraft/internal/validate"
)

var buildVersion = "dev"

var (
	// Global flags
	configPath  string
	projectPath string
	verbose     bool
	showStats   bool
	hostShape   string
	journalPath string

	// Behaviour switches
	forceReseed   bool
	forceRetrofit bool
	noAdjacency   bool

	// verify
	tolerance int

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "markercraft",
	Short: "Seed and enrich timeline markers with cut guidance",
	Long: `markercraft places template markers on fresh timelines, appends cut guidance
derived from each timeline title to every marker note, and keeps existing projects
in line through an idempotent retrofit pass.

The project is a YAML file describing timelines and their markers. Without
--project the newest project file in the projects directory is used.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Seed empty timelines, retrofit, then validate",
	RunE:  runBuild,
}

var retrofitCmd = &cobra.Command{
	Use:   "retrofit",
	Short: "Append guidance to markers that lack it",
	RunE:  runRetrofit,
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report schema, bounds and collision problems",
	RunE:  runValidate,
}

var exportCmd = &cobra.Command{
	Use:   "export [manifest.json]",
	Short: "Write a JSON manifest of every marker in the project",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runExport,
}

var verifyCmd = &cobra.Command{
	Use:   "verify <manifest.json>",
	Short: "Compare the project with a previously exported manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runVerify,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to markercraft.yaml")
	rootCmd.PersistentFlags().StringVarP(&projectPath, "project", "p", "", "Project file (default: newest file in projects/)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&showStats, "stats", false, "Print a run report with process statistics")
	rootCmd.PersistentFlags().StringVar(&hostShape, "shape", "", "Marker listing shape: keyed or list")
	rootCmd.PersistentFlags().StringVar(&journalPath, "journal", "", "Replace journal for crash recovery")

	buildCmd.Flags().BoolVar(&forceReseed, "force-reseed", false, "Replace markers on timelines that already have some")
	buildCmd.Flags().BoolVar(&noAdjacency, "no-adjacency", false, "Keep template durations instead of butt-joining markers")
	for _, c := range []*cobra.Command{buildCmd, retrofitCmd} {
		c.Flags().BoolVar(&forceRetrofit, "force-retrofit", false, "Re-resolve guidance on markers that already carry it")
	}
	verifyCmd.Flags().IntVar(&tolerance, "tolerance", 1, "Allowed frame drift per marker")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(retrofitCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(verifyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "[-]", err)
		os.Exit(1)
	}
}

// setup loads configuration, applies flags over it and builds the logger.
func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("project") {
		c.ProjectPath = projectPath
	}
	if flags.Changed("verbose") {
		c.Verbose = verbose
	}
	if flags.Changed("stats") {
		c.ShowStats = showStats
	}
	if flags.Changed("shape") {
		c.HostShape = hostShape
	}
	if flags.Changed("journal") {
		c.JournalPath = journalPath
	}
	if flags.Changed("force-reseed") {
		c.ForceReseed = forceReseed
	}
	if flags.Changed("force-retrofit") {
		c.ForceRetrofit = forceRetrofit
	}
	if flags.Changed("no-adjacency") {
		c.EnableAdjacency = !noAdjacency
	}
	if err := c.Validate(); err != nil {
		return err
	}
	c.BuildVersion = buildVersion
	cfg = c

	if logger, err = logging.New(cfg.Verbose); err != nil {
		return err
	}
	return nil
}

// openProject resolves the project file and wires the engine around it.
func openProject() (*engine.Project, *host.FileStore, error) {
	path := cfg.ProjectPath
	if path == "" {
		latest, err := system.FindLatestProject(cfg.ProjectsDir)
		if err != nil {
			return nil, nil, fmt.Errorf("%w. Put a project file in %s/", err, cfg.ProjectsDir)
		}
		path = latest
		fmt.Printf("[*] Selected project: %s\n", path)
	}

	store, err := host.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open project: %w", err)
	}
	store.Shape = host.Shape(cfg.HostShape)
	store.RejectZeroDuration = cfg.RejectZeroDur

	table, err := guidance.LoadTable(cfg.GuidancePath)
	if err != nil {
		return nil, nil, err
	}
	cat, err := catalog.Load(cfg.TemplatesPath)
	if err != nil {
		return nil, nil, err
	}

	p := engine.NewProject(cfg, store, cat, guidance.NewResolver(table), logger)
	if cfg.JournalPath != "" {
		if p.Journal, err = retrofit.OpenJournal(cfg.JournalPath); err != nil {
			return nil, nil, err
		}
	}
	return p, store, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	p, store, err := openProject()
	if err != nil {
		return err
	}
	rep, runErr := p.Run(ctx)
	// Markers already placed are kept even when the run was interrupted.
	if err := store.Save(); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	if runErr != nil {
		return runErr
	}
	if cfg.ManifestPath != "" {
		if err := writeManifest(ctx, p, store, cfg.ManifestPath); err != nil {
			return err
		}
	}

	fmt.Printf("[+++] Done: %d markers added, %d retrofitted, %d warnings\n",
		rep.Seed.Added, rep.Retrofit.Updated, len(rep.Warnings))
	return nil
}

func runRetrofit(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	p, store, err := openProject()
	if err != nil {
		return err
	}
	res, runErr := p.Retrofit(ctx)
	if err := store.Save(); err != nil {
		return fmt.Errorf("save project: %w", err)
	}
	if runErr != nil {
		return runErr
	}
	fmt.Printf("[+++] Retrofit: %d updated, %d already tagged, %d skipped, %d failed, %d at shared positions\n",
		res.Updated, res.AlreadyTagged, res.Skipped, res.Failed, res.Collisions)
	return nil
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	p, _, err := openProject()
	if err != nil {
		return err
	}
	ws, err := p.Validate(ctx)
	if err != nil {
		return err
	}
	for _, w := range ws {
		if w.Category == validate.Guidance && !cfg.Verbose {
			continue
		}
		fmt.Println(w.String())
	}
	counts := validate.Count(ws)
	fmt.Printf("[*] %d warnings (schema %d, bounds %d, collision %d, guidance %d)\n", len(ws),
		counts[validate.Schema], counts[validate.Bounds], counts[validate.Collision], counts[validate.Guidance])
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	p, store, err := openProject()
	if err != nil {
		return err
	}
	path := cfg.ManifestPath
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		path = "markers_manifest.json"
	}
	return writeManifest(ctx, p, store, path)
}

func writeManifest(ctx context.Context, p *engine.Project, store *host.FileStore, path string) error {
	m, err := p.Manifest(ctx, store.Project().Name)
	if err != nil {
		return err
	}
	if err := manifest.Write(path, m); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}
	fmt.Printf("[*] Manifest: %d timelines, %d markers -> %s\n", len(m.Timelines), m.MarkersTotal, path)
	return nil
}

func runVerify(cmd *cobra.Command, args []string) error {
	ctx, cancel := signalContext()
	defer cancel()

	want, err := manifest.Read(args[0])
	if err != nil {
		return err
	}
	p, _, err := openProject()
	if err != nil {
		return err
	}
	tls, err := p.Timelines(ctx)
	if err != nil {
		return err
	}

	details := manifest.Verify(want, tls, tolerance)
	for _, d := range details {
		if d.Status == manifest.OK {
			continue
		}
		fmt.Printf("[!] %s: %s\n", d.Timeline, d.Status)
		for _, e := range d.Errors {
			fmt.Printf("    error: %s\n", e)
		}
		for _, w := range d.Warnings {
			fmt.Printf("    warning: %s\n", w)
		}
	}
	errs, warns := manifest.Totals(details)
	fmt.Printf("[*] Verified %d timelines: %d errors, %d warnings\n", len(details), errs, warns)
	if errs > 0 {
		return fmt.Errorf("manifest verification failed with %d errors", errs)
	}
	return nil
}
