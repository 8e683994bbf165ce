package main

import (
	"fmt"
	"os"

	"petshop/internal/config"
	"petshop/internal/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var (
	// Global flags
	verbose    bool
	configPath string
	themeName  string

	// cfg is loaded in PersistentPreRunE.
	cfg *config.Config

	// Logger
	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "petshop",
	Short: "Purrfect Potions - a terminal pet-product storefront",
	Long: `petshop is a storefront for magical pet products.

Browse the catalog by category or search, keep a cart, mark favorites and
check out with card or PIX. Payments are simulated and nothing is kept
between runs.

Run without arguments to open the interactive storefront.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config %s: %w", configPath, err)
		}
		if themeName != "" {
			cfg.UI.Theme = themeName
		}
		if verbose {
			cfg.Logging.Level = "debug"
		}

		// The storefront owns the terminal, so it only logs to a file.
		interactive := cmd == cmd.Root()
		if interactive && cfg.Logging.File == "" {
			logging.Disable()
		} else if err := logging.Initialize(cfg.Logging.Settings()); err != nil {
			return err
		}
		logger = logging.Get(logging.CategoryBoot).Zap()
		logger.Debug("config loaded", zap.String("path", configPath))
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractive(cmd.Context())
	},
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "List products",
	Long: `Prints the catalog as a table, optionally filtered.

Examples:
  petshop catalog
  petshop catalog --category "Magic Potions"
  petshop catalog --search sleep`,
	Args: cobra.NoArgs,
	RunE: runCatalog,
}

var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "List product categories",
	Args:  cobra.NoArgs,
	RunE:  runCategories,
}

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Show the seeded order history",
	Args:  cobra.NoArgs,
	RunE:  runOrders,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "petshop %s\n", version)
	},
}

var (
	catalogCategory string
	catalogSearch   string
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultConfigPath(), "Path to config file")
	rootCmd.PersistentFlags().StringVar(&themeName, "theme", "", "Color theme: auto, light or dark")

	catalogCmd.Flags().StringVar(&catalogCategory, "category", "", "Only show this category")
	catalogCmd.Flags().StringVarP(&catalogSearch, "search", "s", "", "Only show products matching this text")

	rootCmd.AddCommand(catalogCmd, categoriesCmd, ordersCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
