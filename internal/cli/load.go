package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load [path]",
	Short: "Load CSV data into the corpus",
	Long: `Load CSV files from the data directory, derive row texts and generate
embeddings. Embeddings are cached, so reloading an unchanged dataset is cheap.

Examples:
  edubot load           # Load the configured data directory
  edubot load ./data    # Load a specific directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	path := cfg.Data.Dir
	if len(args) > 0 {
		path = args[0]
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("invalid path: %w", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	fmt.Printf("Loading %s...\n", path)

	var bar *progressbar.ProgressBar
	var barMu sync.Mutex
	a.load.OnProgress = func(done, total int) {
		barMu.Lock()
		defer barMu.Unlock()

		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(done)
	}

	result, err := a.load.Load(path)
	if err != nil {
		return fmt.Errorf("load failed: %w", err)
	}

	fmt.Printf("\nLoad complete:\n")
	fmt.Printf("  Files:      %d\n", result.Files)
	fmt.Printf("  Rows:       %d\n", result.Rows)
	if result.Embedded > 0 || result.CacheHits > 0 {
		fmt.Printf("  Embedded:   %d\n", result.Embedded)
		fmt.Printf("  Cache hits: %d\n", result.CacheHits)
	}

	return nil
}
