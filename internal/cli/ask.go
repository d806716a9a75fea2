package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

var (
	askQuery   string
	askKeyword bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a single question from the command line",
	Long: `Load the dataset, answer one question and exit.

Examples:
  edubot ask "What is MDCAT?"
  edubot ask -q "mdcat ki fees kya hain"
  edubot ask --keyword "passing marks for ECAT"`,
	Args: cobra.ArbitraryArgs,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askQuery, "query", "q", "", "question to answer")
	askCmd.Flags().BoolVar(&askKeyword, "keyword", false, "use keyword matching instead of embeddings")
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := askQuery
	if question == "" {
		question = strings.Join(args, " ")
	}
	if strings.TrimSpace(question) == "" {
		return fmt.Errorf("no question given, use -q or pass it as an argument")
	}

	cfg := GetConfig()
	if askKeyword {
		cfg.Retrieve.Strategy = "lexical"
	}

	a, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	dataDir, err := filepath.Abs(cfg.Data.Dir)
	if err != nil {
		return fmt.Errorf("invalid data directory: %w", err)
	}
	if _, err := a.load.Load(dataDir); err != nil {
		return fmt.Errorf("failed to load data: %w", err)
	}

	ctx := context.Background()
	if askKeyword {
		result, err := a.ask.Chat(ctx, question)
		if err != nil {
			return err
		}
		if result.IsRomanUrdu {
			fmt.Printf("Detected Roman Urdu: %s\n\n", result.DisplayQuestion)
		}
		fmt.Println(result.Answer)
		return nil
	}

	result, err := a.ask.Ask(ctx, question)
	if err != nil {
		return err
	}
	if result.TranslationNote != "" {
		fmt.Printf("%s\n\n", result.TranslationNote)
	}
	fmt.Println(result.Answer)
	return nil
}
