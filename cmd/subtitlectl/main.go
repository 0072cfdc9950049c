package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/subtitle-flow/backend/internal/subtitle"
	"github.com/subtitle-flow/backend/internal/translate"
)

var (
	sourceLang string
	targetLang string
	batchSize  int
	outputPath string
	apiKey     string
	model      string
	verbose    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "subtitlectl",
		Short: "Inspect, convert and translate SRT/VTT subtitle files",
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(inspectCmd(), convertCmd(), translateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// loadFile reads, detects and parses a subtitle file.
func loadFile(path string) (*subtitle.File, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	content := string(raw)
	format := subtitle.Detect(content)
	if format == subtitle.FormatUnknown {
		return nil, fmt.Errorf("%s: unrecognized subtitle format", path)
	}

	cues, err := subtitle.Parse(content, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return subtitle.NewFile(filepath.Base(path), format, cues, len(raw)), nil
}

func inspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Parse a subtitle file and report its structure and validation issues",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadFile(args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Format:    %s\n", file.Format)
			fmt.Printf("Cues:      %d\n", file.Metadata.TotalCues)
			fmt.Printf("Duration:  %s\n", subtitle.FormatTimestamp(file.Metadata.TotalDuration, file.Format))
			fmt.Printf("Size:      %d bytes\n", file.Metadata.ByteSize)
			fmt.Printf("Estimate:  ~%ds to translate (batch size %d)\n",
				subtitle.EstimateSeconds(file.Metadata.TotalCues, subtitle.DefaultBatchSize),
				subtitle.DefaultBatchSize)

			issues := subtitle.ValidateFile(file, subtitle.DefaultLimits)
			if len(issues) == 0 {
				fmt.Println("Valid:     yes")
				return nil
			}
			fmt.Println("Valid:     no")
			for _, issue := range issues {
				fmt.Printf("  - [%s] %s\n", issue.Field, issue.Message)
			}
			return nil
		},
	}
}

func convertCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Convert a subtitle file between SRT and VTT",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := loadFile(args[0])
			if err != nil {
				return err
			}

			target := subtitle.FormatVTT
			if file.Format == subtitle.FormatVTT {
				target = subtitle.FormatSRT
			}

			content, _, err := subtitle.Render(file, target)
			if err != nil {
				return err
			}

			out := outputPath
			if out == "" {
				out = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + target.Extension()
			}
			if err := os.WriteFile(out, []byte(content), 0644); err != nil {
				return err
			}
			fmt.Printf("Wrote %s (%d cues, %s)\n", out, file.Metadata.TotalCues, target)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file path")
	return cmd
}

func translateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate <file>",
		Short: "Translate a subtitle file, preserving timing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if apiKey == "" {
				apiKey = os.Getenv("GEMINI_API_KEY")
			}
			if apiKey == "" {
				return fmt.Errorf("an API key is required (--api-key or GEMINI_API_KEY)")
			}

			logger := newLogger()

			file, err := loadFile(args[0])
			if err != nil {
				return err
			}
			if issues := subtitle.ValidateFile(file, subtitle.DefaultLimits); len(issues) > 0 {
				for _, issue := range issues {
					fmt.Fprintf(os.Stderr, "validation: [%s] %s\n", issue.Field, issue.Message)
				}
				return fmt.Errorf("subtitle file failed validation")
			}
			if issues := subtitle.ValidateRequest(sourceLang, targetLang); len(issues) > 0 {
				for _, issue := range issues {
					fmt.Fprintf(os.Stderr, "validation: [%s] %s\n", issue.Field, issue.Message)
				}
				return fmt.Errorf("translation request failed validation")
			}

			gemini := translate.NewGeminiTranslator(apiKey, model, 5*time.Minute, logger)
			orchestrator := translate.NewOrchestrator(gemini, logger)

			merged, err := orchestrator.Translate(context.Background(), file.Cues, sourceLang, targetLang, batchSize,
				func(p translate.Progress) {
					fmt.Printf("\rbatch %d/%d (%d/%d cues)", p.CurrentBatch, p.TotalBatches, p.Translated, p.Total)
				})
			fmt.Println()
			if err != nil {
				return err
			}

			file.Cues = merged
			content, name, err := subtitle.Render(file, file.Format)
			if err != nil {
				return err
			}

			out := outputPath
			if out == "" {
				out = filepath.Join(filepath.Dir(args[0]), name)
			}
			if err := os.WriteFile(out, []byte(content), 0644); err != nil {
				return err
			}
			fmt.Printf("Wrote %s (%d cues, %s -> %s)\n", out, len(merged), sourceLang, targetLang)
			return nil
		},
	}
	cmd.Flags().StringVarP(&sourceLang, "source", "s", "English", "source language")
	cmd.Flags().StringVarP(&targetLang, "target", "t", "", "target language (required)")
	cmd.Flags().IntVarP(&batchSize, "batch-size", "b", subtitle.DefaultBatchSize, "cues per translation call")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "Gemini API key (defaults to GEMINI_API_KEY)")
	cmd.Flags().StringVar(&model, "model", "", "Gemini model override")
	_ = cmd.MarkFlagRequired("target")
	return cmd
}
