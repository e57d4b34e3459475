package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knights-analytics/hugot"
	"github.com/spf13/cobra"
)

const defaultNERModel = "KnightsAnalytics/distilbert-NER"

func downloadModelCmd() *cobra.Command {
	var (
		envFile string
		model   string
	)

	cmd := &cobra.Command{
		Use:   "download-model [dest]",
		Short: "Download the token classification model for the hugot recognizer",
		Long: `Download an ONNX token classification model from Hugging Face.

The destination defaults to NER_MODEL_DIR, or {data_dir}/models.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(envFile)
			if err != nil {
				return err
			}

			dest := cfg.NER().ModelDir()
			if dest == "" {
				dest = filepath.Join(cfg.DataDir(), "models")
			}
			if len(args) == 1 {
				dest = args[0]
			}

			if err := os.MkdirAll(dest, 0o755); err != nil {
				return fmt.Errorf("create directory: %w", err)
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "Downloading %s to %s...\n", model, dest)

			modelPath, err := hugot.DownloadModel(model, dest, hugot.NewDownloadOptions())
			if err != nil {
				return fmt.Errorf("download model: %w", err)
			}

			_, _ = fmt.Fprintf(out, "Model downloaded to %s\n", modelPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file")
	cmd.Flags().StringVar(&model, "model", defaultNERModel, "Hugging Face model name")

	return cmd
}
