package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/locvowork/array_to_excel/internal/bootstrap"
	"github.com/locvowork/array_to_excel/internal/logger"
	"github.com/locvowork/array_to_excel/internal/service"
)

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "array-to-excel",
		Short:         "Convert JSON two-dimensional arrays into xlsx spreadsheets",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.AddCommand(newServeCommand(), newMCPCommand(), newConvertCommand())
	return root
}

func initApp(ctx context.Context) (*bootstrap.App, error) {
	app := bootstrap.NewApp()
	if err := app.Initialize(ctx); err != nil {
		return nil, err
	}
	return app, nil
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the conversion over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app, err := initApp(ctx)
			if err != nil {
				return err
			}
			return app.Run(ctx)
		},
	}
}

func newMCPCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the array_to_excel tool over stdio (Model Context Protocol)",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := initApp(cmd.Context())
			if err != nil {
				return err
			}
			return app.RunTools(cmd.Context())
		},
	}
}

func newConvertCommand() *cobra.Command {
	var (
		input  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a data_json file into an xlsx file",
		Long: `Reads a data_json payload and writes the spreadsheet.

Payload format:
  {"data": [["a", 1]], "col_widths": {"1": 20}, "row_heights": {"1": 30},
   "merges": [{"start_row": 1, "start_col": 1, "end_row": 1, "end_col": 2}],
   "cell_styles": [{"start_row": 1, "start_col": 1, "style": {"bold": true}}]}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if input == "" {
				return errors.New("--input is required: provide a JSON file or - for stdin")
			}

			var (
				raw []byte
				err error
			)
			if input == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(input)
			}
			if err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}

			app, err := initApp(ctx)
			if err != nil {
				return err
			}

			msg := app.Converter.Invoke(ctx, map[string]interface{}{service.ParamDataJSON: string(raw)})
			if !msg.IsBlob() {
				return errors.New(msg.Text)
			}

			if output == "" {
				output = msg.Meta.OutputFilename
			}
			if err := os.WriteFile(output, msg.Blob, 0o644); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			logger.InfoLog(ctx, "wrote %s", output)
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", output, len(msg.Blob))
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "data_json file, or - for stdin")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default output.xlsx)")
	return cmd
}
