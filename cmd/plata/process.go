package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/plata/internal/model"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	textStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

func processCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process [mensaje]",
		Short: "Run the message pipeline once and print the results",
		Long: `Classify a message, extract its financial actions and print them.

Nothing is saved. Use it to check prompts and provider configuration:

  plata process "gasté 500 en comida ayer"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runProcess,
	}

	cmd.Flags().String("platform", "console", "render results as console, telegram or whatsapp")

	return cmd
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := slog.Default()
	platformName, _ := cmd.Flags().GetString("platform")
	platform := model.ParsePlatform(platformName)

	c, _, err := buildPipeline(ctx, logger)
	if err != nil {
		return err
	}
	defer c.close()

	content := strings.Join(args, " ")
	results := c.orchestrator.ProcessContent(ctx, content)

	out := cmd.OutOrStdout()
	for i, r := range results {
		if i > 0 {
			fmt.Fprintln(out)
		}
		switch {
		case r.IsData():
			fmt.Fprintln(out, r.Data.Render(platform))
		case r.IsError():
			fmt.Fprintln(out, errorStyle.Render(r.Err))
		default:
			fmt.Fprintln(out, textStyle.Render(r.Text))
		}
	}

	return nil
}
