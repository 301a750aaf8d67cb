package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tunnelcheck/tunnelcheck/internal/relnotes"
)

func init() {
	relnotesCmd := &cobra.Command{
		Use:   "release-notes <model>",
		Short: "Generate release notes from the commit history via a chat-completion API",
		Long: `Generate release notes for the tunnel project. Reads COMMITS,
GITHUB_REPOSITORY, RELEASE_NAME and NEW_VERSION from the environment, sends
them to the chat-completion endpoint at OPENAI_BASE_URL (authenticated with
OPENAI_API_KEY), and writes the reply to release_notes.md.

Typically run from CI on a tagged release.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := relnotes.FromEnv(args[0])
			if err != nil {
				return fmt.Errorf("release-notes: %w", err)
			}
			if err := relnotes.Generate(cfg); err != nil {
				return fmt.Errorf("release-notes: %w", err)
			}
			fmt.Printf("Wrote %s\n", cfg.OutputPath)
			return nil
		},
	}

	rootCmd.AddCommand(relnotesCmd)
}
