package main

import (
	"fmt"
	"os"

	"microblog/internal/avatar"

	"github.com/spf13/cobra"
)

var (
	avatarSize int
	avatarOut  string
)

var avatarCmd = &cobra.Command{
	Use:   "avatar <text>",
	Short: "Render the avatar for the first letter of text as PNG",
	Args:  cobra.ExactArgs(1),
	RunE:  runAvatar,
}

func init() {
	avatarCmd.Flags().IntVar(&avatarSize, "size", avatar.DefaultWidth, "edge length in pixels")
	avatarCmd.Flags().StringVarP(&avatarOut, "output", "o", "", "output file (default <letter>.png)")
	rootCmd.AddCommand(avatarCmd)
}

func runAvatar(cmd *cobra.Command, args []string) error {
	r, err := avatar.NewRenderer()
	if err != nil {
		return err
	}
	letter := avatar.FirstLetter(args[0])
	png, err := r.Render(letter, avatarSize, avatarSize)
	if err != nil {
		return err
	}

	out := avatarOut
	if out == "" {
		out = letter + ".png"
	}
	if err := os.WriteFile(out, png, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%dx%d)\n", out, avatarSize, avatarSize)
	return nil
}
