package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	actingUser string
)

var rootCmd = &cobra.Command{
	Use:   "lobby",
	Short: "Chat room lobby",
	Long: `lobby lists chat rooms and lets their creators rename or delete them.

The room collection is persisted under one key (chatRooms by default) in the
configured storage backend: file, memory, redis, gorm or s3.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "./config", "config directory or yaml file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log.level")
	rootCmd.PersistentFlags().StringVarP(&actingUser, "user", "u", "", "override identity.user")

	rootCmd.AddCommand(serveCmd, tuiCmd, roomsCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
