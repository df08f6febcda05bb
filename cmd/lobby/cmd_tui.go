package main

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/weiawesome/room-lobby/internal/tui"
	pkglog "github.com/weiawesome/room-lobby/pkg/log"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse and manage rooms in the terminal",
	Long: `Opens the interactive lobby. The terminal belongs to the UI while it runs,
so logs go to log.file, or nowhere when it is unset.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := bootstrap(ctx, io.Discard)
		if err != nil {
			return err
		}
		defer a.Close()

		l := pkglog.L()
		l.Info().Str(pkglog.FieldSurface, "tui").Str(pkglog.FieldActor, a.cfg.Identity.User).Msg("lobby opened")

		return tui.Run(pkglog.WithActor(ctx, a.cfg.Identity.User), a.session())
	},
}
