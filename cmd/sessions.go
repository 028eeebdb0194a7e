package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/kiso-design/intake-cli/internal/model"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List stored intake sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		sessions, err := e.Store.ListSessions(cmd.Context())
		if err != nil {
			return eris.Wrap(err, "list sessions")
		}
		if len(sessions) == 0 {
			fmt.Println("no sessions")
			return nil
		}
		for _, s := range sessions {
			fmt.Printf("%s  phase=%s  fields=%d  updated=%s\n",
				s.ID, s.Phase, len(s.Fields), s.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var sessionsShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Print one session with its project summary",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := initEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer e.Close()

		session, err := e.Store.GetSession(cmd.Context(), args[0])
		if err != nil {
			return eris.Wrapf(err, "get session %q", args[0])
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"session": session,
			"info":    model.BuildProjectInfo(session.Fields),
		})
	},
}

func init() {
	sessionsCmd.AddCommand(sessionsShowCmd)
	rootCmd.AddCommand(sessionsCmd)
}
