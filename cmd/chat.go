package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/kiso-design/intake-cli/internal/model"
	"github.com/kiso-design/intake-cli/internal/orchestrate"
)

var chatSessionID string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive intake conversation on the terminal",
	Long: `Starts a REPL. Plain lines are chat messages. Special commands:
  /file <path>   extract from a document
  /set k=v ...   submit confirmed field values like a form
  /status        show current phase progress
  /next          advance to the next phase when possible
  /quit          exit`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		e, err := initEngine(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		session, err := resumeOrStart(cmd, e, chatSessionID)
		if err != nil {
			return err
		}
		fmt.Printf("セッション %s（フェーズ %s）\n", session.ID, session.Phase)

		scanner := bufio.NewScanner(os.Stdin)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}

			var result *orchestrate.Result
			switch {
			case line == "/quit":
				return nil
			case line == "/status":
				printStatus(e, session)
				continue
			case line == "/next":
				if !session.CanProceed {
					fmt.Println("現在のフェーズはまだ完了していません。")
					continue
				}
				session.Phase = session.Phase.Next()
				session.CanProceed = false
				if err := persist(cmd, e, session); err != nil {
					return err
				}
				fmt.Printf("フェーズ %s に進みました。\n", session.Phase)
				continue
			case strings.HasPrefix(line, "/file "):
				path := strings.TrimSpace(strings.TrimPrefix(line, "/file "))
				content, err := os.ReadFile(path)
				if err != nil {
					fmt.Printf("ファイルを読み込めません: %v\n", err)
					continue
				}
				result, err = e.Coord.HandleDocument(ctx, session, filepath.Base(path), content)
				if err != nil {
					fmt.Printf("解析に失敗しました: %v\n", err)
					continue
				}
			case strings.HasPrefix(line, "/set "):
				values := parseAssignments(strings.TrimPrefix(line, "/set "))
				if len(values) == 0 {
					fmt.Println("使い方: /set key=value [key=value ...]")
					continue
				}
				result, err = e.Coord.HandleForm(ctx, session, values)
				if err != nil {
					fmt.Printf("入力を処理できませんでした: %v\n", err)
					continue
				}
			default:
				result, err = e.Coord.HandleText(ctx, session, line)
				if err != nil {
					fmt.Printf("メッセージを処理できませんでした: %v\n", err)
					continue
				}
			}

			if err := persist(cmd, e, session); err != nil {
				return err
			}
			fmt.Println(result.Message)
		}
		return scanner.Err()
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatSessionID, "session", "", "resume an existing session by ID")
	rootCmd.AddCommand(chatCmd)
}

func resumeOrStart(cmd *cobra.Command, e *env, id string) (*model.SessionState, error) {
	if id == "" {
		return model.NewSession(), nil
	}
	session, err := e.Store.GetSession(cmd.Context(), id)
	if err != nil {
		return nil, eris.Wrapf(err, "resume session %q", id)
	}
	return session, nil
}

func persist(cmd *cobra.Command, e *env, session *model.SessionState) error {
	projectID, err := e.Store.SaveProject(cmd.Context(), session.ProjectID, session.Fields)
	if err != nil {
		return eris.Wrap(err, "save project")
	}
	session.ProjectID = projectID
	if err := e.Store.SaveSession(cmd.Context(), session); err != nil {
		return eris.Wrap(err, "save session")
	}
	return nil
}

func printStatus(e *env, session *model.SessionState) {
	status, err := e.Coord.EvaluatePhase(session.Phase, session.Fields)
	if err != nil {
		fmt.Printf("進捗を評価できません: %v\n", err)
		return
	}
	fmt.Printf("フェーズ %s: %d%% 完了\n", status.Phase, status.Progress)
	for _, key := range status.CompletedFields {
		if f, ok := session.Fields[key]; ok {
			fmt.Printf("  ✓ %s: %s\n", f.Label, f.Value)
		}
	}
	for _, key := range status.MissingFields {
		fmt.Printf("  ✗ %s\n", e.Catalog.Label(key))
	}
	for _, s := range status.Suggestions {
		fmt.Println(s)
	}
}

// parseAssignments parses "key=value" tokens. Values may contain spaces when
// the token is the last one; tokens are split on whitespace first.
func parseAssignments(s string) map[string]string {
	out := make(map[string]string)
	for _, tok := range strings.Fields(s) {
		k, v, ok := strings.Cut(tok, "=")
		if !ok || k == "" || v == "" {
			continue
		}
		out[k] = v
	}
	return out
}
