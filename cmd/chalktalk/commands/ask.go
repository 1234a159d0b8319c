package commands

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chalktalk/chalktalk/pkg/cli"
	"github.com/chalktalk/chalktalk/pkg/qa"
)

var askFlags struct {
	server   string
	userID   string
	sceneOut string
	format   string
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a question and watch the answer stream in",
	Long: `Submit a question to a running server and follow its event stream.
The explanation prints to stdout as it generates. Once the answer
completes, --scene-out saves the scene document for 'chalktalk play'
and 'chalktalk render'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		question := strings.Join(args, " ")
		base := strings.TrimSuffix(askFlags.server, "/")

		answerID, err := runAsk(cmd.Context(), base, askFlags.userID, question, os.Stdout)
		if err != nil {
			return err
		}
		if askFlags.sceneOut == "" && askFlags.format == "" {
			return nil
		}
		return saveScene(cmd.Context(), base, answerID)
	},
}

// runAsk submits a question and streams its answer to out. The event
// stream is opened, and its connected event awaited, before the question
// is submitted: the hub has no replay, so subscribing afterwards can miss
// an answer that completes quickly (a failing backend falls back within
// microseconds).
func runAsk(ctx context.Context, base, userID, question string, out io.Writer) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/stream", nil)
	if err != nil {
		return "", err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("server unreachable (is 'chalktalk serve' running?): %w", err)
	}
	defer resp.Body.Close()

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	if err := awaitConnected(scanner); err != nil {
		return "", err
	}

	answerID, err := submitQuestion(ctx, base, userID, question)
	if err != nil {
		return "", err
	}
	if err := followAnswer(scanner, answerID, out); err != nil {
		return "", err
	}
	return answerID, nil
}

func submitQuestion(ctx context.Context, base, userID, question string) (string, error) {
	body, err := json.Marshal(map[string]string{
		"userId":   userID,
		"question": question,
	})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, base+"/questions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out struct {
		Success  bool   `json:"success"`
		AnswerID string `json:"answerId"`
		Error    string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if !out.Success {
		return "", fmt.Errorf("question rejected: %s", out.Error)
	}
	return out.AnswerID, nil
}

// awaitConnected consumes stream events until the server confirms the
// subscription is registered.
func awaitConnected(scanner *bufio.Scanner) error {
	for scanner.Scan() {
		if strings.TrimPrefix(scanner.Text(), "event: ") == "connected" {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return fmt.Errorf("stream closed before subscription was confirmed")
}

// followAnswer prints the explanation for one answer as it accumulates,
// returning once the answer completes.
func followAnswer(scanner *bufio.Scanner, answerID string, out io.Writer) error {
	var printed int
	var event string
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data := strings.TrimPrefix(line, "data: ")
			done, err := handleAskEvent(event, data, answerID, &printed, out)
			if err != nil {
				return err
			}
			if done {
				fmt.Fprintln(out)
				return nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	return fmt.Errorf("stream ended before the answer completed")
}

func handleAskEvent(event, data, answerID string, printed *int, out io.Writer) (done bool, err error) {
	switch event {
	case "answer_partial":
		var p struct {
			ID          string `json:"id"`
			TextPartial string `json:"textPartial"`
		}
		if err := json.Unmarshal([]byte(data), &p); err != nil || p.ID != answerID {
			return false, nil
		}
		// Partials carry the full accumulated text; print only the tail.
		if len(p.TextPartial) > *printed {
			fmt.Fprint(out, p.TextPartial[*printed:])
			*printed = len(p.TextPartial)
		}
	case "answer_created":
		var a struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal([]byte(data), &a); err != nil || a.ID != answerID {
			return false, nil
		}
		return true, nil
	}
	return false, nil
}

func saveScene(ctx context.Context, base, answerID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, base+"/answers/"+answerID, nil)
	if err != nil {
		return err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("answer fetch returned %s", resp.Status)
	}
	var body struct {
		Data qa.Answer `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return err
	}
	if body.Data.Visualization == nil {
		return fmt.Errorf("answer has no scene")
	}
	viz := body.Data.Visualization
	cli.PrintInfo("scene %s: %d layers, %s at %d fps",
		viz.ID, len(viz.Layers), cli.FormatDuration(viz.Duration), viz.FPS)
	if err := cli.Output(viz, cli.OutputOptions{
		Format: cli.OutputFormat(askFlags.format),
		File:   askFlags.sceneOut,
	}); err != nil {
		return err
	}
	if askFlags.sceneOut != "" {
		cli.PrintSuccess("scene written to %s", askFlags.sceneOut)
	}
	return nil
}

func init() {
	askCmd.Flags().StringVar(&askFlags.server, "server", "http://localhost:8080", "server base URL")
	askCmd.Flags().StringVar(&askFlags.userID, "user", "cli", "user id to submit as")
	askCmd.Flags().StringVar(&askFlags.sceneOut, "scene-out", "", "write the completed scene document to a file")
	askCmd.Flags().StringVar(&askFlags.format, "output", "", "scene output format (json|yaml)")
	rootCmd.AddCommand(askCmd)
}
