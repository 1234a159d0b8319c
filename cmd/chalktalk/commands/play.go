package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/chalktalk/chalktalk/pkg/cli"
	"github.com/chalktalk/chalktalk/pkg/player"
	"github.com/chalktalk/chalktalk/pkg/qa"
	"github.com/chalktalk/chalktalk/pkg/render"
	"github.com/chalktalk/chalktalk/pkg/scene"
)

var playFlags struct {
	sceneFile string
	answerID  string
	server    string
}

var playCmd = &cobra.Command{
	Use:   "play [scene-file]",
	Short: "Play a scene as a terminal animation",
	Long: `Animate a scene in the terminal using a braille-dot canvas. The scene
comes from a file or from a running server's completed answer
(--answer with --server).`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			playFlags.sceneFile = args[0]
		}
		viz, narration, err := loadPlayable(cmd.Context())
		if err != nil {
			return err
		}
		return runPlayer(viz, narration)
	},
}

func loadPlayable(ctx context.Context) (*scene.Visualization, string, error) {
	switch {
	case playFlags.sceneFile != "":
		var doc map[string]any
		if err := cli.LoadFile(playFlags.sceneFile, &doc); err != nil {
			return nil, "", err
		}
		viz, err := scene.DecodeValue(doc)
		if err != nil {
			return nil, "", fmt.Errorf("scene unusable: %w", err)
		}
		return viz, "", nil

	case playFlags.answerID != "":
		url := strings.TrimSuffix(playFlags.server, "/") + "/answers/" + playFlags.answerID
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, "", err
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			return nil, "", err
		}
		defer resp.Body.Close()
		if resp.StatusCode == http.StatusNotFound {
			return nil, "", fmt.Errorf("answer %s not found (still generating?)", playFlags.answerID)
		}
		if resp.StatusCode != http.StatusOK {
			return nil, "", fmt.Errorf("server returned %s", resp.Status)
		}
		var body struct {
			Data qa.Answer `json:"data"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return nil, "", err
		}
		if body.Data.Visualization == nil {
			return nil, "", fmt.Errorf("answer %s has no scene", playFlags.answerID)
		}
		return scene.Normalize(body.Data.Visualization), body.Data.Text, nil

	default:
		return nil, "", fmt.Errorf("a scene file or --answer is required")
	}
}

type frameMsg struct {
	progress float64
	frame    scene.Frame
}

type playModel struct {
	styles    cli.Styles
	player    *player.Player
	viz       *scene.Visualization
	narration string

	canvas   *render.Canvas
	rendered []string
	progress float64

	width  int
	height int
}

func runPlayer(viz *scene.Visualization, narration string) error {
	m := &playModel{
		styles:    cli.NewStyles(cli.DefaultTheme),
		viz:       viz,
		narration: narration,
		width:     80,
		height:    24,
	}

	var prog *tea.Program
	m.player = player.New(func(progress float64, frame scene.Frame) {
		if prog != nil {
			prog.Send(frameMsg{progress: progress, frame: frame})
		}
	})

	prog = tea.NewProgram(m, tea.WithAltScreen())
	m.player.SetScene(viz)
	_, err := prog.Run()
	m.player.Pause()
	return err
}

func (m *playModel) Init() tea.Cmd {
	return func() tea.Msg {
		m.player.Play(context.Background())
		return nil
	}
}

func (m *playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			if m.player.State() == player.Playing {
				m.player.Pause()
			} else {
				m.player.Play(context.Background())
			}
		case "r":
			m.player.Reset()
			m.player.Play(context.Background())
		case "left":
			m.player.Seek(m.player.Progress() - 0.05)
		case "right":
			m.player.Seek(m.player.Progress() + 0.05)
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.canvas = nil // rebuilt at the new size on the next frame
		return m, nil

	case frameMsg:
		if m.canvas == nil {
			cols := max(m.width-4, 20)
			rows := max(m.height-10-len(m.narrationLines()), 6)
			m.canvas = render.NewCanvas(cols, rows)
		}
		m.canvas.Clear()
		render.Frame(m.canvas, msg.frame)
		m.rendered = strings.Split(m.canvas.String(), "\n")
		m.progress = msg.progress
		return m, nil
	}
	return m, nil
}

func (m *playModel) View() string {
	frame := cli.Frame{
		Styles: m.styles,
		Title:  "chalktalk",
		Status: fmt.Sprintf("%s %s / %s", m.player.State(),
			cli.FormatProgress(m.progress), cli.FormatDuration(m.viz.Duration)),
		Sections: []cli.Section{
			{Label: "Scene", Content: func() []string { return m.rendered }},
		},
		Help: "space play/pause · r replay · ←/→ seek · q quit",
	}
	if m.narration != "" {
		frame.Sections = append(frame.Sections, cli.Section{
			Label:   "Narration",
			Content: m.narrationLines,
		})
	}
	return frame.Render(m.width, m.height)
}

// narrationLines wraps the narration to the current width.
func (m *playModel) narrationLines() []string {
	if m.narration == "" {
		return nil
	}
	width := max(m.width-6, 20)
	var lines []string
	var line strings.Builder
	for _, word := range strings.Fields(m.narration) {
		if line.Len() > 0 && line.Len()+1+len(word) > width {
			lines = append(lines, line.String())
			line.Reset()
		}
		if line.Len() > 0 {
			line.WriteByte(' ')
		}
		line.WriteString(word)
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return lines
}

func init() {
	playCmd.Flags().StringVar(&playFlags.sceneFile, "scene", "", "scene file (json or yaml)")
	playCmd.Flags().StringVar(&playFlags.answerID, "answer", "", "answer id to fetch from a server")
	playCmd.Flags().StringVar(&playFlags.server, "server", "http://localhost:8080", "server base URL for --answer")
	rootCmd.AddCommand(playCmd)
}
