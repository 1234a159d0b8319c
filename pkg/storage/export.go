package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/chalktalk/chalktalk/pkg/render"
	"github.com/chalktalk/chalktalk/pkg/scene"
)

// Manifest accompanies an exported frame sequence.
type Manifest struct {
	SceneID  string `json:"sceneId"`
	Duration int    `json:"duration"`
	FPS      int    `json:"fps"`
	Frames   int    `json:"frames"`
}

// ExportSVG samples a scene at count evenly spaced positions and writes
// each frame as a standalone SVG document under dir, plus a
// manifest.json describing the sequence. Frames are named frame-0000.svg
// onward. count must be at least 1; a single frame samples the start.
func ExportSVG(ctx context.Context, fs FileStore, viz *scene.Visualization, dir string, count int) error {
	if count < 1 {
		return fmt.Errorf("storage: export needs at least one frame, got %d", count)
	}
	for i := range count {
		var progress float64
		if count > 1 {
			progress = float64(i) / float64(count-1)
		}
		surface := render.NewSVG()
		render.Frame(surface, scene.Evaluate(viz, progress))
		name := path.Join(dir, fmt.Sprintf("frame-%04d.svg", i))
		if err := writeFile(ctx, fs, name, []byte(surface.String())); err != nil {
			return fmt.Errorf("storage: export %s: %w", name, err)
		}
	}

	manifest, err := json.Marshal(Manifest{
		SceneID:  viz.ID,
		Duration: viz.Duration,
		FPS:      viz.FPS,
		Frames:   count,
	})
	if err != nil {
		return err
	}
	name := path.Join(dir, "manifest.json")
	if err := writeFile(ctx, fs, name, manifest); err != nil {
		return fmt.Errorf("storage: export %s: %w", name, err)
	}
	return nil
}

func writeFile(ctx context.Context, fs FileStore, name string, data []byte) error {
	w, err := fs.Write(ctx, name)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
