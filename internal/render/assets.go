package render

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gocv.io/x/gocv"

	"github.com/ayusman/handpong/internal/game"
)

// Asset file names inside the resources directory.
const (
	BackgroundFile = "Background.png"
	GameOverFile   = "gameOver.png"
	BallFile       = "Ball.png"
	LeftBatFile    = "bat1.png"
	RightBatFile   = "bat2.png"
)

// ErrAssetMissing is returned when an image cannot be read.
var ErrAssetMissing = errors.New("asset missing")

// Assets holds the decoded game images. Sprites keep their alpha channel.
type Assets struct {
	Background gocv.Mat
	GameOver   gocv.Mat
	Ball       gocv.Mat
	LeftBat    gocv.Mat
	RightBat   gocv.Mat
}

// LoadAssets reads every game image from dir.
func LoadAssets(dir string) (*Assets, error) {
	a := &Assets{}

	files := []struct {
		name  string
		flags gocv.IMReadFlag
		dst   *gocv.Mat
	}{
		{BackgroundFile, gocv.IMReadColor, &a.Background},
		{GameOverFile, gocv.IMReadColor, &a.GameOver},
		{BallFile, gocv.IMReadUnchanged, &a.Ball},
		{LeftBatFile, gocv.IMReadUnchanged, &a.LeftBat},
		{RightBatFile, gocv.IMReadUnchanged, &a.RightBat},
	}

	for i, f := range files {
		path := filepath.Join(dir, f.name)
		mat := gocv.IMRead(path, f.flags)
		if mat.Empty() {
			mat.Close()
			for _, loaded := range files[:i] {
				loaded.dst.Close()
			}
			return nil, fmt.Errorf("%s: %w", path, ErrAssetMissing)
		}
		*f.dst = mat
	}

	return a, nil
}

// PaddleSize returns the bat sprite dimensions. Both bats share the left bat's size.
func (a *Assets) PaddleSize() (width, height int) {
	return a.LeftBat.Cols(), a.LeftBat.Rows()
}

// Bat returns the paddle sprite for side.
func (a *Assets) Bat(side game.Side) gocv.Mat {
	if side == game.Right {
		return a.RightBat
	}
	return a.LeftBat
}

// Close releases all images.
func (a *Assets) Close() {
	for _, m := range []*gocv.Mat{&a.Background, &a.GameOver, &a.Ball, &a.LeftBat, &a.RightBat} {
		m.Close()
	}
}

// FindAssetsDir searches for the resources directory in common locations.
// It checks: "Resources", "../Resources", "../../Resources", and ~/.handpong/Resources.
// Returns the first existing directory or empty string if none found.
func FindAssetsDir() string {
	candidates := []string{"Resources", "../Resources", "../../Resources"}
	if homeDir, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(homeDir, ".handpong", "Resources"))
	}

	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if absPath, err := filepath.Abs(p); err == nil {
				return absPath
			}
			return p
		}
	}
	return ""
}
