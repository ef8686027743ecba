package detector

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// ServiceScript is the file name of the hand landmark service.
const ServiceScript = "hand_service.py"

// IdleShutdown is how long the service may sit unused before it is stopped.
const IdleShutdown = 30 * time.Second

// RestartBackoff is how long Detect keeps returning the last failure before
// starting the service again.
const RestartBackoff = 5 * time.Second

// ErrServiceNotFound is returned when the hand landmark service script cannot be located.
var ErrServiceNotFound = errors.New(ServiceScript + " not found")

// MediaPipeDetector implements Detector using a Python MediaPipe subprocess.
//
// Each request is a 4-byte big-endian length followed by a JPEG frame; each
// response is a single JSON line of the form {"hands": [...]}.
type MediaPipeDetector struct {
	config     Config
	scriptPath string
	cmd        *exec.Cmd
	stdin      io.WriteCloser
	stdout     *bufio.Reader
	mu         sync.Mutex
	started    bool
	idleTimer  *time.Timer

	// python overrides the interpreter lookup when set.
	python      string
	spawns      int
	lastErr     error
	lastFailure time.Time
}

// NewMediaPipeDetector creates a new MediaPipe detector.
// The Python process is started lazily on first detection.
func NewMediaPipeDetector(config Config) (*MediaPipeDetector, error) {
	scriptPath := findServiceScript()
	if scriptPath == "" {
		return nil, ErrServiceNotFound
	}

	return &MediaPipeDetector{
		config:     config,
		scriptPath: scriptPath,
	}, nil
}

// Args returns the command line arguments passed to the service script.
func (d *MediaPipeDetector) Args() []string {
	return []string{
		d.scriptPath,
		"--max-hands", strconv.Itoa(d.config.MaxHands),
		"--min-confidence", strconv.FormatFloat(d.config.MinConfidence, 'f', -1, 64),
		"--min-tracking-confidence", strconv.FormatFloat(d.config.MinTrackingConf, 'f', -1, 64),
	}
}

// Detect analyzes a frame and returns detected hand landmarks.
func (d *MediaPipeDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	if frame == nil || frame.Empty() {
		return nil, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.lastErr != nil && time.Since(d.lastFailure) < RestartBackoff {
		return nil, d.lastErr
	}

	if err := d.ensureStarted(); err != nil {
		return nil, d.fail(err)
	}

	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	if err := writeFrame(d.stdin, buf.GetBytes()); err != nil {
		// The service is unusable after a broken pipe; restart it after the backoff.
		d.shutdown()
		return nil, d.fail(err)
	}

	line, err := d.stdout.ReadBytes('\n')
	if err != nil {
		d.shutdown()
		return nil, d.fail(fmt.Errorf("read response: %w", err))
	}
	d.lastErr = nil

	hands, err := parseResponse(line)
	if err != nil {
		return nil, err
	}

	d.resetIdleTimer()
	return hands, nil
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

// fail records err so Detect does not respawn the service on every frame.
func (d *MediaPipeDetector) fail(err error) error {
	d.lastErr = fmt.Errorf("hand service unavailable: %w", err)
	d.lastFailure = time.Now()
	return d.lastErr
}

// writeFrame writes one length-prefixed frame.
func writeFrame(w io.Writer, data []byte) error {
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := w.Write(length); err != nil {
		return fmt.Errorf("write length: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write data: %w", err)
	}
	return nil
}

// parseResponse decodes one JSON response line into hand landmarks.
func parseResponse(line []byte) ([]HandLandmarks, error) {
	var response struct {
		Hands []jsonHand `json:"hands"`
		Error string     `json:"error"`
	}
	if err := json.Unmarshal(line, &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}
	if response.Error != "" {
		return nil, fmt.Errorf("hand service: %s", response.Error)
	}

	result := make([]HandLandmarks, len(response.Hands))
	for i, h := range response.Hands {
		result[i] = h.toHandLandmarks()
	}
	return result, nil
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	// Use virtual environment Python if available
	pythonPath := d.python
	if pythonPath == "" {
		pythonPath = findVenvPython()
	}
	if pythonPath == "" {
		pythonPath = "python3"
	}

	d.cmd = exec.Command(pythonPath, d.Args()...)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	d.cmd.Stderr = os.Stderr

	d.spawns++
	if err := d.cmd.Start(); err != nil {
		d.cmd = nil
		return fmt.Errorf("start hand service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true

	return nil
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

func (d *MediaPipeDetector) resetIdleTimer() {
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(IdleShutdown, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.shutdown()
	})
}

// searchPaths returns the candidate locations for name, relative to the
// working directory, the executable and ~/.handpong.
func searchPaths(name string) []string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	homeDir, _ := os.UserHomeDir()

	return []string{
		name,
		filepath.Join("..", name),
		filepath.Join("../..", name),
		filepath.Join(execDir, name),
		filepath.Join(homeDir, ".handpong", name),
	}
}

func firstExisting(candidates []string) string {
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

func findServiceScript() string {
	if p := os.Getenv("HANDPONG_HAND_SERVICE"); p != "" {
		return firstExisting([]string{p})
	}
	return firstExisting(searchPaths(filepath.Join("scripts", ServiceScript)))
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	return firstExisting(searchPaths(filepath.Join("venv", "bin", "python")))
}

// jsonHand represents the JSON structure from the Python service.
type jsonHand struct {
	Points     []jsonPoint `json:"points"`
	Handedness string      `json:"handedness"`
	Score      float64     `json:"score"`
}

type jsonPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (h jsonHand) toHandLandmarks() HandLandmarks {
	lm := HandLandmarks{
		Handedness: h.Handedness,
		Score:      h.Score,
	}

	for i := 0; i < NumLandmarks && i < len(h.Points); i++ {
		lm.Points[i] = Point3D{
			X: h.Points[i].X,
			Y: h.Points[i].Y,
			Z: h.Points[i].Z,
		}
	}

	return lm
}
