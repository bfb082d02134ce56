package playback

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/logging"
	"github.com/google/uuid"
)

var ErrNoSource = errors.New("no track loaded")

// ExecSink plays each track by running an external player with the file
// path as its last argument. Pausing stops the process; the track ends when
// the process exits.
type ExecSink struct {
	argv []string
	log  logging.Logger

	mu       sync.Mutex
	files    map[Handle]string
	source   Handle
	run      *playerRun
	runs     RunID
	paused   bool
	started  time.Time
	elapsed  time.Duration
	listener Listener
}

type playerRun struct {
	id     RunID
	cmd    *exec.Cmd
	killed bool
}

// NewExecSink splits command on whitespace, e.g. "mpv --no-video".
func NewExecSink(command string, log logging.Logger) (*ExecSink, error) {
	return NewExecSinkArgs(strings.Fields(command), log)
}

func NewExecSinkArgs(argv []string, log logging.Logger) (*ExecSink, error) {
	if len(argv) == 0 {
		return nil, errors.New("player command is empty")
	}
	return &ExecSink{argv: argv, log: log, files: make(map[Handle]string)}, nil
}

// SetListener registers the receiver of track-end and failure events.
func (s *ExecSink) SetListener(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listener = l
}

func (s *ExecSink) Open(path string) (Handle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if info.IsDir() {
		return "", fmt.Errorf("%s is a directory", path)
	}

	h := Handle(uuid.NewString())
	s.mu.Lock()
	s.files[h] = path
	s.mu.Unlock()
	return h, nil
}

func (s *ExecSink) Release(h Handle) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h == s.source {
		s.killLocked()
		s.source = ""
	}
	delete(s.files, h)
}

func (s *ExecSink) Source() Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

func (s *ExecSink) Load(h Handle) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[h]; !ok {
		return fmt.Errorf("unknown handle %q", h)
	}
	s.killLocked()
	s.source = h
	s.elapsed = 0
	return nil
}

// Play resumes a stopped process or starts the player from the beginning.
func (s *ExecSink) Play(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.source == "" {
		return ErrNoSource
	}

	if s.run != nil {
		if s.paused {
			if err := resumeProcess(s.run.cmd.Process); err != nil {
				return err
			}
			s.paused = false
			s.started = time.Now()
		}
		return nil
	}

	args := append(append([]string{}, s.argv[1:]...), s.files[s.source])
	cmd := exec.Command(s.argv[0], args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start player: %w", err)
	}

	s.runs++
	run := &playerRun{id: s.runs, cmd: cmd}
	s.run = run
	s.paused = false
	s.started = time.Now()
	s.elapsed = 0
	go s.wait(run)
	return nil
}

func (s *ExecSink) wait(run *playerRun) {
	err := run.cmd.Wait()

	s.mu.Lock()
	if s.run != run || run.killed {
		s.mu.Unlock()
		return
	}
	s.elapsed += time.Since(s.started)
	s.run = nil
	s.paused = false
	l := s.listener
	s.mu.Unlock()

	if l == nil {
		return
	}
	if err == nil {
		l.OnTrackEnded(run.id)
		return
	}
	l.OnSinkError(run.id, classifyExit(err))
}

func classifyExit(err error) MediaError {
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		return MediaErrUnknown
	}
	if exitErr.ExitCode() < 0 {
		// killed by a signal someone else sent
		return MediaErrAborted
	}
	return MediaErrDecode
}

func (s *ExecSink) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.run == nil || s.paused {
		return nil
	}
	if err := pauseProcess(s.run.cmd.Process); err != nil {
		return err
	}
	s.paused = true
	s.elapsed += time.Since(s.started)
	return nil
}

// Rewind ends the current process; the next Play starts from the top.
func (s *ExecSink) Rewind() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.killLocked()
	s.elapsed = 0
	return nil
}

func (s *ExecSink) Position() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.elapsed
	if s.run != nil && !s.paused {
		d += time.Since(s.started)
	}
	return d.Seconds()
}

func (s *ExecSink) Run() RunID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// Close kills any running player.
func (s *ExecSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.killLocked()
}

func (s *ExecSink) killLocked() {
	if s.run == nil {
		return
	}
	s.run.killed = true
	if err := s.run.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		s.log.Warn(context.Background(), "failed to kill player", "error", err)
	}
	s.run = nil
	s.paused = false
}
