//go:build unix

package playback

import (
	"os"

	"golang.org/x/sys/unix"
)

func pauseProcess(p *os.Process) error {
	return p.Signal(unix.SIGSTOP)
}

func resumeProcess(p *os.Process) error {
	return p.Signal(unix.SIGCONT)
}
