package playback

import (
	"context"
	"mime"
	"path/filepath"
	"strings"
)

// Handle is an opaque reference to a playable file, issued by a Sink.
type Handle string

// RunID numbers each start of the loaded source from the top. Events tagged
// with an older run are stale.
type RunID uint64

// Sink is the single audio output the engine drives.
type Sink interface {
	// Open allocates a handle for the file at path.
	Open(path string) (Handle, error)
	// Release frees a handle; releasing the loaded source unloads it.
	Release(h Handle)
	// Source is the loaded handle, or "" when nothing is loaded.
	Source() Handle
	// Load makes h the source and rewinds to the start.
	Load(h Handle) error
	// Play starts or continues the loaded source.
	Play(ctx context.Context) error
	Pause() error
	Rewind() error
	// Position is the playback position in seconds.
	Position() float64
	// Run is the id of the latest start; resuming a paused source keeps it.
	Run() RunID
}

// Listener receives asynchronous sink events, tagged with the run that
// produced them.
type Listener interface {
	OnTrackEnded(run RunID)
	OnSinkError(run RunID, code MediaError)
}

// Track is one playlist entry. It lives for one session and is never persisted.
type Track struct {
	Name   string
	Path   string
	Handle Handle
}

// known audio extensions; anything else goes through the mime table
var audioExtensions = map[string]bool{
	".aac": true, ".aif": true, ".aiff": true, ".flac": true, ".m4a": true,
	".mp3": true, ".oga": true, ".ogg": true, ".opus": true, ".wav": true,
	".weba": true, ".wma": true,
}

// IsAudio reports whether path names an audio file, judged by extension.
func IsAudio(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return false
	}
	if audioExtensions[ext] {
		return true
	}
	return strings.HasPrefix(mime.TypeByExtension(ext), "audio/")
}
