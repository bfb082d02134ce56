package playback

import "errors"

var (
	ErrNoPlaylist       = errors.New("no playlist loaded")
	ErrInsufficientTime = errors.New("not enough minutes")
	ErrPlaybackFailed   = errors.New("playback failed")
	ErrInvalidInput     = errors.New("invalid input")
)

// MediaError classifies a sink failure.
type MediaError int

const (
	MediaErrUnknown MediaError = iota
	MediaErrAborted
	MediaErrNetwork
	MediaErrDecode
	MediaErrSrcNotSupported
)

// Message is the text shown to the user for e.
func (e MediaError) Message() string {
	switch e {
	case MediaErrAborted:
		return "Audio playback aborted."
	case MediaErrNetwork:
		return "Audio download failed due to network error."
	case MediaErrDecode:
		return "Audio playback failed due to decoding error (file might be corrupt)."
	case MediaErrSrcNotSupported:
		return "Audio format not supported."
	default:
		return "An unknown audio error occurred."
	}
}
