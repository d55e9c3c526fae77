// SPDX-License-Identifier: EPL-2.0

package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chromahubz/midify/audio"
	"github.com/chromahubz/midify/formats/aiff"
	"github.com/chromahubz/midify/formats/mp3"
	"github.com/chromahubz/midify/formats/vorbis"
	"github.com/chromahubz/midify/formats/wav"
)

// Format keys used by the registry.
const (
	WAV  = "wav"
	AIFF = "aiff"
	Ogg  = "ogg"
	MP3  = "mp3"
)

// ErrUnknownFormat is returned when neither the header nor the file name
// identify a supported container.
var ErrUnknownFormat = errors.New("unknown audio format")

// sniffLen covers the longest magic check (RIFF size WAVE).
const sniffLen = 12

var openers = map[string]func(io.Reader) (audio.Source, error){
	WAV:  wav.Open,
	AIFF: aiff.Open,
	Ogg:  vorbis.Open,
	MP3:  mp3.Open,
}

var extensions = map[string]string{
	".wav":  WAV,
	".wave": WAV,
	".aif":  AIFF,
	".aiff": AIFF,
	".aifc": AIFF,
	".ogg":  Ogg,
	".oga":  Ogg,
	".mp3":  MP3,
}

// NewRegistry returns a registry holding every supported decoder.
func NewRegistry() *audio.Registry {
	r := audio.NewRegistry()
	r.Register(WAV, wav.Decoder{})
	r.Register(AIFF, aiff.Decoder{})
	r.Register(Ogg, vorbis.Decoder{})
	r.Register(MP3, mp3.Decoder{})

	return r
}

// Detect identifies a container from its first bytes.
func Detect(header []byte) (string, error) {
	switch {
	case len(header) >= 12 && bytes.Equal(header[:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")):
		return WAV, nil
	case len(header) >= 12 && bytes.Equal(header[:4], []byte("FORM")) &&
		(bytes.Equal(header[8:12], []byte("AIFF")) || bytes.Equal(header[8:12], []byte("AIFC"))):
		return AIFF, nil
	case bytes.HasPrefix(header, []byte("OggS")):
		return Ogg, nil
	case bytes.HasPrefix(header, []byte("ID3")):
		return MP3, nil
	case len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0:
		// MPEG audio frame sync
		return MP3, nil
	}

	return "", ErrUnknownFormat
}

// FromExtension maps a file name to a format key.
func FromExtension(name string) (string, error) {
	if f, ok := extensions[strings.ToLower(filepath.Ext(name))]; ok {
		return f, nil
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(name))
}

// Sniff peeks at the head of r to detect its format and falls back to the
// extension of name. The returned reader replays the peeked bytes.
func Sniff(r io.Reader, name string) (string, io.Reader, error) {
	br := bufio.NewReader(r)

	head, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF {
		return "", nil, fmt.Errorf("reading header: %w", err)
	}

	if f, err := Detect(head); err == nil {
		return f, br, nil
	}

	f, err := FromExtension(name)
	if err != nil {
		return "", nil, err
	}

	return f, br, nil
}

// Open starts a streaming decode of r in the given format.
func Open(format string, r io.Reader) (audio.Source, error) {
	open, ok := openers[format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	return open(r)
}
