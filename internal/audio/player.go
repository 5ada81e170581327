package audio

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// earconLatency is the speaker buffer length. Earcons are short, so a small
// buffer keeps them close to the announcement they belong to.
const earconLatency = 50 * time.Millisecond

// Player decodes earcons once and plays them on the shared speaker. A new
// earcon cuts off the one still playing, the same way a new announcement
// replaces the live region.
type Player struct {
	mu     sync.Mutex
	logger *slog.Logger

	volume     int // Percent, 0-100
	speakerOn  bool
	sampleRate beep.SampleRate

	bank map[string]*beep.Buffer // Decoded earcons by expanded path
}

// NewPlayer creates a player at full volume.
func NewPlayer(logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}

	return &Player{
		logger: logger,
		volume: 100,
		bank:   make(map[string]*beep.Buffer),
	}
}

// SetVolume sets the playback volume in percent, clamped to 0-100.
func (p *Player) SetVolume(percent int) {
	percent = min(max(percent, 0), 100)

	p.mu.Lock()
	p.volume = percent
	p.mu.Unlock()

	p.logger.Debug("earcon volume set", "percent", percent)
}

// Volume returns the playback volume in percent.
func (p *Player) Volume() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.volume
}

// Play plays the earcon at path, decoding it first if it is not in the
// bank yet. An empty path is a no-op.
func (p *Player) Play(path string) error {
	if path == "" {
		return nil
	}

	buffer, err := p.buffer(expandPath(path))
	if err != nil {
		p.logger.Warn("failed to load earcon", "path", path, "error", err)
		return err
	}

	p.mu.Lock()
	streamer := p.streamerLocked(buffer)
	p.mu.Unlock()

	if streamer == nil {
		return nil
	}

	speaker.Clear()
	speaker.Play(streamer)
	return nil
}

// Preload decodes the earcon at path into the bank.
func (p *Player) Preload(path string) error {
	if path == "" {
		return nil
	}
	_, err := p.buffer(expandPath(path))
	return err
}

// Forget drops a decoded earcon so the next Play reads the file again.
func (p *Player) Forget(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.bank, path)
}

// Reset drops every decoded earcon.
func (p *Player) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.bank)
}

// Close silences the speaker and drops the bank.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.speakerOn {
		speaker.Clear()
		speaker.Close()
		p.speakerOn = false
	}
	clear(p.bank)
	p.logger.Debug("earcon player closed")
}

// buffer returns the decoded earcon for path, decoding it on first use.
func (p *Player) buffer(path string) (*beep.Buffer, error) {
	p.mu.Lock()
	if b, ok := p.bank[path]; ok {
		p.mu.Unlock()
		return b, nil
	}
	p.mu.Unlock()

	b, err := decodeFile(path)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.startSpeakerLocked(b.Format().SampleRate); err != nil {
		return nil, err
	}
	p.bank[path] = b
	p.logger.Debug("earcon decoded", "path", path, "length", b.Format().SampleRate.D(b.Len()))
	return b, nil
}

// startSpeakerLocked initialises the speaker at the rate of the first
// earcon. Later earcons are resampled to it.
func (p *Player) startSpeakerLocked(rate beep.SampleRate) error {
	if p.speakerOn {
		return nil
	}
	if err := speaker.Init(rate, rate.N(earconLatency)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}
	p.sampleRate = rate
	p.speakerOn = true
	return nil
}

// streamerLocked builds a one-shot stream of buffer at the current volume.
// It returns nil when muted.
func (p *Player) streamerLocked(buffer *beep.Buffer) beep.Streamer {
	if p.volume == 0 {
		return nil
	}

	var s beep.Streamer = buffer.Streamer(0, buffer.Len())
	if rate := buffer.Format().SampleRate; rate != p.sampleRate {
		s = beep.Resample(4, rate, p.sampleRate, s)
	}
	if p.volume < 100 {
		s = &effects.Volume{Streamer: s, Base: 2, Volume: gain(p.volume)}
	}
	return s
}

// decodeFile reads a whole earcon into memory.
func decodeFile(path string) (*beep.Buffer, error) {
	decode, err := decoderFor(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sound file: %w", err)
	}
	defer func() { _ = f.Close() }()

	streamer, format, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode sound: %w", err)
	}
	defer func() { _ = streamer.Close() }()

	buffer := beep.NewBuffer(format)
	buffer.Append(streamer)
	return buffer, nil
}

// decodeFunc decodes an opened sound file.
type decodeFunc func(f *os.File) (beep.StreamSeekCloser, beep.Format, error)

var decoders = map[string]decodeFunc{
	".wav": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return wav.Decode(f) },
	".ogg": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return vorbis.Decode(f) },
	".mp3": func(f *os.File) (beep.StreamSeekCloser, beep.Format, error) { return mp3.Decode(f) },
}

func decoderFor(path string) (decodeFunc, error) {
	ext := strings.ToLower(filepath.Ext(path))
	decode, ok := decoders[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported audio format: %q", ext)
	}
	return decode, nil
}

// SupportedFormat reports whether path has a playable extension.
func SupportedFormat(path string) bool {
	_, err := decoderFor(path)
	return err == nil
}

// gain converts a volume percentage to the base 2 exponent effects.Volume
// expects: 50% is -1, 25% is -2.
func gain(percent int) float64 {
	if percent <= 0 {
		return -10
	}
	return math.Log2(float64(percent) / 100)
}

// expandPath expands a leading ~ to the home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
