// Package audio plays short sounds (earcons) alongside announcements.
// It uses the beep library to decode WAV, OGG and MP3 files, with one
// configurable sound per announcement priority.
package audio
