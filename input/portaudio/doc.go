// This file keeps the package importable in non-cgo builds; the
// backend itself (portaudio.go) requires cgo for the PortAudio
// binding and registers nothing without it.

package portaudio
