// Package all imports all backends implemented by the input package.
package all

import (
	_ "github.com/winterveil/purr/input/ffmpeg"
	_ "github.com/winterveil/purr/input/parec"
	_ "github.com/winterveil/purr/input/pipewire"
	_ "github.com/winterveil/purr/input/portaudio"
	_ "github.com/winterveil/purr/input/stdinput"
)
