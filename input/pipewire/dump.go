package pipewire

import (
	"context"
	"encoding/json"
	"os/exec"

	"github.com/pkg/errors"
)

type pwObjects []pwObject

func pwDump(ctx context.Context) (pwObjects, error) {
	// Output leaves stderr to the ExitError, so a failure carries the
	// daemon's complaint along.
	cmd := exec.CommandContext(ctx, "pw-dump")

	dumpOutput, err := cmd.Output()
	if err != nil {
		var execErr *exec.ExitError
		if errors.As(err, &execErr) {
			return nil, errors.Wrapf(err, "failed to run pw-dump: %s", execErr.Stderr)
		}
		return nil, errors.Wrap(err, "failed to run pw-dump")
	}

	return parsePWDump(dumpOutput)
}

func parsePWDump(data []byte) (pwObjects, error) {
	var dump pwObjects
	if err := json.Unmarshal(data, &dump); err != nil {
		return nil, errors.Wrap(err, "failed to parse pw-dump output")
	}

	return dump, nil
}

// Filter returns the objects that satisfy all of fns.
func (d pwObjects) Filter(fns ...func(pwObject) bool) pwObjects {
	filtered := make(pwObjects, 0, len(d))
loop:
	for _, device := range d {
		for _, f := range fns {
			if !f(device) {
				continue loop
			}
		}
		filtered = append(filtered, device)
	}
	return filtered
}

type pwObjectID int64

type pwObjectType string

const pwInterfaceNode pwObjectType = "PipeWire:Interface:Node"

// pwAudioSource marks nodes that produce capture audio.
const pwAudioSource = "Audio/Source"

type pwObject struct {
	ID   pwObjectID   `json:"id"`
	Type pwObjectType `json:"type"`
	Info struct {
		Props pwInfoProps `json:"props"`
	} `json:"info"`
}

type pwInfoProps struct {
	NodeName        string `json:"node.name"`
	NodeDescription string `json:"node.description"`
	MediaClass      string `json:"media.class"`
}
