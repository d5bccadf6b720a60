package global

import (
	"github.com/haierkeys/voice-notes-service/pkg/fileurl"
)

var (
	// ROOT is the directory the binary runs from
	ROOT string
	Name string = "Voice Notes Service"
)

func init() {
	ROOT = fileurl.GetExePath() + "/"
}
