// Package notify plays the short cue that tells the user we are listening.
package notify

import "sync"

type Cue struct {
	path string

	once    sync.Once
	initErr error
}

func NewCue(path string) *Cue {
	return &Cue{path: path}
}
