//go:build !headless

package tts

/*
#cgo LDFLAGS: -lespeak-ng
#include <stdlib.h>
#include <string.h>
#include <espeak-ng/speak_lib.h>

static int
espeak_init(void)
{
	return espeak_Initialize(AUDIO_OUTPUT_SYNCH_PLAYBACK, 500, NULL, 0);
}

static int
espeak_configure(const char *voice, int rate, int volume)
{
	if (voice && voice[0] && espeak_SetVoiceByName(voice) != EE_OK)
	{ return -1; }
	if (espeak_SetParameter(espeakRATE, rate, 0) != EE_OK)
	{ return -2; }
	if (espeak_SetParameter(espeakVOLUME, volume, 0) != EE_OK)
	{ return -3; }
	return 0;
}

static int
espeak_say(const char *text)
{
	if (!text)
	{ return -1; }

	if (espeak_Synth(text, strlen(text) + 1, 0, POS_CHARACTER, 0, espeakCHARS_AUTO, NULL, NULL) != EE_OK)
	{ return -2; }
	if (espeak_Synchronize() != EE_OK)
	{ return -3; }
	return 0;
}
*/
import "C"

import (
	"context"
	"fmt"
	"sync"
	"unsafe"
)

// Espeak speaks through libespeak-ng with synchronous playback: Speak
// returns only after the audio has finished.
type Espeak struct {
	mu sync.Mutex
}

func NewEspeak(opt Options) (*Espeak, error) {
	if rc := C.espeak_init(); rc < 0 {
		return nil, fmt.Errorf("espeak init failed: %d", int(rc))
	}

	var cvoice *C.char
	if opt.Voice != "" {
		cvoice = C.CString(opt.Voice)
		defer C.free(unsafe.Pointer(cvoice))
	}

	if rc := C.espeak_configure(cvoice, C.int(opt.Rate), C.int(espeakVolume(opt.Volume))); rc != 0 {
		C.espeak_Terminate()
		return nil, fmt.Errorf("espeak configure (voice=%q rate=%d) failed: %d", opt.Voice, opt.Rate, int(rc))
	}

	return &Espeak{}, nil
}

func (e *Espeak) Speak(_ context.Context, text string) error {
	if text == "" {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ctext := C.CString(text)
	defer C.free(unsafe.Pointer(ctext))

	if rc := C.espeak_say(ctext); rc != 0 {
		return fmt.Errorf("espeak_say failed: %d", int(rc))
	}
	return nil
}

func (e *Espeak) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	C.espeak_Cancel()
	C.espeak_Terminate()
	return nil
}
