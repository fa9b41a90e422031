package audio

import (
	"context"
	"testing"
)

const pactlSample = `Sink Input #41
	Driver: protocol-native.c
	Volume: front-left: 52428 /  80% / -5.81 dB,   front-right: 52428 /  80% / -5.81 dB
	Properties:
		application.name = "Firefox"
Sink Input #42
	Driver: protocol-native.c
	Volume: front-left: 65536 / 100% / 0.00 dB,   front-right: 65536 / 100% / 0.00 dB
	Properties:
		application.name = "voxbot"
Sink Input #bogus
	Volume: front-left: 65536 / 100% / 0.00 dB
`

func TestParseSinkInputs(t *testing.T) {
	got := parseSinkInputs(pactlSample)
	if len(got) != 2 {
		t.Fatalf("expected 2 inputs, got %d: %+v", len(got), got)
	}
	if got[0].ID != 41 || got[0].Volume != 80 || got[0].AppName != "Firefox" {
		t.Errorf("unexpected first input: %+v", got[0])
	}
	if got[1].ID != 42 || got[1].AppName != "voxbot" {
		t.Errorf("unexpected second input: %+v", got[1])
	}
}

func TestDuckerSkipsSelfAndRestores(t *testing.T) {
	volumes := map[int]int{}
	d := NewDucker([]string{"voxbot"}, 0.5, 10, 0)
	d.list = func(context.Context) ([]sinkInput, error) {
		res := parseSinkInputs(pactlSample)
		for i := range res {
			if v, ok := volumes[res[i].ID]; ok {
				res[i].Volume = v
			}
		}
		return res, nil
	}
	d.set = func(_ context.Context, id, percent int) error {
		volumes[id] = percent
		return nil
	}

	ctx := context.Background()
	if err := d.Duck(ctx); err != nil {
		t.Fatalf("duck: %v", err)
	}
	if volumes[41] != 40 {
		t.Errorf("expected Firefox ducked to 40%%, got %d", volumes[41])
	}
	if _, touched := volumes[42]; touched {
		t.Error("own stream must not be ducked")
	}

	if err := d.Restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if volumes[41] != 80 {
		t.Errorf("expected Firefox restored to 80%%, got %d", volumes[41])
	}
}
