package audio_test

import (
	"context"
	"errors"
	"testing"

	"btlinkd/internal/audio"
)

func TestFakeSensorReplaysScriptAndRepeatsFinalReading(t *testing.T) {
	scriptErr := errors.New("bus gone")
	sensor := audio.NewFakeSensor(
		audio.Reading{Active: true},
		audio.Reading{Err: scriptErr},
		audio.Reading{Active: false},
	)

	ctx := context.Background()

	active, err := sensor.Active(ctx)
	if err != nil || !active {
		t.Fatalf("first reading = (%v, %v), want (true, nil)", active, err)
	}
	if _, err := sensor.Active(ctx); !errors.Is(err, scriptErr) {
		t.Fatalf("second reading error = %v, want %v", err, scriptErr)
	}
	for i := 0; i < 3; i++ {
		active, err := sensor.Active(ctx)
		if err != nil || active {
			t.Fatalf("trailing reading %d = (%v, %v), want (false, nil)", i, active, err)
		}
	}
	if got := sensor.Calls(); got != 5 {
		t.Fatalf("Calls() = %d, want 5", got)
	}
}

func TestFakeSensorEmptyScriptReportsSilence(t *testing.T) {
	sensor := audio.NewFakeSensor()
	active, err := sensor.Active(context.Background())
	if err != nil || active {
		t.Fatalf("Active = (%v, %v), want (false, nil)", active, err)
	}
}
