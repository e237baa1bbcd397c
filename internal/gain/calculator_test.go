package gain_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"albumconv/internal/audio"
	"albumconv/internal/config"
	"albumconv/internal/gain"
	"albumconv/internal/services"
)

type invocation struct {
	name string
	args []string
}

type recordingRunner struct {
	calls []invocation
	err   error
}

func (r *recordingRunner) run(_ context.Context, name string, args ...string) error {
	r.calls = append(r.calls, invocation{name: name, args: append([]string(nil), args...)})
	return r.err
}

func TestApplyInvokesToolOncePerBatch(t *testing.T) {
	paths := []string{"/music/01.ogg", "/music/02.ogg", "/music/03.ogg"}
	tests := []struct {
		format audio.Format
		name   string
		args   []string
	}{
		{audio.OggVorbis, "vorbisgain", []string{"-a"}},
		{audio.Flac, "metaflac", []string{"--add-replay-gain"}},
		{audio.Mp3, "aacgain", []string{"-r", "-a"}},
	}

	for _, tc := range tests {
		t.Run(tc.format.String(), func(t *testing.T) {
			runner := &recordingRunner{}
			calc := gain.NewCalculator(nil, nil, runner.run)
			if err := calc.Apply(context.Background(), tc.format, paths); err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if len(runner.calls) != 1 {
				t.Fatalf("expected exactly one invocation, got %d", len(runner.calls))
			}
			call := runner.calls[0]
			want := append(append([]string(nil), tc.args...), paths...)
			if call.name != tc.name || !reflect.DeepEqual(call.args, want) {
				t.Fatalf("invocation = %s %v, want %s %v", call.name, call.args, tc.name, want)
			}
		})
	}
}

func TestApplyUsesConfiguredBinary(t *testing.T) {
	cfg := config.Default()
	cfg.Tools.Metaflac = "/opt/flac/bin/metaflac"
	runner := &recordingRunner{}
	calc := gain.NewCalculator(&cfg, nil, runner.run)

	if err := calc.Apply(context.Background(), audio.Flac, []string{"a.flac"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if runner.calls[0].name != "/opt/flac/bin/metaflac" {
		t.Fatalf("binary = %q", runner.calls[0].name)
	}
}

func TestApplyFailureIsTyped(t *testing.T) {
	runner := &recordingRunner{err: errors.New("exit status 2")}
	calc := gain.NewCalculator(nil, nil, runner.run)

	err := calc.Apply(context.Background(), audio.Mp3, []string{"a.mp3", "b.mp3"})
	var failed *gain.FailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected *gain.FailedError, got %v", err)
	}
	if failed.Format != audio.Mp3 || failed.Tool != "aacgain" {
		t.Fatalf("unexpected failure detail: %+v", failed)
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
}

func TestApplyUnknownFormat(t *testing.T) {
	runner := &recordingRunner{}
	calc := gain.NewCalculator(nil, nil, runner.run)

	err := calc.Apply(context.Background(), audio.Unknown, []string{"a.wav"})
	var failed *gain.FailedError
	if !errors.As(err, &failed) {
		t.Fatalf("expected *gain.FailedError, got %v", err)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("expected no invocation, got %v", runner.calls)
	}
}

func TestApplyEmptyBatchIsNoop(t *testing.T) {
	runner := &recordingRunner{}
	calc := gain.NewCalculator(nil, nil, runner.run)
	if err := calc.Apply(context.Background(), audio.Flac, nil); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(runner.calls) != 0 {
		t.Fatalf("expected no invocation, got %v", runner.calls)
	}
}
