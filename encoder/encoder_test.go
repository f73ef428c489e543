package encoder

import (
	"context"
	"errors"
	"image"
	"io"
	"testing"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// countingSource returns frames whose first byte is the step count.
type countingSource struct {
	w, h  int
	steps int
	limit int
}

func (s *countingSource) Step() bool {
	if s.limit > 0 && s.steps >= s.limit {
		return false
	}
	s.steps++
	return true
}

func (s *countingSource) Capture() (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, s.w, s.h))
	img.Pix[0] = uint8(s.steps)
	return img, nil
}

func withFFmpeg(t *testing.T, fn func(cfg Config, in, out ffmpeg.KwArgs, r io.Reader) error) {
	t.Helper()
	prev := runFFmpeg
	runFFmpeg = fn
	t.Cleanup(func() { runFFmpeg = prev })
}

func TestRecordStreamsEveryFrame(t *testing.T) {
	var got []byte
	withFFmpeg(t, func(cfg Config, in, out ffmpeg.KwArgs, r io.Reader) error {
		var err error
		got, err = io.ReadAll(r)
		return err
	})

	src := &countingSource{w: 4, h: 2}
	cfg := Config{Width: 4, Height: 2, FPS: 30, Frames: 5, OutputFile: "out.mp4"}
	if err := Record(context.Background(), src, cfg); err != nil {
		t.Fatalf("Record: %v", err)
	}
	frameSize := 4 * 2 * 4
	if len(got) != 5*frameSize {
		t.Fatalf("ffmpeg read %d bytes, want %d", len(got), 5*frameSize)
	}
	for i := 0; i < 5; i++ {
		if got[i*frameSize] != uint8(i) {
			t.Errorf("frame %d first byte = %d, want %d", i, got[i*frameSize], i)
		}
	}
	if src.steps != 4 {
		t.Errorf("source stepped %d times, want 4", src.steps)
	}
}

func TestRecordSourceStops(t *testing.T) {
	withFFmpeg(t, func(cfg Config, in, out ffmpeg.KwArgs, r io.Reader) error {
		_, err := io.Copy(io.Discard, r)
		return err
	})
	src := &countingSource{w: 2, h: 2, limit: 2}
	cfg := Config{Width: 2, Height: 2, FPS: 30, Frames: 10, OutputFile: "out.mp4"}
	err := Record(context.Background(), src, cfg)
	if !errors.Is(err, ErrSourceStopped) {
		t.Errorf("err = %v, want ErrSourceStopped", err)
	}
}

func TestRecordEncoderFailureDoesNotBlock(t *testing.T) {
	boom := errors.New("exit status 1")
	withFFmpeg(t, func(cfg Config, in, out ffmpeg.KwArgs, r io.Reader) error {
		return boom
	})
	src := &countingSource{w: 2, h: 2}
	cfg := Config{Width: 2, Height: 2, FPS: 30, Frames: 50, OutputFile: "out.mp4"}
	err := Record(context.Background(), src, cfg)
	if !errors.Is(err, boom) {
		t.Errorf("err = %v, want wrapped %v", err, boom)
	}
}

func TestRecordCanceled(t *testing.T) {
	withFFmpeg(t, func(cfg Config, in, out ffmpeg.KwArgs, r io.Reader) error {
		_, err := io.Copy(io.Discard, r)
		return err
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg := Config{Width: 2, Height: 2, FPS: 30, Frames: 3, OutputFile: "out.mp4"}
	if err := Record(ctx, &countingSource{w: 2, h: 2}, cfg); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRecordWrongFrameSize(t *testing.T) {
	withFFmpeg(t, func(cfg Config, in, out ffmpeg.KwArgs, r io.Reader) error {
		_, err := io.Copy(io.Discard, r)
		return err
	})
	cfg := Config{Width: 8, Height: 8, FPS: 30, Frames: 1, OutputFile: "out.mp4"}
	if err := Record(context.Background(), &countingSource{w: 4, h: 4}, cfg); err == nil {
		t.Error("Record accepted a frame of the wrong size")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"ok", Config{Width: 2, Height: 2, FPS: 30, Frames: 1, OutputFile: "a.mp4"}, false},
		{"zero width", Config{Height: 2, FPS: 30, Frames: 1, OutputFile: "a.mp4"}, true},
		{"zero fps", Config{Width: 2, Height: 2, Frames: 1, OutputFile: "a.mp4"}, true},
		{"no frames", Config{Width: 2, Height: 2, FPS: 30, OutputFile: "a.mp4"}, true},
		{"no output", Config{Width: 2, Height: 2, FPS: 30, Frames: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestArgs(t *testing.T) {
	in, out := Args(Config{Width: 1280, Height: 720, FPS: 60, OutputFile: "clip.mp4", Codec: "hevc"})
	if in["f"] != "rawvideo" || in["pix_fmt"] != "rgba" || in["s"] != "1280x720" || in["r"] != "60" {
		t.Errorf("input args = %v", in)
	}
	if out["c:v"] != "libx265" || out["tag:v"] != "hvc1" || out["pix_fmt"] != "yuv420p" {
		t.Errorf("output args = %v", out)
	}
	_, out = Args(Config{Width: 2, Height: 2, FPS: 30, OutputFile: "clip.mkv"})
	if out["c:v"] != "libx264" {
		t.Errorf("default codec = %v, want libx264", out["c:v"])
	}
	if _, ok := out["tag:v"]; ok {
		t.Error("tag:v set for h264")
	}
}
