// Package encoder records rendered frames to a video file by streaming raw
// RGBA into an ffmpeg process.
package encoder

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Frame is one captured frame ready for encoding.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// Source produces frames. Step advances it by one scheduled frame and
// Capture returns the current frame with rows top-down.
type Source interface {
	Step() bool
	Capture() (*image.RGBA, error)
}

// Config describes the recording.
type Config struct {
	Width      int
	Height     int
	FPS        int
	Frames     int
	OutputFile string
	FFMPEGPath string
	// Codec is "h264" (default) or "hevc".
	Codec string
}

// ErrSourceStopped means the source had no frame scheduled before the
// requested number of frames was captured.
var ErrSourceStopped = errors.New("encoder: source stopped producing frames")

const numBuffers = 3

// runFFmpeg runs ffmpeg reading raw frames from r.
var runFFmpeg = func(cfg Config, inputArgs, outputArgs ffmpeg.KwArgs, r io.Reader) error {
	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(cfg.OutputFile, outputArgs).
		OverWriteOutput().WithInput(r).ErrorToStdOut()

	if cfg.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(cfg.FFMPEGPath)
	}
	return ffmpegCmd.Run()
}

// Validate reports configuration errors before any process is started.
func (cfg Config) Validate() error {
	switch {
	case cfg.Width <= 0 || cfg.Height <= 0:
		return fmt.Errorf("encoder: invalid frame size %dx%d", cfg.Width, cfg.Height)
	case cfg.FPS <= 0:
		return fmt.Errorf("encoder: invalid frame rate %d", cfg.FPS)
	case cfg.Frames <= 0:
		return fmt.Errorf("encoder: nothing to record (%d frames)", cfg.Frames)
	case cfg.OutputFile == "":
		return errors.New("encoder: no output file")
	}
	return nil
}

// Args returns the ffmpeg input and output arguments for cfg.
func Args(cfg Config) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", cfg.Width, cfg.Height),
		"r":       fmt.Sprintf("%d", cfg.FPS),
	}

	outputArgs = ffmpeg.KwArgs{
		"pix_fmt": "yuv420p",
	}
	if cfg.Codec == "hevc" {
		outputArgs["c:v"] = "libx265"
		if strings.HasSuffix(cfg.OutputFile, ".mp4") {
			outputArgs["tag:v"] = "hvc1"
		}
	} else {
		outputArgs["c:v"] = "libx264"
	}
	outputArgs["b:v"] = "8M"
	return
}

// Record captures cfg.Frames frames from src and encodes them. The frame
// already on the source is the first one; each following frame is exactly
// one Step.
func Record(ctx context.Context, src Source, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	log.Printf("Recording %d frames at %dx%d to %s", cfg.Frames, cfg.Width, cfg.Height, cfg.OutputFile)

	frameChan := make(chan *Frame, numBuffers)
	encoderDoneChan := make(chan error, 1)
	go runEncoder(cfg, frameChan, encoderDoneChan)

	produceErr := produce(ctx, src, cfg, frameChan)
	close(frameChan)

	encodeErr := <-encoderDoneChan
	if produceErr != nil {
		return produceErr
	}
	return encodeErr
}

// produce is the producer side of Record.
func produce(ctx context.Context, src Source, cfg Config, frameChan chan<- *Frame) error {
	frameSize := cfg.Width * cfg.Height * 4
	for i := 0; i < cfg.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 && !src.Step() {
			return fmt.Errorf("%w after %d frames", ErrSourceStopped, i)
		}
		img, err := src.Capture()
		if err != nil {
			return fmt.Errorf("failed to capture frame %d: %w", i, err)
		}
		if len(img.Pix) != frameSize || img.Stride != cfg.Width*4 {
			return fmt.Errorf("frame %d is %v, want %dx%d", i, img.Bounds(), cfg.Width, cfg.Height)
		}
		select {
		case frameChan <- &Frame{Pixels: img.Pix, PTS: int64(i)}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// runEncoder is the consumer side of Record. It always drains frameChan so
// the producer never blocks on a dead encoder.
func runEncoder(cfg Config, frameChan <-chan *Frame, doneChan chan<- error) {
	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := Args(cfg)

	errc := make(chan error, 1)
	go func() {
		err := runFFmpeg(cfg, inputArgs, outputArgs, pipeReader)
		pipeReader.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()

	var writeErr error
	for frame := range frameChan {
		if writeErr != nil {
			continue
		}
		if _, err := pipeWriter.Write(frame.Pixels); err != nil {
			writeErr = fmt.Errorf("failed to write frame %d to ffmpeg: %w", frame.PTS, err)
			log.Printf("Error: %v", writeErr)
		}
	}
	pipeWriter.Close()

	if err := <-errc; err != nil {
		doneChan <- fmt.Errorf("ffmpeg failed: %w", err)
		return
	}
	doneChan <- writeErr
}
