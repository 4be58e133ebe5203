package renderer

import (
	"fmt"
	"io"
	"log"
	"math"
	"strconv"

	gl "github.com/go-gl/gl/v3.2-core/gl"
	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// Frame represents a single rendered frame's data, ready for encoding.
type Frame struct {
	Pixels []byte
	PTS    int64
}

// RecordOptions controls an offscreen recording.
type RecordOptions struct {
	Duration   float64
	FPS        int
	OutputFile string
	Codec      string // "h264" or "hevc"
	FFMPEGPath string
}

// OffscreenRenderer is an RGBA8 framebuffer the scene is rendered into while recording.
type OffscreenRenderer struct {
	fbo       uint32
	textureID uint32
	width     int
	height    int
}

const numBuffers = 3

func NewOffscreenRenderer(width, height int) (*OffscreenRenderer, error) {
	or := &OffscreenRenderer{
		width:  width,
		height: height,
	}

	gl.GenFramebuffers(1, &or.fbo)
	gl.BindFramebuffer(gl.FRAMEBUFFER, or.fbo)
	gl.GenTextures(1, &or.textureID)
	gl.BindTexture(gl.TEXTURE_2D, or.textureID)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(width), int32(height), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, or.textureID, 0)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)

	if status != gl.FRAMEBUFFER_COMPLETE {
		or.Destroy()
		return nil, fmt.Errorf("offscreen fbo is not complete: 0x%x", status)
	}
	return or, nil
}

func (or *OffscreenRenderer) Destroy() {
	gl.DeleteFramebuffers(1, &or.fbo)
	gl.DeleteTextures(1, &or.textureID)
}

func (or *OffscreenRenderer) bind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, or.fbo)
}

func (or *OffscreenRenderer) unbind() {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
}

// readPixels reads the framebuffer back top row first.
func (or *OffscreenRenderer) readPixels() []byte {
	pixels := make([]byte, or.width*or.height*4)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, or.fbo)
	gl.ReadBuffer(gl.COLOR_ATTACHMENT0)
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(or.width), int32(or.height), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)
	return vflip(pixels, or.width*4)
}

// vflip reverses the row order of a tightly packed image in place.
// OpenGL returns the bottom row first, video encoders expect the top row first.
func vflip(pix []byte, stride int) []byte {
	if stride <= 0 {
		return pix
	}
	tmp := make([]byte, stride)
	rows := len(pix) / stride
	for y := 0; y < rows/2; y++ {
		top := pix[y*stride : (y+1)*stride]
		bottom := pix[(rows-1-y)*stride : (rows-y)*stride]
		copy(tmp, top)
		copy(top, bottom)
		copy(bottom, tmp)
	}
	return pix
}

// frameCount is the number of frames needed to cover duration at fps.
func frameCount(duration float64, fps int) int {
	return int(math.Round(duration * float64(fps)))
}

// encoderArgs builds the ffmpeg arguments for raw RGBA frames arriving on stdin.
func encoderArgs(width, height int, opts RecordOptions) (inputArgs ffmpeg.KwArgs, outputArgs ffmpeg.KwArgs) {
	inputArgs = ffmpeg.KwArgs{
		"format":    "rawvideo",
		"pix_fmt":   "rgba",
		"s":         fmt.Sprintf("%dx%d", width, height),
		"framerate": strconv.Itoa(opts.FPS),
	}

	outputArgs = ffmpeg.KwArgs{"pix_fmt": "yuv420p"}
	if opts.Codec == "hevc" {
		outputArgs["c:v"] = "libx265"
		outputArgs["tag:v"] = "hvc1"
	} else {
		outputArgs["c:v"] = "libx264"
	}
	return inputArgs, outputArgs
}

// runEncoder is the consumer: it pipes every frame into ffmpeg and reports
// the result of the ffmpeg process on doneChan.
func (r *Renderer) runEncoder(opts RecordOptions, frameChan <-chan *Frame, doneChan chan<- error) {
	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := encoderArgs(r.width, r.height, opts)

	ffmpegCmd := ffmpeg.Input("pipe:", inputArgs).
		Output(opts.OutputFile, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()

	if opts.FFMPEGPath != "" {
		ffmpegCmd = ffmpegCmd.SetFfmpegPath(opts.FFMPEGPath)
	}

	errc := make(chan error, 1)
	go func() {
		err := ffmpegCmd.Run()
		// unblock the writer if ffmpeg exits early
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
			log.Println(writeErr)
		}
	}
	pipeWriter.Close()

	if err := <-errc; err != nil {
		doneChan <- fmt.Errorf("ffmpeg failed: %w", err)
		return
	}
	doneChan <- writeErr
}

// RunOffscreen renders a fixed number of frames into the offscreen framebuffer
// and encodes them to opts.OutputFile.
func (r *Renderer) RunOffscreen(opts RecordOptions) error {
	if !r.recordMode || r.offscreenRenderer == nil {
		return fmt.Errorf("renderer was not created in record mode")
	}
	totalFrames := frameCount(opts.Duration, opts.FPS)
	if totalFrames < 1 {
		return fmt.Errorf("nothing to record: %gs at %d fps is %d frames", opts.Duration, opts.FPS, totalFrames)
	}
	log.Printf("Recording %d frames at %d fps to %s", totalFrames, opts.FPS, opts.OutputFile)

	frameChan := make(chan *Frame, numBuffers)
	encoderDoneChan := make(chan error, 1)

	// Start the consumer goroutine
	go r.runEncoder(opts, frameChan, encoderDoneChan)

	for i := 0; i < totalFrames; i++ {
		if r.context.ShouldClose() {
			log.Printf("Recording interrupted after %d frames", i)
			break
		}
		r.offscreenRenderer.bind()
		r.RenderFrame(r.width, r.height)
		pixels := r.offscreenRenderer.readPixels()
		r.offscreenRenderer.unbind()

		frameChan <- &Frame{Pixels: pixels, PTS: int64(i)}
		r.context.EndFrame()
	}

	// Close the channel to signal the producer is done
	close(frameChan)

	// Wait for the consumer to finish
	return <-encoderDoneChan
}
