package options

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// FFmpegEnv names the environment variable consulted when -ffmpeg is empty.
const FFmpegEnv = "GLHELLO_FFMPEG"

// Options holds the command line configuration shared by the hello programs.
type Options struct {
	Width          *int
	Height         *int
	Title          *string
	GLVersion      *string // context version as "major.minor"
	SwapInterval   *int
	ClearColor     *string // "r,g,b,a"
	VertexShader   *string // path to the vertex shader source
	FragmentShader *string // path to the fragment shader source
	Translate      *bool   // sources are WebGL2 and must be translated to desktop GLSL
	Primitive      *string // "loop" or "fan"
	Help           *bool

	// Recording options
	Mode       *string // "window" or "record"
	Duration   *float64
	FPS        *int
	OutputFile *string
	Codec      *string
	FFMPEGPath *string
}

// Defaults are the values a program starts from before flags are parsed.
type Defaults struct {
	Title          string
	VertexShader   string
	FragmentShader string
}

// Register binds every option to fs and returns the options it will fill in.
func Register(fs *flag.FlagSet, d Defaults) *Options {
	if d.Title == "" {
		d.Title = "Hello World"
	}
	return &Options{
		Width:          fs.Int("width", 640, "Width of the window"),
		Height:         fs.Int("height", 480, "Height of the window"),
		Title:          fs.String("title", d.Title, "Window title"),
		GLVersion:      fs.String("gl", "3.2", "OpenGL core context version (major.minor)"),
		SwapInterval:   fs.Int("swap", 1, "Buffer swap interval"),
		ClearColor:     fs.String("clear", "0.0,0.3,0.6,1.0", "Clear color as r,g,b,a"),
		VertexShader:   fs.String("vert", d.VertexShader, "Path to the vertex shader"),
		FragmentShader: fs.String("frag", d.FragmentShader, "Path to the fragment shader"),
		Translate:      fs.Bool("translate", false, "Treat shader sources as WebGL2 (GLSL ES 3.00) and translate them"),
		Primitive:      fs.String("primitive", "loop", "How the quad is drawn: loop or fan"),
		Help:           fs.Bool("help", false, "Show help message"),
		Mode:           fs.String("mode", "window", "Run mode: window or record"),
		Duration:       fs.Float64("duration", 5.0, "Duration to record in seconds"),
		FPS:            fs.Int("fps", 60, "Frames per second for recording"),
		OutputFile:     fs.String("output", "output.mp4", "Output file name for recording"),
		Codec:          fs.String("codec", "h264", "Video codec for recording: h264 or hevc"),
		FFMPEGPath:     fs.String("ffmpeg", "", "Path to ffmpeg executable (from "+FFmpegEnv+" env var if not set)"),
	}
}

// Recording reports whether the program renders offscreen to a video file.
func (o *Options) Recording() bool {
	return *o.Mode == "record"
}

// FFmpeg returns the ffmpeg executable path, falling back to the environment.
func (o *Options) FFmpeg() string {
	if *o.FFMPEGPath != "" {
		return *o.FFMPEGPath
	}
	return os.Getenv(FFmpegEnv)
}

// Clear returns the parsed clear color. Validate must have succeeded.
func (o *Options) Clear() mgl32.Vec4 {
	c, _ := ParseClearColor(*o.ClearColor)
	return c
}

// Version returns the parsed context version. Validate must have succeeded.
func (o *Options) Version() (major, minor int) {
	major, minor, _ = ParseVersion(*o.GLVersion)
	return major, minor
}

// Validate checks the parsed options and normalizes the context version.
func (o *Options) Validate() error {
	if *o.Width <= 0 || *o.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", *o.Width, *o.Height)
	}
	if _, err := ParseClearColor(*o.ClearColor); err != nil {
		return err
	}
	major, minor, err := ParseVersion(*o.GLVersion)
	if err != nil {
		return err
	}
	// translated shaders are emitted as GLSL 330
	if *o.Translate && (major < 3 || major == 3 && minor < 3) {
		log.Printf("Raising OpenGL context version from %d.%d to 3.3 for translated shaders", major, minor)
		*o.GLVersion = "3.3"
	}

	switch *o.Primitive {
	case "loop", "fan":
	default:
		return fmt.Errorf("unknown primitive %q", *o.Primitive)
	}

	switch *o.Mode {
	case "window":
	case "record":
		if *o.FPS <= 0 {
			return fmt.Errorf("fps must be positive, got %d", *o.FPS)
		}
		if !(*o.Duration > 0) {
			return fmt.Errorf("duration must be positive, got %g", *o.Duration)
		}
		if frames := math.Round(*o.Duration * float64(*o.FPS)); frames < 1 {
			return fmt.Errorf("duration %gs at %d fps records no frames", *o.Duration, *o.FPS)
		}
		if *o.OutputFile == "" {
			return fmt.Errorf("record mode needs an output file")
		}
		switch *o.Codec {
		case "h264", "hevc":
		default:
			return fmt.Errorf("unknown codec %q", *o.Codec)
		}
	default:
		return fmt.Errorf("unknown mode %q", *o.Mode)
	}
	return nil
}

// ParseClearColor parses "r,g,b,a" with every component in [0, 1].
func ParseClearColor(s string) (mgl32.Vec4, error) {
	var c mgl32.Vec4
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return c, fmt.Errorf("clear color %q: want 4 components, got %d", s, len(parts))
	}
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return c, fmt.Errorf("clear color %q: %w", s, err)
		}
		if !(v >= 0 && v <= 1) {
			return c, fmt.Errorf("clear color %q: component %d out of range", s, i)
		}
		c[i] = float32(v)
	}
	return c, nil
}

// ParseVersion parses an OpenGL version such as "3.2". Core profiles start at 3.2.
func ParseVersion(s string) (major, minor int, err error) {
	majStr, minStr, ok := strings.Cut(s, ".")
	if !ok {
		return 0, 0, fmt.Errorf("gl version %q: want major.minor", s)
	}
	if major, err = strconv.Atoi(majStr); err != nil {
		return 0, 0, fmt.Errorf("gl version %q: %w", s, err)
	}
	if minor, err = strconv.Atoi(minStr); err != nil {
		return 0, 0, fmt.Errorf("gl version %q: %w", s, err)
	}
	// 3.3 and 4.6 are the last releases of their major versions
	valid := false
	switch major {
	case 3:
		valid = minor >= 2 && minor <= 3
	case 4:
		valid = minor >= 0 && minor <= 6
	}
	if !valid {
		return 0, 0, fmt.Errorf("gl version %q: core profile needs 3.2 to 4.6", s)
	}
	return major, minor, nil
}
