package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	app "github.com/richinsley/glhello/app"
	glfwcontext "github.com/richinsley/glhello/glfwcontext"
	options "github.com/richinsley/glhello/options"
	"github.com/xlab/closer"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	opts := options.Register(flag.CommandLine, options.Defaults{})
	flag.Parse()

	if *opts.Help {
		fmt.Println("Opens a window and uses an embedded shader program every frame")
		flag.PrintDefaults()
		return
	}
	defer closer.Close()

	if err := opts.Validate(); err != nil {
		closer.Fatalln("Invalid options:", err)
	}
	scene := app.InlineScene(opts)

	// signals only flag the window; GLFW is terminated here on the main thread
	shutdown := app.NewShutdown()
	closer.Bind(shutdown.RequestClose)

	if err := glfwcontext.InitGraphics(); err != nil {
		shutdown.Done()
		closer.Fatalln("Failed to initialize GLFW:", err)
	}

	err := app.Run(opts, scene, shutdown)
	glfwcontext.TerminateGraphics()
	shutdown.Done()
	if err != nil {
		closer.Fatalln(err)
	}
	log.Println("Done")
}
