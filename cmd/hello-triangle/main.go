package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/vkngwrapper/hello-triangle/internal/app"
	"github.com/vkngwrapper/hello-triangle/internal/config"
	"github.com/vkngwrapper/hello-triangle/internal/logging"
)

func init() {
	// SDL and the Vulkan surface must stay on the main thread.
	runtime.LockOSThread()
}

func run() error {
	cfg, err := config.Load(config.Path())
	if err != nil {
		return err
	}

	logger, err := logging.New(os.Stderr, cfg.Log.Level)
	if err != nil {
		return err
	}

	return app.New(cfg, logger).Run()
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}
