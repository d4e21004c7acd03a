/*
This is an example of application that will use the
engine package to test things out
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/xnagfx/engine"
	"github.com/spaghettifunk/xnagfx/engine/core"
	"github.com/spaghettifunk/xnagfx/testbed"
)

func main() {
	configPath := flag.String("config", "", "TOML configuration file")
	watch := flag.Bool("watch", false, "reload the configuration file when it changes")
	flag.Parse()

	tb := testbed.NewTestGame(&engine.ApplicationConfig{
		Name:       "xnagfx testbed",
		ConfigPath: *configPath,
		Watch:      *watch,
	})

	e, err := engine.New(tb.Game)
	if err != nil {
		core.LogFatal("%s", err)
	}
	tb.SetOutputPath(e.Config().Testbed.OutputPath)

	if err := e.Initialize(); err != nil {
		_ = e.Shutdown()
		core.LogFatal("%s", err)
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	go func() {
		<-sigCh
		e.Quit()
	}()

	runErr := e.Run()
	if err := e.Shutdown(); err != nil {
		core.LogError("%s", err)
	}
	if runErr != nil {
		core.LogFatal("%s", runErr)
	}
}
