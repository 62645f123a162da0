package main

import (
	"os"
	"os/signal"

	"github.com/habedi/mscli/cmd"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// debugEnvVar enables debug logging when set to anything but "", "0" or "false".
const debugEnvVar = "MSCLI_DEBUG"

func main() {
	configureLogLevelFromEnv()

	stopChan := setupInterruptListener()
	go handleInterrupt(stopChan, func(msg string) { log.Error().Msg(msg) }, os.Exit)

	cmd.Execute()
}

func configureLogLevelFromEnv() {
	switch os.Getenv(debugEnvVar) {
	case "", "0", "false":
		zerolog.SetGlobalLevel(zerolog.Disabled)
	default:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func setupInterruptListener() chan os.Signal {
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt)
	return stopChan
}

// handleInterrupt waits for a signal, logs it and exits with status 1.
func handleInterrupt(stopChan chan os.Signal, fatalLog func(string), exit func(int)) {
	<-stopChan
	fatalLog("Interrupt signal received. Exiting...")
	exit(1)
}
