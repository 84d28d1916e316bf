package main

import (
	"os"

	"github.com/jessevdk/go-flags"

	"github.com/gwillem/allbot/internal/log"
)

type Options struct {
	LogLevel string `long:"log-level" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"Log level"`
	Config   string `long:"config" short:"c" default:"allbot.json" description:"Configuration file"`

	Setup    SetupCommand    `command:"setup" description:"Find the servo bus and write a configuration"`
	Play     PlayCommand     `command:"play" description:"Play gestures from the repertoire"`
	Gestures GesturesCommand `command:"gestures" alias:"ls" description:"List the gesture repertoire"`
}

var opts Options
var parser = flags.NewParser(&opts, flags.Default)

func main() {
	parser.LongDescription = "allbot - gesture player for ALLBOT-style servo robots"
	parser.CommandHandler = func(cmd flags.Commander, args []string) error {
		log.Init(opts.LogLevel)
		if cmd == nil {
			return nil
		}
		return cmd.Execute(args)
	}

	_, err := parser.Parse()
	if err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
		}
		os.Exit(1)
	}
}
