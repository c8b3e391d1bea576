package main

import (
	"flag"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/abelbrown/moderator/internal/config"
)

func runConfig() {
	fs := flag.NewFlagSet("config", flag.ExitOnError)
	write := fs.Bool("init", false, "Write the effective configuration to the config file")
	fs.Parse(os.Args[1:])

	cfg := loadConfig()
	path, _ := config.FilePath()

	if *write {
		if _, err := os.Stat(path); err == nil {
			fmt.Fprintf(os.Stderr, "error: %s already exists\n", path)
			os.Exit(1)
		}
		if err := cfg.Save(path); err != nil {
			fatal(err)
		}
		fmt.Printf("Wrote %s\n", path)
		return
	}

	shown := *cfg
	if shown.API.Token != "" {
		shown.API.Token = "********"
	}
	data, err := yaml.Marshal(&shown)
	if err != nil {
		fatal(err)
	}
	fmt.Printf("# %s\n%s\n", path, data)
	fmt.Print(config.Usage())
}
