// Command censorfile censors "user: message" text files, writing each result
// next to its input as <name>_censored<ext>.
package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"wordfilter/pkg/censor"
	"wordfilter/pkg/config"
)

func main() {
	var (
		configPath  string
		termsPath   string
		placeholder string
		logLevel    string
	)

	flag.StringVar(&configPath, "config", "", "Path to TOML config file")
	flag.StringVar(&termsPath, "terms", "", "Path to JSON file with forbidden terms")
	flag.StringVar(&placeholder, "placeholder", "", "Replacement for forbidden terms")
	flag.StringVar(&logLevel, "log", "", "Log level: debug, info, warn, error.")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s -terms words.json file...\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("[censorfile] %v", err)
	}
	if termsPath != "" {
		cfg.TermsPath = termsPath
	}
	if placeholder != "" {
		cfg.Placeholder = placeholder
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	log.SetLevel(cfg.Level())

	if cfg.TermsPath == "" || flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	censorConf, err := censor.LoadConfig(cfg.TermsPath)
	if err != nil {
		log.Fatalf("[censorfile] failed to load terms file %s: %v", cfg.TermsPath, err)
	}
	if cfg.Placeholder != "" {
		censorConf.Placeholder = cfg.Placeholder
	}

	c, err := censor.New(censorConf)
	if err != nil {
		log.Fatalf("[censorfile] failed to create censor: %v", err)
	}

	for _, in := range flag.Args() {
		out, err := c.CensorFile(in)
		if err != nil {
			log.Fatalf("[censorfile] %s: %v", in, err)
		}
		log.Debugf("[censorfile] %s -> %s", in, out)
		fmt.Println(out)
	}

	for _, rec := range c.Describe() {
		log.Infof("[censorfile] censored %q: %v", rec.Text, rec.Frequency)
	}
}
