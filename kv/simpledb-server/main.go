package main

import (
	"flag"
	"os"

	"github.com/pingcap/log"
	"go.uber.org/zap"

	"github.com/simpledb-incubator/simpledb/kv/config"
	"github.com/simpledb-incubator/simpledb/kv/engine"
	"github.com/simpledb-incubator/simpledb/kv/server"
)

var (
	configPath  = flag.String("config", "", "config file path")
	logLevel    = flag.String("loglevel", "", "log level override")
	interactive = flag.Bool("interactive", false, "run with an interactive prompt")
)

func main() {
	flag.Parse()

	var conf *config.Config
	var err error
	if *configPath != "" {
		conf, err = config.FromFile(*configPath)
		if err != nil {
			log.Fatal("invalid config", zap.Error(err))
		}
	} else {
		conf = config.NewDefaultConfig()
	}
	if *logLevel != "" {
		conf.LogLevel = *logLevel
	}
	if *interactive {
		conf.Interactive = true
	}
	if err := conf.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	logger, props, err := log.InitLogger(&log.Config{Level: conf.LogLevel})
	if err != nil {
		log.Fatal("initialize logger", zap.Error(err))
	}
	log.ReplaceGlobals(logger, props)

	sess := server.NewSession(engine.New(), os.Stdout)

	log.Info("simpledb session starting", zap.Bool("interactive", conf.Interactive))
	if conf.Interactive {
		err = sess.RunInteractive(conf.Prompt, conf.HistoryFile)
	} else {
		err = sess.Run(os.Stdin)
	}
	if err != nil {
		log.Fatal("session failed", zap.Error(err))
	}
	log.Info("simpledb session ended")
}
