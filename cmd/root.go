package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/aeldberg/mezquit/internal/logging"
)

// RootCmd is the top level mezquit command. Subcommands (pub, sub) register themselves onto
// it from their own init() functions, the way the teacher's cmd/pub.go already expected a
// RootCmd to exist - that file is the one piece of ambient CLI wiring the retrieved source
// never actually included, so it is supplied here in the same cobra/viper idiom the
// teacher's own go.mod commits to.
var RootCmd = &cobra.Command{
	Use:   "mezquit",
	Short: "mezquit is a minimal MQTT 3.1.1 client",
	Long: `mezquit drives an MQTT 3.1.1 connection: connect, publish, subscribe,
and disconnect against a broker reachable over TCP, TLS, or WebSocket.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.SetLevelFromName(logLevel)
	},
}

var (
	cfgFile  string
	logLevel string
)

// Execute runs RootCmd, the single entry point main.go calls.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	RootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.mezquit.yaml)")
	RootCmd.PersistentFlags().StringVarP(&logLevel, "loglevel", "l", "warn", "log level: debug, info, warn, error")
}

// initConfig loads configuration the way the teacher's own dependency on spf13/viper and
// mitchellh/go-homedir implies it would: an explicit --config file if given, otherwise
// $HOME/.mezquit.yaml, with MEZQUIT_-prefixed environment variables overriding either.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			log.Errorf("Cannot determine home directory: %s", err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".mezquit")
	}

	viper.SetEnvPrefix("MEZQUIT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
	} else if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
		fmt.Fprintf(os.Stderr, "Error reading config file: %s\n", err)
	}
}
