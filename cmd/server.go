package cmd

import (
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	devConfig "github.com/openbhoukal/emergency-contacts/dev/config"
	"github.com/openbhoukal/emergency-contacts/server"
	"github.com/openbhoukal/emergency-contacts/utils"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start a contact store server",
	Long:  `The contact store server answers the /items/ CRUD API consumed by the contact management client`,
	Run: func(cmd *cobra.Command, args []string) {
		server.Start(serverConfig(), isDevEnv)
	},
}

var serverConfigFile string

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringVar(&serverConfigFile, "sconfig", "", "Config for server")
}

func serverConfig() *viper.Viper {
	config = viper.New()

	if isDevEnv {
		serverConfigFile = devConfigFilePath()
	}

	config.SetConfigFile(serverConfigFile)
	config.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := config.ReadInConfig(); err != nil {
		log.Panic(fmt.Sprintf("error reading server config file: %v", err))
	}

	return config
}

// devConfigFilePath returns the dev-mode server config path, writing the
// default config there first if none exists.
func devConfigFilePath() string {
	configDir, err := os.Getwd()
	if err != nil {
		log.Panic(err)
	}

	configFilePath := filepath.Join(configDir, "dev", "config", "server.yml")
	if !utils.FileExist(configFilePath) {
		if err := utils.CreateDirIfNotExist(filepath.Dir(configFilePath)); err != nil {
			log.Panic(err)
		}
		if err := ioutil.WriteFile(configFilePath, []byte(devConfig.SERVER_YML), 0600); err != nil {
			log.Panic(err)
		}
	}

	return configFilePath
}
