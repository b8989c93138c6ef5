package server

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gorilla/mux"
	"github.com/openbhoukal/emergency-contacts/server/logger"
	"github.com/openbhoukal/emergency-contacts/server/models"
	"github.com/openbhoukal/emergency-contacts/server/validation"
	"github.com/openbhoukal/emergency-contacts/shared"
	"github.com/spf13/viper"
)

var logg = logger.NewLogger()

// Start boots the contact store API: unmarshals & validates the server
// config, opens the database, and serves until SIGINT/SIGTERM.
func Start(config *viper.Viper, devMode bool) {
	serverConfig := shared.ServerConfig{}

	fatalOnError(config.Unmarshal(&serverConfig))
	fatalOnError(validation.ValidateStruct(serverConfig))

	if serverConfig.Logging.File != "" {
		logg = logger.NewFileLogger(
			serverConfig.Logging.File,
			serverConfig.Logging.MaxSizeMB,
			serverConfig.Logging.MaxBackups,
			serverConfig.Logging.MaxAgeDays,
		)
	}

	fatalOnError(models.AutoMigrate(serverConfig.Sqlite.PassPhrase, configDirectory(devMode)))

	server := &http.Server{
		Addr:    fmt.Sprintf(":%v", serverConfig.Listener.Port),
		Handler: newRouter(),
	}

	go serve(server)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	cleanup(server)
}

func newRouter() *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	router.Use(jsonContentTypeMiddleware, loggingMiddleware, recoveryMiddleware)

	router.HandleFunc("/items/", listContacts).Methods("GET")
	router.HandleFunc("/items/", createContact).Methods("POST")
	router.HandleFunc("/items/{id:[0-9]+}/", findContact).Methods("GET")
	router.HandleFunc("/items/{id:[0-9]+}/", replaceContact).Methods("PUT")
	router.HandleFunc("/items/{id:[0-9]+}/", patchContact).Methods("PATCH")
	router.HandleFunc("/items/{id:[0-9]+}/", deleteContact).Methods("DELETE")

	router.NotFoundHandler = jsonContentTypeMiddleware(http.HandlerFunc(routeNotFound))
	router.MethodNotAllowedHandler = jsonContentTypeMiddleware(http.HandlerFunc(methodNotAllowed))

	return router
}
