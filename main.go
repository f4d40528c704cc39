package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	cli "github.com/jawher/mow.cli"
	"github.com/scott-ace-newton/messages-rw-redis/database"
	"github.com/scott-ace-newton/messages-rw-redis/discovery"
	"github.com/scott-ace-newton/messages-rw-redis/messages"
	"github.com/scott-ace-newton/messages-rw-redis/notification"
	"github.com/scott-ace-newton/messages-rw-redis/persistence"
	"github.com/scott-ace-newton/messages-rw-redis/users"
	log "github.com/sirupsen/logrus"
)

const (
	appName = "messages-rw-redis"
	appDescription = "Application for creating, updating, returning and deleting users and their messages from a redis store"
)

func main() {
	app := cli.App(appName, appDescription)

	redisAddress := app.String(cli.StringOpt{
		Name:   "redisAddress",
		Value:  "localhost:6379",
		Desc:   "Address of the redis store in 'host:port' format",
		EnvVar: "REDIS_ADDRESS",
	})
	queueURL := app.String(cli.StringOpt{
		Name:      "queueURL",
		Desc:      "Url of queue to send events to",
		EnvVar:    "QUEUE_URL",
		HideValue: true,
	})
	port := app.String(cli.StringOpt{
		Name:   "port",
		Value:  "8080",
		Desc:   "Port to listen on",
		EnvVar: "APP_PORT",
	})
	logLevel := app.String(cli.StringOpt{
		Name:   "logLevel",
		Value:  "info",
		Desc:   "App log level",
		EnvVar: "LOG_LEVEL",
	})

	app.Action = func() {
		logLvl, err := log.ParseLevel(*logLevel)
		if err != nil {
			log.WithField("logLevel", *logLevel).WithError(err).Error("could not parse log level. Using INFO instead.")
			logLvl = log.InfoLevel
		}
		log.SetLevel(logLvl)
		log.Infof("[Startup] %s is starting on port %s...", appName, *port)

		if *queueURL == "" {
			log.Fatal("queue url not set")
			return
		}

		pool, err := database.NewPool(*redisAddress)
		if err != nil {
			log.WithError(err).Fatal("could not connect to redis")
			return
		}

		queueClient := notification.NewQueueClient(*queueURL)
		userStore := persistence.NewUserStore(pool)
		messageStore := persistence.NewMessageStore(pool)

		userService := users.NewService(userStore, queueClient)
		messageService := messages.NewService(messageStore, userStore, queueClient)

		r := mux.NewRouter()
		discovery.Handler{}.RegisterHandlers(r)
		mh := messages.NewMessagesHandler(messageService)
		mh.RegisterHandlers(r)
		uh := users.NewUsersHandler(userService, messageService)
		uh.RegisterHandlers(r)

		sig := make(chan os.Signal, 1)
		signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)

		go func() {
			log.Infof("Listening on port %v", *port)
			if err := http.ListenAndServe(":"+*port, handlers.CombinedLoggingHandler(os.Stdout, r)); err != nil {
				log.Errorf("HTTP server got shut down error: %v", err)
			}
			sig <- os.Interrupt
		}()

		<-sig
		log.Info("shutting down HTTP server...")
		time.Sleep(2 * time.Second)
		os.Exit(0)
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("app could not start")
	}
}
