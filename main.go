package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/globnft/glob-rewards-api/api/handlers"

	"go.uber.org/zap"

	"github.com/globnft/glob-rewards-api/config"
)

func main() {
	a := handlers.App{}
	a.Config = *config.New()

	if err := a.Initialize(); err != nil { //initialize database, scheduler and router
		log.Fatal(err)
	}

	zap.S().Infow("glob-rewards-api is up and running",
		"port", a.Config.Port,
		"url", a.Config.BaseURL,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", a.Config.Port), a.Router))
}
