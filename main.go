package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/aisclub/clubevents/cmd/app"
)

// @title        Club events API
// @version      1.0
// @description  Events, check-ins and photo galleries for the club.
// @BasePath     /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer token. The live check-in socket also accepts it as ?token=.
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
