package main

import (
	stdLog "log"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/Astemirdum/library-api/mailer/app"
	"github.com/Astemirdum/library-api/mailer/config"
)

func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Println("no .env file, using environment: ", err)
	}
	cfg := config.NewConfig(config.WithLogLevel(zapcore.DebugLevel))

	if err := app.Run(cfg); err != nil {
		stdLog.Fatal(err)
	}
}
