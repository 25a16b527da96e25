package main

import (
	stdLog "log"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"

	"github.com/Astemirdum/library-api/library/app"
	"github.com/Astemirdum/library-api/library/config"
)

// @title       Library API
// @version     1.0
// @description books and loans
// @BasePath    /api/v1
func main() {
	if err := godotenv.Load(); err != nil {
		stdLog.Println("no .env file, using environment: ", err)
	}
	cfg := config.NewConfig(
		config.WithLogLevel(zapcore.DebugLevel),
		config.WithWriteTimeout(time.Minute),
		config.WithSweepInterval(24*time.Hour),
	)

	app.Run(cfg)
}
