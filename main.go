package main

import (
	"flag"
	"fmt"
	"os"

	"hoyspace-api/server"

	"github.com/umakantv/go-utils/db/migrations"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

func main() {
	commandFlag := flag.String("command", "start", "Command to run: start, create-migration, create-admin, seed-spaces")
	configFlag := flag.String("config", "config.yaml", "Path to the YAML config file")
	nameFlag := flag.String("name", "", "Migration name (alphanum+underscore only)")
	dirFlag := flag.String("dir", "./database/migrations/sqlite", "Target directory for the new .sql file")
	adminEmail := flag.String("email", "admin@hoyspace.com", "Admin email for create-admin")
	adminPassword := flag.String("password", "", "Admin password for create-admin")
	adminName := flag.String("admin-name", "Admin User", "Admin display name for create-admin")
	flag.Parse()

	if *commandFlag == "" {
		fmt.Println("Usage: go run main.go --command <command-name> [... other options]")
		os.Exit(1)
	}

	switch *commandFlag {
	case "start":
		server.StartServer(*configFlag)
	case "create-migration":
		migrations.CreateMigration(nameFlag, dirFlag)
	case "create-admin":
		server.InitLogger()
		if err := server.CreateAdmin(*configFlag, *adminName, *adminEmail, *adminPassword); err != nil {
			logger.Error("create-admin failed", zap.Error(err))
			os.Exit(1)
		}
	case "seed-spaces":
		server.InitLogger()
		if err := server.SeedSpaces(*configFlag); err != nil {
			logger.Error("seed-spaces failed", zap.Error(err))
			os.Exit(1)
		}
	default:
		fmt.Printf("Unknown command %q\n", *commandFlag)
		os.Exit(1)
	}
}
