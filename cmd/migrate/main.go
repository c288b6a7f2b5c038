package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/pressly/goose/v3"

	"shoemarket/config"
	"shoemarket/internal/pkg/database"
	"shoemarket/migrations"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️ Aviso: arquivo .env não encontrado. Usando apenas as variáveis de ambiente do sistema: %v", err)
	}

	var migrationsDir string
	flag.StringVar(&migrationsDir, "dir", "", "diretório com as migrações (vazio usa as migrações embutidas)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("goose: %v", err)
	}

	db, err := database.NewPostgresDB(context.Background(), cfg.DatabaseURL, database.DefaultPool)
	if err != nil {
		log.Fatalf("goose: falha ao conectar no DB: %v", err)
	}
	defer db.Close()

	if migrationsDir == "" {
		goose.SetBaseFS(migrations.FS)
		migrationsDir = "."
	}
	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("goose: %v", err)
	}

	arguments := flag.Args()
	if len(arguments) == 0 {
		arguments = []string{"up"}
	}
	command, args := arguments[0], arguments[1:]

	if err := goose.RunContext(context.Background(), command, db, migrationsDir, args...); err != nil {
		log.Printf("goose %s: %v", command, err)
		os.Exit(1)
	}

	fmt.Printf("goose %s: sucesso\n", command)
}
