package database

import (
	"fmt"
	"os"
	"strconv"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Conectar abre a conexão com o Postgres usando as variáveis de ambiente
// DB_HOST, DB_PORT, DB_NAME, DB_USERNAME, DB_PASSWORD e DB_SSL_MODE_DISABLE.
func Conectar() (*gorm.DB, error) {
	host := os.Getenv("DB_HOST")
	port, err := strconv.ParseUint(os.Getenv("DB_PORT"), 10, 32)
	if err != nil {
		port = 5432
	}
	nome := os.Getenv("DB_NAME")
	usuario := os.Getenv("DB_USERNAME")
	senha := os.Getenv("DB_PASSWORD")

	var sslMode string
	if os.Getenv("DB_SSL_MODE_DISABLE") == "true" {
		sslMode = " sslmode=disable"
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d%s",
		host, usuario, senha, nome, port, sslMode)

	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
}
