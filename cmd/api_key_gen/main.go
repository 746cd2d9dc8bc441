package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	_ "github.com/lib/pq"

	"unionhall/backoffice/internal/constants"
	"unionhall/backoffice/internal/db"
)

func main() {
	name := flag.String("name", "", "client name for the new API key")
	flag.Parse()

	if *name == "" {
		fmt.Fprintln(os.Stderr, "usage: api_key_gen -name <client name>")
		os.Exit(2)
	}

	conn, err := sql.Open("postgres", db.PostgresDSN())
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer conn.Close()

	apiKey := uuid.NewString()

	var id string
	if err := conn.QueryRow(constants.InsertApiClient, *name, apiKey).Scan(&id); err != nil {
		log.Fatalf("insert api client: %v", err)
	}

	fmt.Println("Client ID:", id)
	fmt.Println("API Key:  ", apiKey)
}
