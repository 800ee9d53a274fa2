// Package main is a diagnostic tool for testing database connectivity and
// inspecting live annuaire data. It connects to the database, counts the core
// tables, and prints a per-year summary to stdout. The binary exits with a
// non-zero code on any failure so it can be embedded in health checks or CI/CD
// pipeline steps to gate deployments on a reachable, populated database.
package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
)

func main() {
	dbPassword := os.Getenv("DATABASE_PASSWORD")
	if dbPassword == "" {
		dbPassword = "annuaire"
	}

	connStr := fmt.Sprintf("host=localhost port=5432 user=annuaire password=%s dbname=annuaire sslmode=disable", dbPassword)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer db.Close()

	// Check years
	fmt.Println("=== ANNEES UNIVERSITAIRES ===")
	rows, err := db.Query(`
		SELECT an.id_annee, an.libelle, an.statut,
		       (SELECT COUNT(*) FROM entite_structure e WHERE e.id_annee = an.id_annee),
		       (SELECT COUNT(*) FROM affectation a WHERE a.id_annee = an.id_annee)
		FROM annee_universitaire an
		ORDER BY an.id_annee`)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}
	defer rows.Close()

	yearCount := 0
	for rows.Next() {
		var id int64
		var libelle, statut string
		var entites, affectations int
		if err := rows.Scan(&id, &libelle, &statut, &entites, &affectations); err != nil {
			log.Printf("Warning: failed to scan annee row: %v", err)
			continue
		}
		fmt.Printf("Annee: %s [%s] (ID: %d) - %d entites, %d affectations\n",
			libelle, statut, id, entites, affectations)
		yearCount++
	}
	if yearCount == 0 {
		fmt.Println("No years found!")
	}

	// Check users
	fmt.Println("\n=== UTILISATEURS ===")
	var users int
	if err := db.QueryRow("SELECT COUNT(*) FROM utilisateur").Scan(&users); err != nil {
		log.Fatalf("Query failed: %v", err)
	}
	fmt.Printf("Users: %d\n", users)

	// Check snapshots
	fmt.Println("\n=== ORGANIGRAMMES ===")
	rows2, err := db.Query(`
		SELECT o.id_organigramme, o.id_annee, o.est_fige, o.generated_at
		FROM organigramme o
		ORDER BY o.generated_at DESC
		LIMIT 10`)
	if err != nil {
		log.Fatalf("Query failed: %v", err)
	}
	defer rows2.Close()

	count := 0
	for rows2.Next() {
		var id, anneeID int64
		var fige bool
		var generatedAt string
		if err := rows2.Scan(&id, &anneeID, &fige, &generatedAt); err != nil {
			log.Printf("Warning: failed to scan organigramme row: %v", err)
			continue
		}
		state := "live"
		if fige {
			state = "fige"
		}
		fmt.Printf("Organigramme %d (annee %d, %s) generated at %s\n", id, anneeID, state, generatedAt)
		count++
	}
	if count == 0 {
		fmt.Println("No organigrammes found!")
	}
}
