package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// cleandb wipes generated demo data (tracking events and notification logs)
// while leaving the operator's geofences alone.

var (
	dsn     = flag.String("dsn", "", "Postgres DSN (default: env DATABASE_URL)")
	dryRun  = flag.Bool("dry-run", false, "Count rows only; no deletes")
	confirm = flag.Bool("confirm", false, "Required to actually delete")
)

var tables = []string{
	"geomark.tracking_events",
	"geomark.notification_logs",
}

func main() {
	_ = godotenv.Load(".env.local")
	flag.Parse()

	if *dsn == "" {
		*dsn = os.Getenv("DATABASE_URL")
	}
	if *dsn == "" {
		fatalf("--dsn not provided and DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	db, err := sql.Open("pgx", *dsn)
	if err != nil {
		fatalf("connect: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		fatalf("ping: %v", err)
	}

	for _, table := range tables {
		var count int64
		if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count); err != nil {
			fatalf("count %s: %v", table, err)
		}
		fmt.Printf("%s: %d rows\n", table, count)
	}

	if *dryRun {
		fmt.Println("Dry run complete. No changes made.")
		return
	}
	if !*confirm {
		fatalf("Refusing to run without --confirm. Add --dry-run to preview.")
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		fatalf("begin tx: %v", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, table := range tables {
		result, err := tx.ExecContext(ctx, "DELETE FROM "+table)
		if err != nil {
			fatalf("delete %s: %v", table, err)
		}
		deleted, _ := result.RowsAffected()
		fmt.Printf("Deleted %d rows from %s\n", deleted, table)
	}

	if err := tx.Commit(); err != nil {
		fatalf("commit: %v", err)
	}
	fmt.Println("Done.")
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
