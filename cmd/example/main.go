package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/gridbase/gridbase/pkg/gridbase"
)

func main() {
	ctx := context.Background()

	credentials, err := os.ReadFile("service-account.json")
	if err != nil {
		log.Fatalf("Failed to read credentials: %v", err)
	}

	db, err := gridbase.New(ctx, gridbase.Config{
		SpreadsheetID: "your-spreadsheet-id",
		Credentials:   credentials,
	})
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}

	users, err := db.RowStore(ctx, "users", "name", "age", "dob")
	if err != nil {
		log.Fatalf("Failed to open row store: %v", err)
	}
	defer users.Close(ctx)

	err = users.Insert(
		map[string]interface{}{"name": "alice", "age": 30, "dob": "1-1-1996"},
		map[string]interface{}{"name": "bob", "age": 25, "dob": "1-1-2001"},
	).Exec(ctx)
	if err != nil {
		log.Fatalf("Failed to insert rows: %v", err)
	}

	rows, err := users.Select("name", "age").
		Where("age >= ?", 26).
		OrderBy(gridbase.ColumnOrder{Column: "age", Order: gridbase.OrderingDesc}).
		Exec(ctx)
	if err != nil {
		log.Fatalf("Failed to select rows: %v", err)
	}
	for _, row := range rows {
		fmt.Printf("%v is %v years old\n", row["name"], row["age"])
	}

	changed, err := users.Update(map[string]interface{}{"age": 26}).
		Where("name = ?", "bob").
		Exec(ctx)
	if err != nil {
		log.Fatalf("Failed to update rows: %v", err)
	}
	fmt.Printf("updated %d rows\n", changed)

	// The same spreadsheet can host a key-value store in another sheet.
	settings, err := db.KV(ctx, "settings")
	if err != nil {
		log.Fatalf("Failed to open key-value store: %v", err)
	}
	defer settings.Close(ctx)

	if err := settings.Set(ctx, "theme", []byte("dark")); err != nil {
		log.Fatalf("Failed to set key: %v", err)
	}
	theme, err := settings.Get(ctx, "theme")
	if err != nil {
		log.Fatalf("Failed to get key: %v", err)
	}
	fmt.Printf("theme = %s\n", theme)
}
