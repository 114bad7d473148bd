package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		log.Fatalf("Failed to open DB: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping DB: %v", err)
	}

	itemIDs := seedItems(db)
	discountID := seedDiscounts(db)
	taxID := seedTaxes(db)
	seedOrders(db, itemIDs, discountID, taxID)

	log.Println("Seeding completed successfully!")
}

func seedItems(db *sql.DB) map[string]int64 {
	items := []struct {
		Name        string
		Description string
		Price       string
		Currency    string
	}{
		{"Classic Tee", "Plain cotton t-shirt", "10.00", "usd"},
		{"Logo Cap", "Adjustable baseball cap", "20.00", "usd"},
		{"Coffee Mug", "Ceramic mug, 350ml", "19.99", "usd"},
		{"Sticker Pack", "Ten assorted vinyl stickers", "4.50", "usd"},
		{"Hoodie", "Heavyweight fleece hoodie", "45.00", "usd"},
		{"Tote Bag", "Canvas tote with print", "12.75", "usd"},
		{"Poster", "A2 matte art print", "15.00", "eur"},
		{"Notebook", "Dotted A5 notebook", "8.25", "usd"},
	}

	fmt.Println("Seeding Items...")
	ids := make(map[string]int64)
	for _, it := range items {
		var id int64
		err := db.QueryRow("SELECT id FROM items WHERE name = $1", it.Name).Scan(&id)
		if err == sql.ErrNoRows {
			err = db.QueryRow(`
				INSERT INTO items (name, description, price, currency)
				VALUES ($1, $2, $3, $4)
				RETURNING id;
			`, it.Name, it.Description, it.Price, it.Currency).Scan(&id)
		}
		if err != nil {
			log.Printf("Failed to seed item %s: %v", it.Name, err)
			continue
		}
		ids[it.Name] = id
	}
	return ids
}

func seedDiscounts(db *sql.DB) int64 {
	discounts := []struct {
		Code       string
		Percentage string
	}{
		{"SAVE10", "10.00"},
		{"WELCOME5", "5.00"},
		{"HALFOFF", "50.00"},
	}

	fmt.Println("Seeding Discounts...")
	var firstID int64
	for _, d := range discounts {
		var id int64
		err := db.QueryRow(`
			INSERT INTO discounts (code, percentage)
			VALUES ($1, $2)
			ON CONFLICT (code) DO UPDATE SET percentage = EXCLUDED.percentage
			RETURNING id;
		`, d.Code, d.Percentage).Scan(&id)
		if err != nil {
			log.Printf("Failed to seed discount %s: %v", d.Code, err)
			continue
		}
		if firstID == 0 {
			firstID = id
		}
	}
	return firstID
}

func seedTaxes(db *sql.DB) int64 {
	taxes := []struct {
		Name       string
		Percentage string
	}{
		{"VAT", "5.00"},
		{"Sales Tax", "8.88"},
	}

	fmt.Println("Seeding Taxes...")
	var firstID int64
	for _, t := range taxes {
		var id int64
		err := db.QueryRow("SELECT id FROM taxes WHERE name = $1", t.Name).Scan(&id)
		if err == sql.ErrNoRows {
			err = db.QueryRow(`
				INSERT INTO taxes (name, percentage)
				VALUES ($1, $2)
				RETURNING id;
			`, t.Name, t.Percentage).Scan(&id)
		}
		if err != nil {
			log.Printf("Failed to seed tax %s: %v", t.Name, err)
			continue
		}
		if firstID == 0 {
			firstID = id
		}
	}
	return firstID
}

func seedOrders(db *sql.DB, itemIDs map[string]int64, discountID, taxID int64) {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM orders").Scan(&count); err != nil {
		log.Printf("Failed to count orders: %v", err)
		return
	}
	if count > 0 {
		log.Println("Orders already present, skipping order seed")
		return
	}

	fmt.Println("Seeding Orders...")
	orders := []struct {
		Items    []string
		Discount bool
		Tax      bool
	}{
		{Items: []string{"Classic Tee", "Logo Cap"}, Discount: true, Tax: true},
		{Items: []string{"Coffee Mug", "Sticker Pack", "Notebook"}, Discount: false, Tax: true},
		{Items: []string{"Hoodie"}, Discount: false, Tax: false},
	}

	for _, o := range orders {
		var dID, tID sql.NullInt64
		if o.Discount && discountID != 0 {
			dID = sql.NullInt64{Int64: discountID, Valid: true}
		}
		if o.Tax && taxID != 0 {
			tID = sql.NullInt64{Int64: taxID, Valid: true}
		}

		var orderID int64
		err := db.QueryRow(`
			INSERT INTO orders (discount_id, tax_id)
			VALUES ($1, $2)
			RETURNING id;
		`, dID, tID).Scan(&orderID)
		if err != nil {
			log.Printf("Failed to seed order: %v", err)
			continue
		}

		for pos, name := range o.Items {
			itemID, ok := itemIDs[name]
			if !ok {
				log.Printf("Missing item ID for %s", name)
				continue
			}
			if _, err := db.Exec(`
				INSERT INTO order_items (order_id, item_id, position)
				VALUES ($1, $2, $3);
			`, orderID, itemID, pos); err != nil {
				log.Printf("Failed to seed order item %s: %v", name, err)
			}
		}
	}
}
