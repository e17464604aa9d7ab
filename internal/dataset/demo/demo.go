// Package demo produces a small deterministic e-commerce dataset in Parquet
// form, for local development and examples without the real dataset download.
package demo

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/shopsight/shopsight/internal/storage"
)

type Config struct {
	// Orders is the number of orders to generate.
	Orders int
	// Seed fixes the random source; the same seed always yields the same
	// dataset.
	Seed int64
	// Start anchors the first order date. Orders spread over the following
	// 18 months.
	Start time.Time
}

// TableFile is one generated Parquet file.
type TableFile struct {
	Name string
	Data []byte
	Rows int
}

var (
	categories    = []string{"electronics", "beauty", "sports", "home", "fashion", "books", "toys", "informatica"}
	states        = []string{"SP", "RJ", "MG", "RS", "PR", "BA", "SC", "GO"}
	cities        = []string{"sao paulo", "rio de janeiro", "belo horizonte", "porto alegre", "curitiba", "salvador"}
	paymentTypes  = []string{"credit_card", "boleto", "voucher", "debit_card"}
	orderStatuses = []string{"delivered", "delivered", "delivered", "shipped", "canceled", "processing"}
)

type demoCustomer struct {
	CustomerID    string `parquet:"customer_id"`
	CustomerCity  string `parquet:"customer_city"`
	CustomerState string `parquet:"customer_state"`
}

type demoOrder struct {
	OrderID                    string `parquet:"order_id"`
	CustomerID                 string `parquet:"customer_id"`
	OrderStatus                string `parquet:"order_status"`
	OrderPurchaseTimestamp     string `parquet:"order_purchase_timestamp"`
	OrderDeliveredCustomerDate string `parquet:"order_delivered_customer_date,optional"`
}

type demoOrderItem struct {
	OrderID   string  `parquet:"order_id"`
	ProductID string  `parquet:"product_id"`
	Price     float64 `parquet:"price"`
}

type demoProduct struct {
	ProductID           string `parquet:"product_id"`
	ProductCategoryName string `parquet:"product_category_name"`
}

type demoPayment struct {
	OrderID      string  `parquet:"order_id"`
	PaymentType  string  `parquet:"payment_type"`
	PaymentValue float64 `parquet:"payment_value"`
}

type demoReview struct {
	ReviewID    string `parquet:"review_id"`
	OrderID     string `parquet:"order_id"`
	ReviewScore int32  `parquet:"review_score"`
}

type demoSeller struct {
	SellerID    string `parquet:"seller_id"`
	SellerCity  string `parquet:"seller_city"`
	SellerState string `parquet:"seller_state"`
}

// Generate builds the full dataset as in-memory Parquet files named so the
// loader maps them onto the canonical tables.
func Generate(cfg Config) ([]TableFile, error) {
	orders := cfg.Orders
	if orders < 1 {
		orders = 500
	}
	start := cfg.Start
	if start.IsZero() {
		start = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))

	productCount := orders/10 + len(categories)
	customerCount := orders/2 + 1
	sellerCount := orders/25 + 1

	products := make([]demoProduct, productCount)
	for i := range products {
		products[i] = demoProduct{
			ProductID:           fmt.Sprintf("prod-%04d", i),
			ProductCategoryName: categories[rng.Intn(len(categories))],
		}
	}

	customers := make([]demoCustomer, customerCount)
	for i := range customers {
		customers[i] = demoCustomer{
			CustomerID:    fmt.Sprintf("cust-%05d", i),
			CustomerCity:  cities[rng.Intn(len(cities))],
			CustomerState: states[rng.Intn(len(states))],
		}
	}

	sellers := make([]demoSeller, sellerCount)
	for i := range sellers {
		sellers[i] = demoSeller{
			SellerID:    fmt.Sprintf("sell-%04d", i),
			SellerCity:  cities[rng.Intn(len(cities))],
			SellerState: states[rng.Intn(len(states))],
		}
	}

	orderRows := make([]demoOrder, 0, orders)
	itemRows := make([]demoOrderItem, 0, orders*2)
	paymentRows := make([]demoPayment, 0, orders)
	reviewRows := make([]demoReview, 0, orders)

	for i := 0; i < orders; i++ {
		orderID := fmt.Sprintf("order-%06d", i)
		purchased := start.Add(time.Duration(rng.Intn(18*30*24)) * time.Hour)
		status := orderStatuses[rng.Intn(len(orderStatuses))]

		order := demoOrder{
			OrderID:                orderID,
			CustomerID:             customers[rng.Intn(customerCount)].CustomerID,
			OrderStatus:            status,
			OrderPurchaseTimestamp: purchased.Format("2006-01-02 15:04:05"),
		}
		if status == "delivered" {
			delivered := purchased.Add(time.Duration(24+rng.Intn(30*24)) * time.Hour)
			order.OrderDeliveredCustomerDate = delivered.Format("2006-01-02 15:04:05")
		}
		orderRows = append(orderRows, order)

		total := 0.0
		itemCount := 1 + rng.Intn(3)
		for j := 0; j < itemCount; j++ {
			price := 10 + rng.Float64()*490
			total += price
			itemRows = append(itemRows, demoOrderItem{
				OrderID:   orderID,
				ProductID: products[rng.Intn(productCount)].ProductID,
				Price:     price,
			})
		}

		paymentRows = append(paymentRows, demoPayment{
			OrderID:      orderID,
			PaymentType:  paymentTypes[rng.Intn(len(paymentTypes))],
			PaymentValue: total,
		})

		if rng.Float64() < 0.7 {
			reviewRows = append(reviewRows, demoReview{
				ReviewID:    fmt.Sprintf("rev-%06d", i),
				OrderID:     orderID,
				ReviewScore: int32(1 + rng.Intn(5)),
			})
		}
	}

	files := make([]TableFile, 0, 7)
	var encodeErr error
	add := func(name string, data []byte, rows int, err error) {
		if encodeErr != nil {
			return
		}
		if err != nil {
			encodeErr = fmt.Errorf("encode %s: %w", name, err)
			return
		}
		files = append(files, TableFile{Name: name, Data: data, Rows: rows})
	}

	data, err := encode(customers)
	add("olist_customers_dataset.parquet", data, len(customers), err)
	data, err = encode(orderRows)
	add("olist_orders_dataset.parquet", data, len(orderRows), err)
	data, err = encode(itemRows)
	add("olist_order_items_dataset.parquet", data, len(itemRows), err)
	data, err = encode(products)
	add("olist_products_dataset.parquet", data, len(products), err)
	data, err = encode(paymentRows)
	add("olist_order_payments_dataset.parquet", data, len(paymentRows), err)
	data, err = encode(reviewRows)
	add("olist_order_reviews_dataset.parquet", data, len(reviewRows), err)
	data, err = encode(sellers)
	add("olist_sellers_dataset.parquet", data, len(sellers), err)

	if encodeErr != nil {
		return nil, encodeErr
	}
	return files, nil
}

func encode[T any](rows []T) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	writer := parquet.NewGenericWriter[T](buf)
	if _, err := writer.Write(rows); err != nil {
		return nil, fmt.Errorf("write parquet rows: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close parquet writer: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteLocal writes every generated file into dir.
func WriteLocal(dir string, files []TableFile) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create dataset dir: %w", err)
	}
	for _, file := range files {
		if err := os.WriteFile(filepath.Join(dir, file.Name), file.Data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", file.Name, err)
		}
	}
	return nil
}

// Upload pushes every generated file into the object store under prefix.
func Upload(ctx context.Context, objects storage.ObjectStore, prefix string, files []TableFile) error {
	for _, file := range files {
		key, err := storage.BuildDatasetKey(prefix, file.Name)
		if err != nil {
			return err
		}
		if _, err := objects.Put(ctx, key, bytes.NewReader(file.Data), int64(len(file.Data)), storage.PutOptions{ContentType: "application/octet-stream"}); err != nil {
			return fmt.Errorf("upload %s: %w", file.Name, err)
		}
	}
	return nil
}
