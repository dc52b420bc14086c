package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mvaldes-dev/stockpile/internal/models"
	"github.com/mvaldes-dev/stockpile/internal/repo"
)

const maxImportBytes = 5 << 20 // 5 MB

// readImportBody accepts either a multipart upload under the "file" field or
// a raw text body.
func readImportBody(w http.ResponseWriter, r *http.Request) (string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxImportBytes); err != nil {
			return "", errors.New("could not parse multipart form")
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return "", errors.New("missing 'file' field")
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", errors.New("could not read uploaded file")
		}
		return string(data), nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", errors.New("could not read request body")
	}
	return string(data), nil
}

// ImportStockHandler godoc
// @Summary Bulk import stock entrances from CSV
// @Description Each row is "SKU,quantity". Rows are applied independently: failed rows are reported while the rest still apply.
// @Tags inventory
// @Accept mpfd, text/csv
// @Produce json
// @Param file formData file false "CSV file (or send the CSV as the raw body)"
// @Success 200 {object} StockImportResult
// @Failure 400 {string} string "Unreadable body"
// @Failure 500 {string} string "Internal error"
// @Router /stock/import [post]
// @Security BearerAuth
func ImportStockHandler(w http.ResponseWriter, r *http.Request) {
	text, err := readImportBody(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := inventorySvc.ImportCSV(text)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// ImportProductsHandler godoc
// @Summary Bulk import catalog products from CSV
// @Description Expects a header row "name,sku,price,quantity,threshold,category". Existing SKUs are skipped unless mode=update.
// @Tags products
// @Accept mpfd, text/csv
// @Produce json
// @Param file formData file false "CSV file (or send the CSV as the raw body)"
// @Param mode query string false "skip (default) or update"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {string} string "Unreadable body or bad header"
// @Failure 500 {string} string "Internal error"
// @Router /products/import [post]
// @Security BearerAuth
func ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	mode := r.URL.Query().Get("mode")
	if mode == "" {
		mode = "skip"
	}
	if mode != "skip" && mode != "update" {
		http.Error(w, "mode must be 'skip' or 'update'", http.StatusBadRequest)
		return
	}

	text, err := readImportBody(w, r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	reader := csv.NewReader(strings.NewReader(text))
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		http.Error(w, "could not read CSV header", http.StatusBadRequest)
		return
	}
	cols, err := headerIndex(header)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result := ImportProductsResult{Errors: []ProductValidationError{}}

	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, rowError(row, "malformed CSV row"))
			continue
		}

		req, err := recordToProduct(record, cols)
		if err != nil {
			result.Errors = append(result.Errors, rowError(row, err.Error()))
			continue
		}
		if verrs := validateProduct(req); len(verrs) > 0 {
			result.Errors = append(result.Errors, rowError(row, verrs[0].Description))
			continue
		}

		existing, err := productRepo.GetBySKU(req.SKU)
		switch {
		case err == nil:
			if mode == "skip" {
				result.Errors = append(result.Errors, rowError(row, fmt.Sprintf("SKU %q already exists", req.SKU)))
				continue
			}
			existing.Name = req.Name
			existing.Price = req.Price
			existing.Threshold = req.Threshold
			existing.Category = req.Category
			existing.UpdatedAt = time.Now().Format(time.RFC3339)
			if _, err := productRepo.Update(existing); err != nil {
				result.Errors = append(result.Errors, rowError(row, "could not update product"))
				continue
			}
		case errors.Is(err, repo.ErrProductNotFound):
			now := time.Now().Format(time.RFC3339)
			product := models.Product{
				Name:      req.Name,
				SKU:       req.SKU,
				Price:     req.Price,
				Quantity:  req.Quantity,
				Threshold: req.Threshold,
				Category:  req.Category,
				Active:    true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if _, err := productRepo.Create(product); err != nil {
				result.Errors = append(result.Errors, rowError(row, "could not create product"))
				continue
			}
		default:
			result.Errors = append(result.Errors, rowError(row, "could not look up SKU"))
			continue
		}

		result.ImportedProductsCount++
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

func rowError(row int, description string) ProductValidationError {
	return ProductValidationError{
		Field:       fmt.Sprintf("row %d", row),
		Description: description,
	}
}

var requiredImportColumns = []string{"name", "sku", "price", "quantity", "threshold"}

func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, name := range requiredImportColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("missing column %q in CSV header", name)
		}
	}
	return cols, nil
}

func recordToProduct(record []string, cols map[string]int) (ProductRequest, error) {
	field := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	price, err := strconv.ParseFloat(field("price"), 64)
	if err != nil {
		return ProductRequest{}, fmt.Errorf("invalid price %q", field("price"))
	}
	quantity, err := strconv.Atoi(field("quantity"))
	if err != nil {
		return ProductRequest{}, fmt.Errorf("invalid quantity %q", field("quantity"))
	}
	threshold, err := strconv.Atoi(field("threshold"))
	if err != nil {
		return ProductRequest{}, fmt.Errorf("invalid threshold %q", field("threshold"))
	}

	return ProductRequest{
		Name:      field("name"),
		SKU:       field("sku"),
		Price:     price,
		Quantity:  quantity,
		Threshold: threshold,
		Category:  field("category"),
	}, nil
}
