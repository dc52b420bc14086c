package handlers

import "strings"

type ProductValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

func validateProduct(p ProductRequest) []ProductValidationError {
	errs := []ProductValidationError{}
	if strings.TrimSpace(p.Name) == "" {
		errs = append(errs, ProductValidationError{Field: "Name", Description: "Name is required"})
	}
	if strings.TrimSpace(p.SKU) == "" {
		errs = append(errs, ProductValidationError{Field: "SKU", Description: "SKU is required"})
	}
	if p.Price <= 0 {
		errs = append(errs, ProductValidationError{Field: "Price", Description: "Price must be greater than zero"})
	}
	if p.Quantity < 0 {
		errs = append(errs, ProductValidationError{Field: "Quantity", Description: "Quantity cannot be negative"})
	}
	if p.Threshold < 0 {
		errs = append(errs, ProductValidationError{Field: "Threshold", Description: "Threshold cannot be negative"})
	}
	return errs
}

func validateClient(c ClientRequest) []ProductValidationError {
	errs := []ProductValidationError{}
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, ProductValidationError{Field: "Name", Description: "Name is required"})
	}
	if !strings.Contains(c.Email, "@") {
		errs = append(errs, ProductValidationError{Field: "Email", Description: "A valid email is required"})
	}
	return errs
}
