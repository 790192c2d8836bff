package models

import "rmg-pricing/internal/model"

// ErrorResponse is the envelope for every error payload.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// SKUListResponse wraps catalog listings.
type SKUListResponse struct {
	SKUs  []model.SKURecord `json:"skus"`
	Count int               `json:"count"`
}
