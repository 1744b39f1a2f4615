package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

// CreateMovementRequest records a PURCHASE, RETURN or SALE movement directly
// (goods received, customer return, over-the-counter sale without invoice).
type CreateMovementRequest struct {
	ProductID string  `json:"productId" validate:"required,uuid"`
	Type      string  `json:"type"      validate:"required,oneof=PURCHASE SALE RETURN"`
	Quantity  int     `json:"quantity"  validate:"required,gt=0"`
	Date      *string `json:"date"` // RFC 3339; defaults to now
	Reference *string `json:"reference"`
	Notes     *string `json:"notes"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type MovementFilter struct {
	ProductID string `form:"productId"`
	Type      string `form:"type"`
	FromDate  string `form:"fromDate"`
	ToDate    string `form:"toDate"`
	Page      int    `form:"page,default=1"`
	PageSize  int    `form:"pageSize,default=20"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovementResponse struct {
	ID               string  `json:"id"`
	ProductID        string  `json:"productId"`
	ProductName      string  `json:"productName,omitempty"`
	Type             string  `json:"type"`
	Quantity         int     `json:"quantity"` // signed delta
	PreviousQuantity int     `json:"previousQuantity"`
	NewQuantity      int     `json:"newQuantity"`
	MovementDate     string  `json:"movementDate"`
	Reference        *string `json:"reference"`
	Notes            *string `json:"notes"`
	CreatedAt        string  `json:"createdAt"`
}

type MovementListResponse struct {
	Data       []MovementResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	PageSize   int                `json:"pageSize"`
	TotalPages int                `json:"totalPages"`
}

// StockChangeResponse is returned by movement-recording endpoints.
type StockChangeResponse struct {
	Movement    MovementResponse `json:"movement"`
	NewQuantity int              `json:"newQuantity"`
	Status      string           `json:"status"`
}
