package models

type HealthResponse struct {
	Message   string `json:"message" example:"Artistic Unity Backend is running!"`
	Timestamp string `json:"timestamp" example:"2024-01-15T10:20:30.123Z"`
}

type SubmitOrderResponse struct {
	Success        bool   `json:"success" example:"true"`
	Message        string `json:"message" example:"Order submitted successfully!"`
	OrderID        string `json:"orderId" example:"ORD_LRZ8K2QF_4K7ZQ"`
	DriveFolderURL string `json:"driveFolderUrl" example:"https://drive.google.com/drive/folders/1AbC"`
	Timestamp      string `json:"timestamp" example:"2024-01-15T10:20:30.123Z"`
}

type OrderStatusResponse struct {
	Success bool   `json:"success" example:"true"`
	Order   *Order `json:"order"`
}

type OrderListResponse struct {
	Success bool     `json:"success" example:"true"`
	Count   int      `json:"count" example:"1"`
	Orders  []*Order `json:"orders"`
}

// FailureResponse is the body of every non-2xx order endpoint response.
type FailureResponse struct {
	Success bool   `json:"success" example:"false"`
	Message string `json:"message" example:"Failed to submit order"`
	Error   string `json:"error,omitempty"`
}
