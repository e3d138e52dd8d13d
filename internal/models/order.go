package models

// OrderStatus is the lifecycle state of a submitted order.
type OrderStatus string

const (
	StatusProcessing OrderStatus = "processing"
	StatusCompleted  OrderStatus = "completed"
	StatusFailed     OrderStatus = "failed"
)

// TimestampLayout is the ISO-8601 UTC layout used for order timestamps.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Document is a loosely typed JSON object supplied by the storefront.
type Document = map[string]any

// Photo is one customer attachment. Data is held only while the order is
// being persisted.
type Photo struct {
	OriginalName string `json:"originalName" bson:"original_name" dynamodbav:"original_name"`
	MimeType     string `json:"mimeType" bson:"mime_type" dynamodbav:"mime_type"`
	Size         int64  `json:"size" bson:"size" dynamodbav:"size"`
	Data         []byte `json:"-" bson:"-" dynamodbav:"-"`
}

// Order is one customer submission.
type Order struct {
	ID               string      `json:"id" bson:"_id" dynamodbav:"id"`
	Timestamp        string      `json:"timestamp" bson:"timestamp" dynamodbav:"timestamp"`
	Status           OrderStatus `json:"status" bson:"status" dynamodbav:"status"`
	CustomerInfo     Document    `json:"customerInfo" bson:"customer_info" dynamodbav:"customer_info"`
	FrameSelection   Document    `json:"frameSelection" bson:"frame_selection" dynamodbav:"frame_selection"`
	CollageSelection []any       `json:"collageSelection" bson:"collage_selection" dynamodbav:"collage_selection"`
	SpecialRequests  string      `json:"specialRequests" bson:"special_requests" dynamodbav:"special_requests"`
	Photos           []Photo     `json:"photos" bson:"photos" dynamodbav:"photos"`
	DriveFolderID    string      `json:"driveFolderId,omitempty" bson:"drive_folder_id,omitempty" dynamodbav:"drive_folder_id,omitempty"`
	DriveFolderURL   string      `json:"driveFolderUrl,omitempty" bson:"drive_folder_url,omitempty" dynamodbav:"drive_folder_url,omitempty"`
	FolderName       string      `json:"folderName,omitempty" bson:"folder_name,omitempty" dynamodbav:"folder_name,omitempty"`
	Error            string      `json:"error,omitempty" bson:"error,omitempty" dynamodbav:"error,omitempty"`
}

// CustomerName returns the display name from customerInfo, or "" when it is
// missing or not a string.
func (o *Order) CustomerName() string {
	if o == nil || o.CustomerInfo == nil {
		return ""
	}
	name, _ := o.CustomerInfo["customerName"].(string)
	return name
}

// ReleasePhotoData drops attachment bytes once they are no longer needed.
func (o *Order) ReleasePhotoData() {
	for i := range o.Photos {
		o.Photos[i].Data = nil
	}
}

// OrderSubmission is the parsed request payload handed to the workflow.
type OrderSubmission struct {
	CustomerInfo     Document
	FrameSelection   Document
	CollageSelection []any
	SpecialRequests  string
	Photos           []Photo
}

// FolderReference identifies the remote folder provisioned for one order.
type FolderReference struct {
	FolderID   string `json:"folderId"`
	FolderURL  string `json:"folderUrl"`
	FolderName string `json:"folderName"`
}

// StoredFile is one artifact written into an order folder.
type StoredFile struct {
	Name     string
	MimeType string
	Data     []byte
}

// SubmitResult is returned to the caller after a successful submission.
type SubmitResult struct {
	OrderID   string
	FolderURL string
	Timestamp string
}
