package models

// Multipart field names accepted by POST /api/submit-order.
const (
	FieldPhotos           = "photos"
	FieldCustomerInfo     = "customerInfo"
	FieldFrameSelection   = "frameSelection"
	FieldCollageSelection = "collageSelection"
	FieldSpecialRequests  = "specialRequests"
)

// Upload limits for a single submission.
const (
	MaxPhotos     = 10
	MaxPhotoBytes = 10 << 20
)
