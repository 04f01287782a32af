package email

// BookingConfirmationData is the payload for the booking confirmation email
type BookingConfirmationData struct {
	Email         string `json:"email"`
	RecipientName string `json:"recipient_name"`
	BookingNumber string `json:"booking_number"`
	ServiceName   string `json:"service_name"`
	PackageName   string `json:"package_name"`
	BookingDate   string `json:"booking_date"`
	BookingTime   string `json:"booking_time"`
	Amount        string `json:"amount"`
}
