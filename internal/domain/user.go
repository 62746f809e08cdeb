package domain

// User is the minimal identity slice this service needs: tier for pricing
// rules and contact details for queue/pass notifications. Authentication
// itself lives in an external identity service.
type User struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Tier        UserTier `json:"tier"`
	DeviceToken string   `json:"device_token,omitempty"` // FCM registration token
}
