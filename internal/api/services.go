package api

// Services groups the typed wrappers over one Client.
type Services struct {
	Auth      *AuthService
	Users     *UserService
	Buildings *BuildingService
	Billing   *BillingService
	Payments  *PaymentService
}

func NewServices(c *Client) *Services {
	return &Services{
		Auth:      &AuthService{c: c},
		Users:     &UserService{c: c},
		Buildings: &BuildingService{c: c},
		Billing:   &BillingService{c: c},
		Payments:  &PaymentService{c: c},
	}
}
